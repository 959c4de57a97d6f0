package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-3.5-turbo",
	ProviderGemini: "gemini-2.5-flash",
}

// Completion is one system + user exchange sent to a provider.
type Completion struct {
	Credential  string
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

type Provider interface {
	Name() string
	Complete(ctx context.Context, req Completion) (string, error)
}

// NewProvider builds the named provider. An empty baseURL keeps the
// provider's public endpoint.
func NewProvider(name, baseURL string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderOpenAI:
		return NewOpenAIProvider(baseURL), nil
	case ProviderGemini:
		return NewGeminiProvider(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown summarization provider %q (available: %s)", name, strings.Join(ProviderNames(), ", "))
	}
}

func ProviderNames() []string {
	return []string{ProviderGemini, ProviderOpenAI}
}

func IsKnownProvider(name string) bool {
	return lo.Contains(ProviderNames(), strings.ToLower(strings.TrimSpace(name)))
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	if model, ok := defaultModels[strings.ToLower(strings.TrimSpace(provider))]; ok {
		return model
	}
	return defaultModels[ProviderOpenAI]
}
