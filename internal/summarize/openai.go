package summarize

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	baseURL string
}

func NewOpenAIProvider(baseURL string) *OpenAIProvider {
	return &OpenAIProvider{baseURL: baseURL}
}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Complete builds a client per call; the credential belongs to the caller,
// not to the process.
func (p *OpenAIProvider) Complete(ctx context.Context, req Completion) (string, error) {
	cfg := openai.DefaultConfig(req.Credential)
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.User,
			},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
