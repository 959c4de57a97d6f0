package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fmueller/voxnote/internal/summarize"
	"github.com/fmueller/voxnote/internal/whisper"
)

const EnvPrefix = "VOXNOTE_"

type Config struct {
	Addr            string
	MaxUploadMB     int64
	ShutdownTimeout time.Duration

	Model                string
	ModelDir             string
	WorkDir              string
	AutoDownload         bool
	Language             string
	SilenceGate          bool
	SilenceThresholdDBFS float64

	Provider    string
	BaseURL     string
	LLMModel    string
	Temperature float64
	MaxTokens   int
	Template    string

	Verbose    bool
	JSONLogs   bool
	NoProgress bool
}

func Default() Config {
	return Config{
		Addr:                 "127.0.0.1:8080",
		MaxUploadMB:          25,
		ShutdownTimeout:      10 * time.Second,
		Model:                whisper.DefaultModel,
		AutoDownload:         true,
		Language:             "en",
		SilenceGate:          true,
		SilenceThresholdDBFS: -65,
		Provider:             summarize.ProviderOpenAI,
		Temperature:          float64(summarize.DefaultTemperature),
		MaxTokens:            summarize.DefaultMaxTokens,
		Template:             summarize.TemplateGeneral,
	}
}

// MaxUploadBytes is the upload bound in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// SummaryModel is the configured LLM model or the provider default.
func (c Config) SummaryModel() string {
	if strings.TrimSpace(c.LLMModel) != "" {
		return c.LLMModel
	}
	return summarize.DefaultModel(c.Provider)
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("listen address must not be empty"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max upload size must be positive, got %d MB", c.MaxUploadMB))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}

	lang := strings.ToLower(strings.TrimSpace(c.Language))
	switch {
	case lang == "":
		errs = append(errs, errors.New("language must not be empty"))
	case lang == "auto":
		errs = append(errs, errors.New(`language must be pinned; "auto" detection is not supported`))
	}

	if !summarize.IsKnownProvider(c.Provider) {
		errs = append(errs, fmt.Errorf("unknown provider %q (available: %s)", c.Provider, strings.Join(summarize.ProviderNames(), ", ")))
	}
	if _, ok := summarize.LookupTemplate(c.Template); !ok {
		errs = append(errs, fmt.Errorf("unknown template %q (available: %s)", c.Template, strings.Join(summarize.TemplateNames(), ", ")))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens))
	}
	if c.Temperature <= 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature must be within (0, 2], got %g", c.Temperature))
	}

	return errors.Join(errs...)
}

// CredentialEnvName is the variable conventionally holding provider's key.
func CredentialEnvName(provider string) string {
	if strings.EqualFold(strings.TrimSpace(provider), summarize.ProviderGemini) {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func CredentialFromEnv(provider string, lookup func(string) (string, bool)) string {
	value, _ := lookup(CredentialEnvName(provider))
	return strings.TrimSpace(value)
}

type binding struct {
	flag string
	set  func(c *Config, value string) error
}

func stringField(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func boolField(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

var bindings = []binding{
	{flag: "addr", set: stringField(func(c *Config) *string { return &c.Addr })},
	{flag: "max-upload-mb", set: func(c *Config, v string) (err error) {
		c.MaxUploadMB, err = strconv.ParseInt(v, 10, 64)
		return err
	}},
	{flag: "shutdown-timeout", set: func(c *Config, v string) (err error) {
		c.ShutdownTimeout, err = time.ParseDuration(v)
		return err
	}},
	{flag: "model", set: stringField(func(c *Config) *string { return &c.Model })},
	{flag: "model-dir", set: stringField(func(c *Config) *string { return &c.ModelDir })},
	{flag: "work-dir", set: stringField(func(c *Config) *string { return &c.WorkDir })},
	{flag: "auto-download", set: boolField(func(c *Config) *bool { return &c.AutoDownload })},
	{flag: "language", set: stringField(func(c *Config) *string { return &c.Language })},
	{flag: "silence-gate", set: boolField(func(c *Config) *bool { return &c.SilenceGate })},
	{flag: "silence-threshold-dbfs", set: func(c *Config, v string) (err error) {
		c.SilenceThresholdDBFS, err = strconv.ParseFloat(v, 64)
		return err
	}},
	{flag: "provider", set: stringField(func(c *Config) *string { return &c.Provider })},
	{flag: "base-url", set: stringField(func(c *Config) *string { return &c.BaseURL })},
	{flag: "llm-model", set: stringField(func(c *Config) *string { return &c.LLMModel })},
	{flag: "temperature", set: func(c *Config, v string) (err error) {
		c.Temperature, err = strconv.ParseFloat(v, 64)
		return err
	}},
	{flag: "max-tokens", set: func(c *Config, v string) (err error) {
		c.MaxTokens, err = strconv.Atoi(v)
		return err
	}},
	{flag: "template", set: stringField(func(c *Config) *string { return &c.Template })},
	{flag: "verbose", set: boolField(func(c *Config) *bool { return &c.Verbose })},
	{flag: "json", set: boolField(func(c *Config) *bool { return &c.JSONLogs })},
	{flag: "no-progress", set: boolField(func(c *Config) *bool { return &c.NoProgress })},
}

// EnvName maps a flag name to its environment variable, e.g. max-tokens to
// VOXNOTE_MAX_TOKENS.
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// ApplyEnv overlays VOXNOTE_* variables onto c. Settings whose flag was given
// explicitly on the command line keep the flag value.
func ApplyEnv(c *Config, lookup func(string) (string, bool), explicit func(flag string) bool) error {
	for _, b := range bindings {
		if explicit != nil && explicit(b.flag) {
			continue
		}
		name := EnvName(b.flag)
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := b.set(c, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("parse %s=%q: %w", name, value, err)
		}
	}
	return nil
}
