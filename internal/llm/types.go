package llm

import "github.com/povarna/generative-ai-agents/llm-gateway/internal/models"

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500

	UnknownErrorCode = "UNKNOWN_ERROR"
)

// Settings are the fully resolved parameters of one provider call.
type Settings struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

func DefaultSettings() Settings {
	return Settings{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Merge returns s with every option that is set in opts applied on top.
func (s Settings) Merge(opts models.GenerationOptions) Settings {
	merged := s
	if opts.Model != nil && *opts.Model != "" {
		merged.Model = *opts.Model
	}
	if opts.Temperature != nil {
		merged.Temperature = *opts.Temperature
	}
	// Zero means unset. Negative values reach the provider, which rejects them.
	if opts.MaxTokens != nil && *opts.MaxTokens != 0 {
		merged.MaxTokens = *opts.MaxTokens
	}
	return merged
}
