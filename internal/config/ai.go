package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Generate is for turning document text into a question set
	// (bulk task, quality over speed)
	Generate string `json:"generate"`

	// Explain is for per-answer explanations (needs to be fast)
	Explain string `json:"explain"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`

	// QuestionCount is how many questions to request per document.
	QuestionCount int `json:"questionCount"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Generate: getEnv("GEMINI_MODEL_GENERATE", "gemini-2.0-flash"),
			Explain:  getEnv("GEMINI_MODEL_EXPLAIN", "gemini-2.5-flash-preview-05-20"),
		},
		TimeoutMS:     30000, // generation reads a whole document
		QuestionCount: 5,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
