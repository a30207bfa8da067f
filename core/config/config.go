// Package config loads application settings from YAML with environment
// overrides, exposes them through an atomic snapshot, and supports hot
// reload when the config file changes on disk.
package config

type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Session     SessionConfig     `yaml:"session"`
	Log         LogConfig         `yaml:"log"`
}

type LLMConfig struct {
	GoogleAPIKey    string `yaml:"google_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	FlashModels    []string `yaml:"flash_models"`
	ProModels      []string `yaml:"pro_models"`
	OpenAIModel    string   `yaml:"openai_model"`
	AnthropicModel string   `yaml:"anthropic_model"`

	MaxRetries int `yaml:"max_retries"`
}

type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	CacheSize int    `yaml:"cache_size"`
}

type VectorStoreConfig struct {
	PersistencePath     string  `yaml:"persistence_path"`
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MinStruggleLength   int     `yaml:"min_struggle_length"`
	DedupThreshold      float64 `yaml:"deduplication_threshold"`
	AutoSaveInterval    int     `yaml:"auto_save_interval"`
	EnableRealUserData  bool    `yaml:"enable_real_user_data"`
}

type SessionConfig struct {
	DatabasePath string `yaml:"database_path"`
	HistoryLimit int    `yaml:"history_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			FlashModels: []string{
				"gemini-2.5-flash",
				"gemini-2.0-flash-001",
				"gemini-2.0-flash",
			},
			ProModels:      []string{"gemini-2.5-pro"},
			OpenAIModel:    "gpt-4o-mini",
			AnthropicModel: "claude-3-5-haiku-latest",
			MaxRetries:     3,
		},
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-004",
			CacheSize: 512,
		},
		VectorStore: VectorStoreConfig{
			PersistencePath:     "data/vector_store.json",
			TopK:                5,
			SimilarityThreshold: 0.7,
			MinStruggleLength:   20,
			DedupThreshold:      0.95,
			AutoSaveInterval:    10,
			EnableRealUserData:  false,
		},
		Session: SessionConfig{
			DatabasePath: "data/sessions.db",
			HistoryLimit: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
