package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// AI holds the language-model backend settings.
type AI struct {
	EndpointURL     string  `json:"endpoint_url"`
	Model           string  `json:"model"`
	EmbeddingModel  string  `json:"embedding_model"`
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

// ChromaDB holds the vector index connection settings.
type ChromaDB struct {
	Host string `json:"chromadb_server_host"`
	Port int    `json:"chromadb_server_port"`
}

// Summaries holds the persisted corpus location.
type Summaries struct {
	Path string `json:"summaries_path"`
}

// Config is the full configuration surface, validated once at startup.
// The API credential is sourced from the OPENAI_API_KEY environment variable,
// never from the file.
type Config struct {
	AI        AI        `json:"ai"`
	ChromaDB  ChromaDB  `json:"chromadb"`
	Summaries Summaries `json:"summaries"`

	APIKey string `json:"-"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg.APIKey = os.Getenv("OPENAI_API_KEY")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AI.Model == "" {
		return fmt.Errorf("config: ai.model is required")
	}
	if c.AI.EmbeddingModel == "" {
		return fmt.Errorf("config: ai.embedding_model is required")
	}
	if c.AI.MaxOutputTokens <= 0 {
		return fmt.Errorf("config: ai.max_output_tokens must be positive")
	}
	if c.ChromaDB.Host == "" {
		return fmt.Errorf("config: chromadb.chromadb_server_host is required")
	}
	if c.ChromaDB.Port <= 0 {
		return fmt.Errorf("config: chromadb.chromadb_server_port must be positive")
	}
	if c.Summaries.Path == "" {
		return fmt.Errorf("config: summaries.summaries_path is required")
	}
	return nil
}
