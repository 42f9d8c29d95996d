package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"industry-rag/internal/models"
)

type Config struct {
	Search   SearchConfig   `yaml:"search"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	Rerank   RerankConfig   `yaml:"rerank"`
	RAG      RAGConfig      `yaml:"rag"`
	Database DatabaseConfig `yaml:"database"`
}

// LLMConfig holds connection details for one OpenAI-compatible or ollama endpoint.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type SearchConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	SearchDepth string `yaml:"search_depth"` // "basic" or "advanced"
	MaxResults  int    `yaml:"max_results"`
	MaxRetries  int    `yaml:"max_retries"`
}

type RerankConfig struct {
	Provider string    `yaml:"provider"` // "http", "llm" or "lexical"
	BaseURL  string    `yaml:"base_url"`
	Key      string    `yaml:"key"`
	Model    string    `yaml:"model"`
	LLM      LLMConfig `yaml:"llm"`
}

type RAGConfig struct {
	Backend        string `yaml:"backend"` // "chromem" or "postgres"
	DBPath         string `yaml:"db_path"`
	CollectionName string `yaml:"collection_name"`
	RetrieveCount  int    `yaml:"retrieve_count"`
	RerankTopK     int    `yaml:"rerank_top_k"`
	ChunkSize      int    `yaml:"chunk_size"`
	ChunkOverlap   int    `yaml:"chunk_overlap"`
	InMemory       bool   `yaml:"in_memory"`
	EncryptionKey  string `yaml:"encryption_key"`
}

type DatabaseConfig struct {
	URL        string `yaml:"url"`
	Key        string `yaml:"key"`
	VectorSize int    `yaml:"vector_size"`
	Debug      bool   `yaml:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultConfig returns a config with the RAG tuning defaults filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.RAG.Backend == "" {
		c.RAG.Backend = "chromem"
	}
	if c.RAG.DBPath == "" {
		c.RAG.DBPath = models.DefaultDBPath
	}
	if c.RAG.CollectionName == "" {
		c.RAG.CollectionName = models.DefaultCollectionName
	}
	if c.RAG.RetrieveCount == 0 {
		c.RAG.RetrieveCount = models.DefaultRetrieveCount
	}
	if c.RAG.RerankTopK == 0 {
		c.RAG.RerankTopK = models.DefaultRerankTopK
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 1000
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 200
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://api.tavily.com"
	}
	if c.Search.SearchDepth == "" {
		c.Search.SearchDepth = "advanced"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 5
	}
	if c.Search.MaxRetries == 0 {
		c.Search.MaxRetries = 3
	}
	if c.Database.VectorSize == 0 {
		c.Database.VectorSize = 768
	}
}
