package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string          `mapstructure:"port"`
	UploadDir    string          `mapstructure:"upload_dir"`
	AIProvider   string          `mapstructure:"ai_provider"`
	AIEndpoint   string          `mapstructure:"ai_endpoint"`
	Model        string          `mapstructure:"model"`
	OpenAIAPIKey string          `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey string          `mapstructure:"GEMINI_API_KEY"`
	Embedding    EmbeddingConfig `mapstructure:"embedding"`
	Chunking     ChunkingConfig  `mapstructure:"chunking"`
	Store        StoreConfig     `mapstructure:"store"`
}

type EmbeddingConfig struct {
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	BatchSize  int    `mapstructure:"batch_size"`
	BatchDelay int    `mapstructure:"batch_delay_ms"`
}

type ChunkingConfig struct {
	MaxChunkSize int `mapstructure:"max_chunk_size"`
	OverlapSize  int `mapstructure:"overlap_size"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver"`
	PostgresURI string `mapstructure:"POSTGRES_URI"`
	MongoURI    string `mapstructure:"MONGODB_URI"`
	Database    string `mapstructure:"database"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("store.POSTGRES_URI", "POSTGRES_URI")
	v.BindEnv("store.MONGODB_URI", "MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.AIProvider == "" {
		cfg.AIProvider = "openai"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions <= 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.BatchSize <= 0 {
		cfg.Embedding.BatchSize = 100
	}
	if cfg.Embedding.BatchDelay <= 0 {
		cfg.Embedding.BatchDelay = 100
	}
	if cfg.Chunking.MaxChunkSize <= 0 {
		cfg.Chunking.MaxChunkSize = 1000
	}
	if cfg.Chunking.OverlapSize <= 0 {
		cfg.Chunking.OverlapSize = 100
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "uxmentor"
	}
}
