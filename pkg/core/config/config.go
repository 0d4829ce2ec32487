// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/masumhasan/comAI/pkg/retrieval"
)

// Config represents the main configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Vectara   VectaraConfig   `yaml:"vectara"`
	Engine    EngineConfig    `yaml:"engine"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Index     IndexConfig     `yaml:"index"`
	History   HistoryConfig   `yaml:"history"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// VectaraConfig contains the hosted search service credentials. Any field
// left empty here also falls back to its VECTARA_* environment variable
// inside the client itself.
type VectaraConfig struct {
	CustomerID string `yaml:"customer_id"`
	CorpusID   string `yaml:"corpus_id"`
	APIKey     string `yaml:"api_key"`
	Endpoint   string `yaml:"endpoint"` // default https://api.vectara.io
}

// EngineConfig contains answer-synthesis configuration
type EngineConfig struct {
	ModelEndpoint string        `yaml:"model_endpoint"`
	APIKey        string        `yaml:"api_key"`
	Model         string        `yaml:"model"` // e.g. "gpt-4o-mini"
	MaxTokens     int           `yaml:"max_tokens"`
	Timeout       time.Duration `yaml:"timeout"`
}

// RetrievalConfig selects the retrieval backend and its search parameters
type RetrievalConfig struct {
	Store  string  `yaml:"store"` // "vectara" (default) or "memory"
	K      int     `yaml:"k"`
	Alpha  float64 `yaml:"alpha"`
	Filter string  `yaml:"filter"`
}

// IndexConfig lists the documents indexed at startup
type IndexConfig struct {
	URLs         []string `yaml:"urls"`
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
}

// HistoryConfig selects where question/answer exchanges are recorded
type HistoryConfig struct {
	Store       string `yaml:"store"` // "memory" (default), "sqlite" or "postgres"
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 60 * time.Second,
		},
		Engine: EngineConfig{
			MaxTokens: 1024,
			Timeout:   60 * time.Second,
		},
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VECTARA_CUSTOMER_ID"); v != "" {
		cfg.Vectara.CustomerID = v
	}
	if v := os.Getenv("VECTARA_CORPUS_ID"); v != "" {
		cfg.Vectara.CorpusID = v
	}
	if v := os.Getenv("VECTARA_API_KEY"); v != "" {
		cfg.Vectara.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Engine.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_ENDPOINT"); v != "" {
		cfg.Engine.ModelEndpoint = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.History.PostgresDSN = v
		cfg.History.Store = "postgres"
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}
	if cfg.Engine.Model == "" {
		cfg.Engine.Model = "gpt-4o-mini"
	}
	if cfg.Engine.MaxTokens == 0 {
		cfg.Engine.MaxTokens = 1024
	}
	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = 60 * time.Second
	}
	if cfg.Retrieval.Store == "" {
		cfg.Retrieval.Store = "vectara"
	}
	if cfg.Retrieval.K == 0 {
		cfg.Retrieval.K = retrieval.DefaultK
	}
	if cfg.Retrieval.Alpha == 0 {
		cfg.Retrieval.Alpha = retrieval.DefaultAlpha
	}
	if cfg.Index.ChunkSize == 0 {
		cfg.Index.ChunkSize = retrieval.DefaultChunkSize
	}
	if cfg.Index.ChunkOverlap == 0 {
		cfg.Index.ChunkOverlap = retrieval.DefaultChunkOverlap
	}
	if cfg.History.Store == "" {
		cfg.History.Store = "memory"
	}
	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = "comai-history.db"
	}
}
