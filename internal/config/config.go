// Package config loads and validates the application configuration from a
// YAML file and COSTGRAPH_* environment variables.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/finops-kb/costgraph/internal/embedder"
	"github.com/finops-kb/costgraph/internal/graph"
	"github.com/finops-kb/costgraph/internal/llm"
	"github.com/finops-kb/costgraph/internal/types"
)

// QueryConfig tunes the question-answering pipeline.
type QueryConfig struct {
	// TopK caps vector results per question.
	TopK int `yaml:"top_k" json:"top_k" mapstructure:"top_k" validate:"gte=0"`
}

// Config aggregates every subsystem's configuration.
type Config struct {
	Graph    graph.Config    `yaml:"graph" json:"graph" mapstructure:"graph"`
	Embedder embedder.Config `yaml:"embedder" json:"embedder" mapstructure:"embedder"`
	LLM      llm.Config      `yaml:"llm" json:"llm" mapstructure:"llm"`
	Query    QueryConfig     `yaml:"query" json:"query" mapstructure:"query"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns a configuration with every subsystem at its defaults.
func Default() *Config {
	return &Config{
		Graph:    graph.DefaultConfig(),
		Embedder: embedder.DefaultConfig(),
		LLM:      llm.DefaultConfig(),
		Query:    QueryConfig{TopK: 10},
	}
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	defaults := Default()
	if c.Graph.URI == "" {
		c.Graph.URI = defaults.Graph.URI
		c.Graph.Username = defaults.Graph.Username
		c.Graph.Password = defaults.Graph.Password
	}
	if c.Graph.MaxConnectionPoolSize == 0 {
		c.Graph.MaxConnectionPoolSize = defaults.Graph.MaxConnectionPoolSize
	}
	if c.Graph.ConnectionTimeout == 0 {
		c.Graph.ConnectionTimeout = defaults.Graph.ConnectionTimeout
	}
	if c.Graph.MaxTransactionRetryTime == 0 {
		c.Graph.MaxTransactionRetryTime = defaults.Graph.MaxTransactionRetryTime
	}
	if c.Embedder.Provider == "" {
		c.Embedder = defaults.Embedder
	}
	if c.LLM.Provider == "" {
		c.LLM = defaults.LLM
	}
	if c.Query.TopK == 0 {
		c.Query.TopK = defaults.Query.TopK
	}
}

// Validate checks the full configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "config validation failed", err)
	}
	if err := c.Graph.Validate(); err != nil {
		return err
	}
	if err := c.Embedder.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads configuration from the given file (optional) and the
// environment, applies defaults, and validates the result.
//
// Environment variables use the COSTGRAPH_ prefix with underscores for
// nesting, e.g. COSTGRAPH_GRAPH_URI or COSTGRAPH_LLM_API_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COSTGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "read config file", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "parse config", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindDefaults registers every configuration key with viper. AutomaticEnv
// only resolves environment overrides for keys viper already knows about,
// so each key must be registered before Unmarshal.
func bindDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("graph.uri", d.Graph.URI)
	v.SetDefault("graph.username", d.Graph.Username)
	v.SetDefault("graph.password", d.Graph.Password)
	v.SetDefault("graph.database", d.Graph.Database)
	v.SetDefault("graph.pool_size", d.Graph.MaxConnectionPoolSize)
	v.SetDefault("graph.connection_timeout", d.Graph.ConnectionTimeout)
	v.SetDefault("graph.max_retry_time", d.Graph.MaxTransactionRetryTime)
	v.SetDefault("embedder.provider", d.Embedder.Provider)
	v.SetDefault("embedder.model", d.Embedder.Model)
	v.SetDefault("embedder.api_key", d.Embedder.APIKey)
	v.SetDefault("embedder.base_url", d.Embedder.BaseURL)
	v.SetDefault("embedder.dimensions", d.Embedder.Dimensions)
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("query.top_k", d.Query.TopK)
}
