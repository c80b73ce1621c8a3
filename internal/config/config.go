// Package config provides configuration loading for the extraction
// pipeline: a YAML file for the run layout with environment overrides for
// deployment-specific values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Input binds one JSONL file to the extractor that should consume it.
// Kind is one of "company", "article", "project".
type Input struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// ObjectStoreConfig holds MinIO/S3 sink settings.
type ObjectStoreConfig struct {
	EndpointURL     string `yaml:"endpoint_url"`
	Region          string `yaml:"region"`
	UseSSL          bool   `yaml:"use_ssl"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	BasePrefix      string `yaml:"base_prefix"`
}

// PostgresConfig holds relational sink settings.
type PostgresConfig struct {
	DSN    string `yaml:"dsn"`
	Schema string `yaml:"schema"`
}

// SinkConfig selects and parameterizes the persistence collaborator.
// Kind is one of "csv", "parquet", "object", "postgres".
type SinkConfig struct {
	Kind     string            `yaml:"kind"`
	Object   ObjectStoreConfig `yaml:"object"`
	Postgres PostgresConfig    `yaml:"postgres"`
}

// Config is the full pipeline configuration.
type Config struct {
	ChunkSize    int        `yaml:"chunk_size"`
	OutputDir    string     `yaml:"output_dir"`
	ShowProgress bool       `yaml:"show_progress"`
	Inputs       []Input    `yaml:"inputs"`
	Sink         SinkConfig `yaml:"sink"`
}

// Load reads the YAML config file and applies environment overrides.
// An empty path yields a config built from defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ChunkSize: 10000,
		OutputDir: "out",
		Sink:      SinkConfig{Kind: "csv", Postgres: PostgresConfig{Schema: "public"}},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 10000
	}
	if cfg.Sink.Kind == "" {
		cfg.Sink.Kind = "csv"
	}
	return cfg, nil
}

// Validate checks the parts of the config the pipeline depends on.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("no inputs configured")
	}
	for _, in := range c.Inputs {
		switch in.Kind {
		case "company", "article", "project":
		default:
			return fmt.Errorf("unknown input kind %q (want company, article or project)", in.Kind)
		}
		if in.Path == "" {
			return fmt.Errorf("input of kind %q has no path", in.Kind)
		}
	}
	switch c.Sink.Kind {
	case "csv", "parquet":
	case "object":
		if c.Sink.Object.EndpointURL == "" {
			return fmt.Errorf("object sink requires endpoint_url")
		}
	case "postgres":
		if c.Sink.Postgres.DSN == "" {
			return fmt.Errorf("postgres sink requires dsn")
		}
	default:
		return fmt.Errorf("unknown sink kind %q", c.Sink.Kind)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ChunkSize = getEnvInt("EXTRACT_CHUNK_SIZE", c.ChunkSize)
	c.OutputDir = getEnv("EXTRACT_OUTPUT_DIR", c.OutputDir)
	c.Sink.Kind = getEnv("EXTRACT_SINK", c.Sink.Kind)

	c.Sink.Object.EndpointURL = getEnv("EXTRACT_S3_ENDPOINT", c.Sink.Object.EndpointURL)
	c.Sink.Object.AccessKeyID = getEnv("EXTRACT_S3_ACCESS_KEY", c.Sink.Object.AccessKeyID)
	c.Sink.Object.SecretAccessKey = getEnv("EXTRACT_S3_SECRET_KEY", c.Sink.Object.SecretAccessKey)
	c.Sink.Object.Bucket = getEnv("EXTRACT_S3_BUCKET", c.Sink.Object.Bucket)
	c.Sink.Object.BasePrefix = getEnv("EXTRACT_S3_PREFIX", c.Sink.Object.BasePrefix)

	c.Sink.Postgres.DSN = getEnv("EXTRACT_PG_DSN", c.Sink.Postgres.DSN)
	c.Sink.Postgres.Schema = getEnv("EXTRACT_PG_SCHEMA", c.Sink.Postgres.Schema)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
