package godefine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/brunobiangulo/godefine/llm"
	"github.com/brunobiangulo/godefine/paraphrase"
)

// Config holds all configuration for the godefine engine.
type Config struct {
	// DBPath is the full path to the SQLite database file.
	// If empty, defaults to ~/.godefine/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	DBName string `json:"db_name" yaml:"db_name" mapstructure:"db_name"`

	// StorageDir controls where the database is created when DBPath
	// is not explicitly set. "home" (default) uses ~/.godefine/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir" mapstructure:"storage_dir"`

	// Generation configures the text-generation backend. An empty
	// provider runs every paraphrase through the template fallback.
	Generation llm.Config `json:"generation" yaml:"generation" mapstructure:"generation"`

	// Paraphrase tunes generation requests.
	Paraphrase paraphrase.Config `json:"paraphrase" yaml:"paraphrase" mapstructure:"paraphrase"`

	DefaultSentenceCount  int    `json:"default_sentence_count" yaml:"default_sentence_count" mapstructure:"default_sentence_count"`
	DefaultCitationFormat string `json:"default_citation_format" yaml:"default_citation_format" mapstructure:"default_citation_format"`
	MaxUploadBytes        int64  `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `json:"addr" yaml:"addr" mapstructure:"addr"`
	APIKey      string   `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`
}

// DefaultConfig returns a Config for local inference through replicate.
// Database is stored in ~/.godefine/godefine.db by default.
func DefaultConfig() Config {
	return Config{
		DBName:     "godefine",
		StorageDir: "home",
		Generation: llm.Config{
			Provider:   "replicate",
			Model:      "ibm-granite/granite-3.3-8b-instruct",
			Timeout:    120 * time.Second,
			MaxRetries: 3,
			RetryDelay: 2 * time.Second,
		},
		Paraphrase:            paraphrase.DefaultConfig(),
		DefaultSentenceCount:  DefaultSentenceCount,
		DefaultCitationFormat: "APA",
		MaxUploadBytes:        5 << 20,
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Validate rejects values no engine can run with.
func (c *Config) Validate() error {
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("%w: max_upload_bytes must not be negative", ErrInvalidConfig)
	}
	switch c.StorageDir {
	case "", "home", "local", "cwd":
	default:
		return fmt.Errorf("%w: unknown storage_dir %q", ErrInvalidConfig, c.StorageDir)
	}
	return nil
}

// normalize replaces unusable defaults instead of failing on them.
func (c *Config) normalize() {
	if !paraphrase.ValidSentenceCount(c.DefaultSentenceCount) {
		slog.Debug("config: default sentence count out of range, using 2", "value", c.DefaultSentenceCount)
		c.DefaultSentenceCount = DefaultSentenceCount
	}
	if strings.TrimSpace(c.DefaultCitationFormat) == "" {
		c.DefaultCitationFormat = "APA"
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 5 << 20
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "godefine"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db"
		}
		return filepath.Join(home, ".godefine", name+".db")
	}
}

// LoadConfig reads configuration from path, or from godefine.yaml in the
// working directory or ~/.config/godefine/ when path is empty. Environment
// variables prefixed GODEFINE_ override file values, with nested keys
// joined by underscores (GODEFINE_GENERATION_API_KEY). A missing config
// file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("godefine")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "godefine"))
		}
	}

	v.SetEnvPrefix("GODEFINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("%w: reading config: %v", ErrInvalidConfig, err)
		}
	} else {
		slog.Debug("config: loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decoding config: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

// providerKeyEnv names the well-known API key variable of each provider.
var providerKeyEnv = map[string]string{
	"replicate": "REPLICATE_API_TOKEN",
	"openai":    "OPENAI_API_KEY",
	"groq":      "GROQ_API_KEY",
}

// ApplyProviderEnv fills an empty generation API key from the provider's
// conventional environment variable.
func (c *Config) ApplyProviderEnv() {
	if c.Generation.APIKey != "" {
		return
	}
	if name, ok := providerKeyEnv[c.Generation.Provider]; ok {
		c.Generation.APIKey = os.Getenv(name)
	}
}

// setDefaults registers every key so AutomaticEnv can bind it during
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("db_name", d.DBName)
	v.SetDefault("storage_dir", d.StorageDir)

	v.SetDefault("generation.provider", d.Generation.Provider)
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.base_url", d.Generation.BaseURL)
	v.SetDefault("generation.api_key", d.Generation.APIKey)
	v.SetDefault("generation.timeout", d.Generation.Timeout)
	v.SetDefault("generation.max_retries", d.Generation.MaxRetries)
	v.SetDefault("generation.retry_delay", d.Generation.RetryDelay)

	v.SetDefault("paraphrase.max_tokens_per_sentence", d.Paraphrase.MaxTokensPerSentence)
	v.SetDefault("paraphrase.max_tokens_cap", d.Paraphrase.MaxTokensCap)
	v.SetDefault("paraphrase.temperature", d.Paraphrase.Temperature)
	v.SetDefault("paraphrase.top_p", d.Paraphrase.TopP)

	v.SetDefault("default_sentence_count", d.DefaultSentenceCount)
	v.SetDefault("default_citation_format", d.DefaultCitationFormat)
	v.SetDefault("max_upload_bytes", d.MaxUploadBytes)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
}
