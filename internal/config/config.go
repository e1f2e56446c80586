package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/normanking/chrest/internal/chrest"
	"github.com/normanking/chrest/internal/pattern"
	"github.com/normanking/chrest/internal/trace"
)

// Config is the complete chrest configuration.
type Config struct {
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Trace   TraceConfig   `mapstructure:"trace" yaml:"trace"`
}

// ModelConfig holds the learning parameters, in virtual milliseconds.
type ModelConfig struct {
	LinkTraversalTime           int               `mapstructure:"link_traversal_time" yaml:"link_traversal_time"`
	ComparisonTime              int               `mapstructure:"comparison_time" yaml:"comparison_time"`
	DiscriminationTime          int               `mapstructure:"discrimination_time" yaml:"discrimination_time"`
	FamiliarisationTime         int               `mapstructure:"familiarisation_time" yaml:"familiarisation_time"`
	SemanticLinkCreationTime    int               `mapstructure:"semantic_link_creation_time" yaml:"semantic_link_creation_time"`
	NamingLinkCreationTime      int               `mapstructure:"naming_link_creation_time" yaml:"naming_link_creation_time"`
	ProductionCreationTime      int               `mapstructure:"production_creation_time" yaml:"production_creation_time"`
	ProductionReinforcementTime int               `mapstructure:"production_reinforcement_time" yaml:"production_reinforcement_time"`
	SemanticSearchDepth         int               `mapstructure:"semantic_search_depth" yaml:"semantic_search_depth"`
	SimilarityThreshold         int               `mapstructure:"similarity_threshold" yaml:"similarity_threshold"` // shared image items, inclusive
	LearningProbability         float64           `mapstructure:"learning_probability" yaml:"learning_probability"`
	Seed                        int64             `mapstructure:"seed" yaml:"seed"` // 0 means unseeded
	StmCapacity                 StmCapacityConfig `mapstructure:"stm_capacity" yaml:"stm_capacity"`
}

// StmCapacityConfig sizes the short-term memory of each modality.
type StmCapacityConfig struct {
	Visual int `mapstructure:"visual" yaml:"visual"`
	Verbal int `mapstructure:"verbal" yaml:"verbal"`
	Action int `mapstructure:"action" yaml:"action"`
}

// LoggingConfig configures the root logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // console or json
	File   string `mapstructure:"file" yaml:"file"`     // empty disables file output
}

// TraceConfig configures the learning-episode audit log.
type TraceConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Driver  string `mapstructure:"driver" yaml:"driver"` // sqlite or sqlite3
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
}

// Default returns a configuration with the classic model parameters.
func Default() *Config {
	p := chrest.DefaultParams()
	return &Config{
		Model: ModelConfig{
			LinkTraversalTime:           p.LinkTraversalTime,
			ComparisonTime:              p.ComparisonTime,
			DiscriminationTime:          p.DiscriminationTime,
			FamiliarisationTime:         p.FamiliarisationTime,
			SemanticLinkCreationTime:    p.SemanticLinkCreationTime,
			NamingLinkCreationTime:      p.NamingLinkCreationTime,
			ProductionCreationTime:      p.ProductionCreationTime,
			ProductionReinforcementTime: p.ProductionReinforcementTime,
			SemanticSearchDepth:         p.SemanticSearchDepth,
			SimilarityThreshold:         p.SimilarityThreshold,
			LearningProbability:         p.LearningProbability,
			StmCapacity: StmCapacityConfig{
				Visual: p.StmCapacity[pattern.Visual],
				Verbal: p.StmCapacity[pattern.Verbal],
				Action: p.StmCapacity[pattern.Action],
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
		Trace: TraceConfig{
			Enabled: true,
			Driver:  trace.DriverModernc,
			DBPath:  "~/.chrest/trace.db",
		},
	}
}

// ToParams converts the model section into model parameters.
func (c ModelConfig) ToParams() chrest.Params {
	p := chrest.Params{
		LinkTraversalTime:           c.LinkTraversalTime,
		ComparisonTime:              c.ComparisonTime,
		DiscriminationTime:          c.DiscriminationTime,
		FamiliarisationTime:         c.FamiliarisationTime,
		SemanticLinkCreationTime:    c.SemanticLinkCreationTime,
		NamingLinkCreationTime:      c.NamingLinkCreationTime,
		ProductionCreationTime:      c.ProductionCreationTime,
		ProductionReinforcementTime: c.ProductionReinforcementTime,
		SemanticSearchDepth:         c.SemanticSearchDepth,
		SimilarityThreshold:         c.SimilarityThreshold,
		LearningProbability:         c.LearningProbability,
	}
	p.StmCapacity[pattern.Visual] = c.StmCapacity.Visual
	p.StmCapacity[pattern.Verbal] = c.StmCapacity.Verbal
	p.StmCapacity[pattern.Action] = c.StmCapacity.Action
	return p
}

// Load reads ~/.chrest/config.yaml, creating it with defaults if missing.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, ".chrest", "config.yaml"))
}

// LoadFromPath reads the configuration at path, creating it with defaults if
// missing. CHREST_ environment variables override file values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Example: CHREST_MODEL_STM_CAPACITY_VISUAL
	v.SetEnvPrefix("CHREST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Trace.DBPath = expandPath(cfg.Trace.DBPath)
	return &cfg, nil
}

// Save writes the configuration to ~/.chrest/config.yaml.
func (c *Config) Save() error {
	return c.SaveToPath(c.GetConfigPath())
}

// SaveToPath writes the configuration to path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// GetDataDir returns the chrest data directory (~/.chrest).
func (c *Config) GetDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".chrest")
}

// GetConfigPath returns the full path to the default config file.
func (c *Config) GetConfigPath() string {
	return filepath.Join(c.GetDataDir(), "config.yaml")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Model.ToParams().Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format '%s', must be 'console' or 'json'", c.Logging.Format)
	}

	if c.Trace.Enabled {
		if c.Trace.Driver != trace.DriverModernc && c.Trace.Driver != trace.DriverCgo {
			return fmt.Errorf("invalid trace driver '%s', must be '%s' or '%s'",
				c.Trace.Driver, trace.DriverModernc, trace.DriverCgo)
		}
		if c.Trace.DBPath == "" {
			return fmt.Errorf("trace.db_path cannot be empty when tracing is enabled")
		}
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
