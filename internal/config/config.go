package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/cuecheck/internal/proofread"
	"github.com/mgpai22/cuecheck/internal/subtitle"
)

type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Glossary   GlossaryConfig   `yaml:"glossary"`
	Transcript TranscriptConfig `yaml:"transcript"`
}

type LLMConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	BatchSize   int    `yaml:"batch_size"`
	Concurrency int    `yaml:"concurrency"`
}

type GlossaryConfig struct {
	Path string `yaml:"path"`
}

type TranscriptConfig struct {
	ParagraphGap float64 `yaml:"paragraph_gap"`
}

// Load reads a YAML config file and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault is Load for the default location: a missing file yields
// the defaults instead of an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = &Config{}
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// DefaultPath is $XDG_CONFIG_HOME/cuecheck/config.yaml or the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "cuecheck.yaml"
	}
	return filepath.Join(dir, "cuecheck", "config.yaml")
}

func defaultGlossaryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "glossary.db"
	}
	return filepath.Join(dir, "cuecheck", "glossary.db")
}

func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		c.LLM.Provider = string(proofread.ProviderGemini)
	}
	provider, err := proofread.ParseProvider(c.LLM.Provider)
	if err != nil {
		return fmt.Errorf("llm.provider: %w", err)
	}
	c.LLM.Provider = string(provider)
	if c.LLM.BatchSize < 0 {
		return fmt.Errorf("llm.batch_size must not be negative")
	}
	if c.LLM.Concurrency < 0 {
		return fmt.Errorf("llm.concurrency must not be negative")
	}
	if c.Transcript.ParagraphGap < 0 {
		return fmt.Errorf("transcript.paragraph_gap must not be negative")
	}

	if c.LLM.BatchSize == 0 {
		c.LLM.BatchSize = proofread.DefaultBatchSize
	}
	if c.LLM.Concurrency == 0 {
		c.LLM.Concurrency = proofread.DefaultConcurrency
	}
	if c.Glossary.Path == "" {
		c.Glossary.Path = defaultGlossaryPath()
	}
	if c.Transcript.ParagraphGap == 0 {
		c.Transcript.ParagraphGap = subtitle.DefaultParagraphGap
	}

	return nil
}
