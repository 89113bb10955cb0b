package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStepSize  = 1.0 / 512.0
	DefaultGravity   = 1.0
	DefaultLookahead = 20000
	DefaultSpeed     = 1.0
	DefaultFrameRate = 60
)

type Config struct {
	StepSize   float64 `yaml:"step_size"`
	Gravity    float64 `yaml:"gravity"`
	Lookahead  int     `yaml:"lookahead"`
	Speed      float64 `yaml:"speed"`
	FrameRate  int     `yaml:"frame_rate"`
	Collisions bool    `yaml:"collisions"`
	DataDir    string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		StepSize:  DefaultStepSize,
		Gravity:   DefaultGravity,
		Lookahead: DefaultLookahead,
		Speed:     DefaultSpeed,
		FrameRate: DefaultFrameRate,
		DataDir:   ".orbitlab",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
