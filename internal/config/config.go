package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all client configuration
type Config struct {
	Nick       string `yaml:"nick" validate:"required"`
	Username   string `yaml:"username"`
	IRCName    string `yaml:"irc_name"`
	Server     string `yaml:"server" validate:"required,hostname_rfc1123|ip"`
	Port       int    `yaml:"port" validate:"min=1,max=65535"`
	ServerPass string `yaml:"server_pass"`
	UseTLS     bool   `yaml:"use_tls"`
	// Network overrides the name snapshots are stored under
	Network     string `yaml:"network"`
	DataDir     string `yaml:"data_dir"`
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	// Ignore lists nick or nick!user@host masks whose CTCP requests go unanswered
	Ignore []string `yaml:"ignore" validate:"dive,required"`
}

var validate = validator.New()

// Load reads, defaults and validates a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.Port == 0 {
		if cfg.UseTLS {
			cfg.Port = 6697
		} else {
			cfg.Port = 6667
		}
	}
	if cfg.Username == "" {
		cfg.Username = cfg.Nick
	}
	if cfg.IRCName == "" {
		cfg.IRCName = cfg.Nick
	}
}
