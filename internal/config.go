package internal

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds server and agent settings loaded from the YAML config file.
type Config struct {
	Listen           string   `yaml:"listen"`
	ProjectsDir      string   `yaml:"projects_dir,omitempty"`
	AgentCommand     string   `yaml:"agent_command"`
	AgentArgs        []string `yaml:"agent_args,omitempty"`
	AuditDB          string   `yaml:"audit_db,omitempty"`
	InteractiveTools []string `yaml:"interactive_tools,omitempty"`
	Verbose          bool     `yaml:"verbose,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Listen:           "127.0.0.1:8080",
		AgentCommand:     "claude",
		InteractiveTools: []string{"AskUserQuestion"},
	}
}

// DefaultConfigPath returns ~/.claude-session.yaml, or "" when the home
// directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude-session.yaml")
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}

	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:8080"
	}
	if cfg.AgentCommand == "" {
		cfg.AgentCommand = "claude"
	}
	if len(cfg.InteractiveTools) == 0 {
		cfg.InteractiveTools = []string{"AskUserQuestion"}
	}
	return cfg, nil
}
