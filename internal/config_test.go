package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
	if cfg.AgentCommand != "claude" {
		t.Errorf("AgentCommand = %q, want claude", cfg.AgentCommand)
	}
	if len(cfg.InteractiveTools) != 1 || cfg.InteractiveTools[0] != "AskUserQuestion" {
		t.Errorf("InteractiveTools = %v, want [AskUserQuestion]", cfg.InteractiveTools)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `listen: "0.0.0.0:9000"
projects_dir: /data/projects
agent_command: claude-dev
agent_args: ["--model", "opus"]
interactive_tools: ["AskUserQuestion", "RequestApproval"]
verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.ProjectsDir != "/data/projects" {
		t.Errorf("ProjectsDir = %q", cfg.ProjectsDir)
	}
	if cfg.AgentCommand != "claude-dev" {
		t.Errorf("AgentCommand = %q", cfg.AgentCommand)
	}
	if len(cfg.AgentArgs) != 2 || cfg.AgentArgs[1] != "opus" {
		t.Errorf("AgentArgs = %v", cfg.AgentArgs)
	}
	if len(cfg.InteractiveTools) != 2 {
		t.Errorf("InteractiveTools = %v", cfg.InteractiveTools)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("verbose: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" || cfg.AgentCommand != "claude" {
		t.Errorf("defaults not preserved: Listen = %q, AgentCommand = %q", cfg.Listen, cfg.AgentCommand)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
