package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/claude-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	projectsDir string
	configPath  string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "claude-session",
	Short: "Browse and drive Claude Code conversations",
	Long: `A server and CLI for the conversations Claude Code keeps on disk.

Claude Code appends every conversation to line-delimited transcript files
under ~/.claude/projects/<encoded-project-path>/. This tool parses those
transcripts into browsable conversations and can run new streaming turns
against the assistant.

Quick Start:
  claude-session list                          # List project directories
  claude-session list <project-token>          # List a project's conversations
  claude-session show <project-token> <id>     # View one conversation
  claude-session serve                         # Start the HTTP API
  claude-session export <project-token>        # Export conversations

For detailed usage, see: https://github.com/iksnae/claude-session`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&projectsDir, "projects", "", "Custom projects directory (default ~/.claude/projects)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.claude-session.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig loads the YAML config, applying the --projects override.
func loadConfig() (*internal.Config, error) {
	path := configPath
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if projectsDir != "" {
		cfg.ProjectsDir = projectsDir
	}
	return cfg, nil
}

// resolveProjectDir resolves a project token against the configured root.
func resolveProjectDir(cfg *internal.Config, token string) (string, error) {
	root, err := internal.ProjectsRoot(cfg.ProjectsDir)
	if err != nil {
		return "", err
	}
	return internal.ResolveProjectDir(root, token)
}
