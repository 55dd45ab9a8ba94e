package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/claude-session/internal"
	"github.com/iksnae/claude-session/internal/web"
	"github.com/spf13/cobra"
)

var listenAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP server exposing conversation history, streaming chat,
and request abort endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if listenAddr != "" {
			cfg.Listen = listenAddr
		}
		if cfg.Verbose {
			internal.SetVerbose(true)
		}

		auditPath := cfg.AuditDB
		if auditPath == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			auditPath = filepath.Join(homeDir, ".claude-session", "audit.db")
		}
		audit, err := internal.OpenAuditLog(auditPath)
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		defer func() {
			if counts, err := audit.Summary(); err == nil {
				internal.LogInfo("Request totals: %v", counts)
			}
			if err := audit.Close(); err != nil {
				internal.LogWarn("Failed to close audit log: %v", err)
			}
		}()

		runner := &internal.ProcessRunner{
			Command: cfg.AgentCommand,
			Args:    cfg.AgentArgs,
		}
		gateway := internal.NewGateway(runner, internal.NewRequestRegistry(), audit, cfg.InteractiveTools)

		server := web.NewServer(web.ServerConfig{
			Addr:         cfg.Listen,
			ProjectsRoot: cfg.ProjectsDir,
			Gateway:      gateway,
		})

		internal.LogInfo("Listening on %s (agent: %s)", cfg.Listen, cfg.AgentCommand)
		return server.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (default from config, 127.0.0.1:8080)")
}
