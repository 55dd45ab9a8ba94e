package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/claude-session/internal"
	"github.com/iksnae/claude-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	sessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <project-token>",
	Short: "Export conversations to files",
	Long: `Export a project's conversations to various formats (jsonl, md, yaml, json).

By default every conversation in the project is exported, one file per
session. Use --session-id to export a single conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dir, err := resolveProjectDir(cfg, args[0])
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var conversations []*internal.FullConversation
		if sessionID != "" {
			conv, err := internal.LoadConversation(dir, sessionID)
			if err != nil {
				return err
			}
			conversations = append(conversations, conv)
		} else {
			sets, err := internal.ParseProjectDir(dir)
			if err != nil {
				return fmt.Errorf("failed to parse transcripts: %w", err)
			}
			for _, set := range sets {
				conv, err := internal.LoadConversation(dir, set.SessionID)
				if err != nil {
					internal.LogWarn("Skipping session %s: %v", set.SessionID, err)
					continue
				}
				conversations = append(conversations, conv)
			}
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for _, conv := range conversations {
			filename := fmt.Sprintf("%s.%s", conv.SessionID, exporter.Extension())
			path := filepath.Join(outputDir, filename)

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Export(conv, f); err != nil {
				f.Close()
				return fmt.Errorf("failed to export %s: %w", conv.SessionID, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", path, err)
			}
			internal.LogInfo("Exported %s", path)
		}

		fmt.Printf("Export complete: %d conversation(s) exported to %s\n", len(conversations), outputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&sessionID, "session-id", "", "Export a specific session by ID")
}
