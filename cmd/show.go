package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/claude-session/internal"
	"github.com/spf13/cobra"
)

var (
	limit         int
	since         string
	showSidechain bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <project-token> <session-id>",
	Short: "Show messages for a specific session",
	Long:  `Display the full reconstructed conversation for one session.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, sessionID := args[0], args[1]

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dir, err := resolveProjectDir(cfg, token)
		if err != nil {
			return err
		}

		conv, err := internal.LoadConversation(dir, sessionID)
		if err != nil {
			return err
		}

		displayConversationHeader(conv)

		messages := conv.Messages
		if !showSidechain {
			filtered := make([]*internal.LogRecord, 0, len(messages))
			for _, rec := range messages {
				if !rec.IsSidechain {
					filtered = append(filtered, rec)
				}
			}
			messages = filtered
		}

		// Filter by timestamp if --since is provided
		if since != "" {
			sinceTime, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
			}
			filtered := make([]*internal.LogRecord, 0, len(messages))
			for _, rec := range messages {
				if !rec.Timestamp.Before(sinceTime) {
					filtered = append(filtered, rec)
				}
			}
			messages = filtered
		}

		total := len(messages)
		if limit > 0 && limit < total {
			messages = messages[:limit]
		}

		for i, rec := range messages {
			displayRecord(i+1, rec, total)
		}

		if limit > 0 && limit < total {
			fmt.Println()
			fmt.Println(lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more message(s))", total-limit)))
		}

		return nil
	},
}

func displayConversationHeader(conv *internal.FullConversation) {
	header := sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", conv.SessionID))
	fmt.Println(header)

	meta := sessionMetaStyle.Render(fmt.Sprintf("Messages: %d", len(conv.Messages)))
	fmt.Println(meta)
	fmt.Println()
}

func displayRecord(index int, rec *internal.LogRecord, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch rec.Kind {
	case internal.KindUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 User"
	case internal.KindAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", rec.Kind)
	}
	if rec.IsSidechain {
		actorLabel += " (sidechain)"
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !rec.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(rec.Timestamp.Format("15:04:05"))
	}
	fmt.Println(header)

	content := strings.TrimSpace(internal.ExtractMessageText(rec.Message))
	if content != "" {
		content = wrapText(content, 80)
		fmt.Println(messageContentStyle.Render(content))
	} else {
		fmt.Println(messageContentStyle.Foreground(lipgloss.Color("240")).Render("(no text content)"))
	}

	fmt.Println()
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (ISO8601)")
	showCmd.Flags().BoolVar(&showSidechain, "sidechains", false, "Include sidechain (sub-agent) records")
}
