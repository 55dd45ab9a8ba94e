package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/claude-session/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [project-token]",
	Short: "List projects or a project's conversations",
	Long: `With no arguments, list the project directories under the projects root.
With a project token, list that project's conversation summaries.

Project tokens usually begin with a hyphen; put them after "--" so they are
not mistaken for flags:

  claude-session list -- -Users-me-dev-app`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if len(args) == 0 {
			root, err := internal.ProjectsRoot(cfg.ProjectsDir)
			if err != nil {
				return fmt.Errorf("failed to resolve projects root: %w", err)
			}
			tokens, err := internal.ListProjectTokens(root)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			displayProjects(tokens)
			return nil
		}

		dir, err := resolveProjectDir(cfg, args[0])
		if err != nil {
			return err
		}
		sets, err := internal.ParseProjectDir(dir)
		if err != nil {
			return fmt.Errorf("failed to parse transcripts: %w", err)
		}
		displaySummaries(internal.GroupSessions(sets))
		return nil
	},
}

func displayProjects(tokens []string) {
	if len(tokens) == 0 {
		fmt.Println(headerStyle.Render("📋 No projects found"))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("📋 Found %d project(s)", len(tokens))))
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Token")+"\t"+titleStyle.Render("Path")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, token := range tokens {
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", idStyle.Render(token), projectStyle.Render(internal.DecodeProjectToken(token)))
	}
	_ = w.Flush()
}

func displaySummaries(summaries []internal.ConversationSummary) {
	if len(summaries) == 0 {
		fmt.Println(headerStyle.Render("📋 No conversations found"))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("📋 Found %d conversation(s)", len(summaries))))
	fmt.Println()

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Last")+"\t"+titleStyle.Render("Preview")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 120))

	for _, summary := range summaries {
		shortID := summary.SessionID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		preview := summary.Preview
		preview = strings.ReplaceAll(preview, "\n", " ")
		if len(preview) > 50 {
			preview = preview[:47] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID),
			countStyle.Render(strconv.Itoa(summary.MessageCount)),
			formatTimestamp(summary.LastMessageTime),
			preview,
		)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use the full ID (e.g., ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(summaries[0].SessionID) +
		idStyle.Render(") with `claude-session show <project-token> <id>`"))
}

// formatTimestamp renders a time relative to now, shorter for recent dates.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return dateStyle.Render("-")
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return dateStyle.Render(t.Format("Today 15:04"))
	case diff < 7*24*time.Hour:
		return dateStyle.Render(t.Format("Mon 15:04"))
	case diff < 365*24*time.Hour:
		return dateStyle.Render(t.Format("Jan 02 15:04"))
	default:
		return dateStyle.Render(t.Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
