package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportAllConversations(t *testing.T) {
	root := t.TempDir()
	seedProjectDir(t, root, "-home-me-app")
	out := filepath.Join(t.TempDir(), "exports")

	_, err := runCommand(t, "export", "--projects", root, "-o", out, "-f", "jsonl", "--", "-home-me-app")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "sess-1.jsonl"))
	if err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	if lines := strings.Count(strings.TrimRight(string(data), "\n"), "\n") + 1; lines != 2 {
		t.Errorf("exported %d lines, want 2", lines)
	}
}

func TestExportSingleSessionMarkdown(t *testing.T) {
	root := t.TempDir()
	seedProjectDir(t, root, "-home-me-app")
	out := filepath.Join(t.TempDir(), "exports")

	_, err := runCommand(t, "export", "--projects", root, "-o", out, "-f", "md", "--session-id", "sess-1", "--", "-home-me-app")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "sess-1.md"))
	if err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	if !strings.Contains(string(data), "# Session sess-1") {
		t.Errorf("markdown export lacks header:\n%s", data)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	root := t.TempDir()
	seedProjectDir(t, root, "-home-me-app")

	_, err := runCommand(t, "export", "--projects", root, "-f", "csv", "--", "-home-me-app")
	if err == nil {
		t.Fatal("export with unsupported format succeeded, want error")
	}
}
