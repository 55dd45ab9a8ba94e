package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/claude-session/testutil"
)

func seedProjectDir(t *testing.T, root, token string) {
	t.Helper()
	dir := filepath.Join(root, token)
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	testutil.WriteTranscript(t, dir, "log.jsonl", []testutil.TranscriptLine{
		{SessionID: "sess-1", Type: "user", UUID: "u1", Timestamp: base, Text: "hello"},
		{SessionID: "sess-1", Type: "assistant", UUID: "u2", Timestamp: base.Add(time.Minute), Text: "hi"},
	})
}

func TestListProjects(t *testing.T) {
	root := t.TempDir()
	seedProjectDir(t, root, "-home-me-app")

	if _, err := runCommand(t, "list", "--projects", root); err != nil {
		t.Fatalf("list error = %v", err)
	}
}

func TestListConversations(t *testing.T) {
	root := t.TempDir()
	seedProjectDir(t, root, "-home-me-app")

	if _, err := runCommand(t, "list", "--projects", root, "--", "-home-me-app"); err != nil {
		t.Fatalf("list error = %v", err)
	}
}

func TestListUnknownProject(t *testing.T) {
	root := t.TempDir()
	if _, err := runCommand(t, "list", "--projects", root, "--", "-home-nope"); err == nil {
		t.Fatal("list of missing project succeeded, want error")
	}
}

func TestListInvalidToken(t *testing.T) {
	root := t.TempDir()
	if _, err := runCommand(t, "list", "../etc", "--projects", root); err == nil {
		t.Fatal("list with invalid token succeeded, want error")
	}
}
