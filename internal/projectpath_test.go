package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodeProjectPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"simple absolute path", "/Users/me/dev/app", "-Users-me-dev-app"},
		{"path with dots", "/home/me/my.project", "-home-me-my-project"},
		{"path with spaces", "/home/me/my project", "-home-me-my-project"},
		{"path with underscore", "/home/me/my_project", "-home-me-my-project"},
		{"windows drive path", `C:\dev\app`, "C--dev-app"},
		{"empty path", "", ""},
		{"unicode path", "/home/me/プロジェクト", "-home-me-------"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeProjectPath(tt.path)
			if got != tt.want {
				t.Errorf("EncodeProjectPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestEncodeProducesValidTokens(t *testing.T) {
	paths := []string{
		"/Users/me/dev/app",
		"/home/me/my.project (copy)",
		`C:\dev\app`,
		"/tmp/a b c/d",
		// Deeply nested checkouts produce paths far beyond 256 bytes.
		"/home/me/work" + strings.Repeat("/nested-component-dir", 16) + "/app",
	}
	for _, p := range paths {
		token := EncodeProjectPath(p)
		if !ValidateProjectToken(token) {
			t.Errorf("EncodeProjectPath(%q) = %q, which fails validation", p, token)
		}
	}
}

func TestDecodeProjectToken(t *testing.T) {
	got := DecodeProjectToken("-Users-me-dev-app")
	want := "/Users/me/dev/app"
	if got != want {
		t.Errorf("DecodeProjectToken() = %q, want %q", got, want)
	}
}

func TestValidateProjectToken(t *testing.T) {
	long := make([]byte, maxProjectTokenLen+1)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid token", "-Users-me-dev-app", true},
		{"valid with underscore", "my_project", true},
		{"valid alphanumeric", "project123", true},
		{"empty", "", false},
		{"traversal", "..", false},
		{"embedded traversal", "a..b", false},
		{"forward slash", "a/b", false},
		{"backslash", `a\b`, false},
		{"dot", "a.b", false},
		{"space", "a b", false},
		{"too long", string(long), false},
		{"exactly max length", string(long[:maxProjectTokenLen]), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateProjectToken(tt.token)
			if got != tt.want {
				t.Errorf("ValidateProjectToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestProjectsRootOverride(t *testing.T) {
	got, err := ProjectsRoot("/custom/projects")
	if err != nil {
		t.Fatalf("ProjectsRoot() error = %v", err)
	}
	if got != "/custom/projects" {
		t.Errorf("ProjectsRoot() = %q, want /custom/projects", got)
	}
}

func TestProjectsRootDefault(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	got, err := ProjectsRoot("")
	if err != nil {
		t.Fatalf("ProjectsRoot() error = %v", err)
	}
	want := filepath.Join(home, ".claude", "projects")
	if got != want {
		t.Errorf("ProjectsRoot() = %q, want %q", got, want)
	}
}

func TestResolveProjectDir(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "-Users-me-app"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notadir"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("existing project", func(t *testing.T) {
		dir, err := ResolveProjectDir(root, "-Users-me-app")
		if err != nil {
			t.Fatalf("ResolveProjectDir() error = %v", err)
		}
		if dir != filepath.Join(root, "-Users-me-app") {
			t.Errorf("ResolveProjectDir() = %q", dir)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := ResolveProjectDir(root, "../etc")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := ResolveProjectDir(root, "nope")
		var nferr *NotFoundError
		if !errors.As(err, &nferr) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		_, err := ResolveProjectDir(root, "notadir")
		var nferr *NotFoundError
		if !errors.As(err, &nferr) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestListProjectTokens(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"-home-a", "-home-b"} {
		if err := os.Mkdir(filepath.Join(root, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tokens, err := ListProjectTokens(root)
	if err != nil {
		t.Fatalf("ListProjectTokens() error = %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("ListProjectTokens() returned %d tokens, want 2", len(tokens))
	}
	if tokens[0] != "-home-a" || tokens[1] != "-home-b" {
		t.Errorf("ListProjectTokens() = %v", tokens)
	}
}

func TestListProjectTokensMissingRoot(t *testing.T) {
	tokens, err := ListProjectTokens(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("ListProjectTokens() error = %v", err)
	}
	if tokens != nil {
		t.Errorf("ListProjectTokens() = %v, want nil", tokens)
	}
}
