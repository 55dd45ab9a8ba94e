package internal

import (
	"os"
	"path/filepath"
	"strings"
)

// maxProjectTokenLen caps token length. Encoding is byte for byte, so any
// path that fits in a Linux PATH_MAX-sized buffer encodes to a valid token;
// anything longer is garbage input.
const maxProjectTokenLen = 4096

// EncodeProjectPath converts an absolute filesystem path into the directory
// name Claude Code uses under ~/.claude/projects. Every byte outside
// [A-Za-z0-9] becomes a hyphen, so "/Users/me/dev/app" -> "-Users-me-dev-app".
// The mapping is deterministic and always produces a valid project token.
func EncodeProjectPath(absPath string) string {
	var b strings.Builder
	b.Grow(len(absPath))
	for _, r := range absPath {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// DecodeProjectToken reverses EncodeProjectPath on a best-effort basis for
// display purposes: hyphens become path separators. The encoding is lossy
// (a hyphen in the original path is indistinguishable from a separator), so
// the result is only a display hint, never a path to open.
func DecodeProjectToken(token string) string {
	return strings.ReplaceAll(token, "-", "/")
}

// ValidateProjectToken reports whether a caller-supplied token is safe to use
// as a directory name. Purely syntactic: charset, length, and traversal
// checks. It never touches the filesystem and never returns an error.
func ValidateProjectToken(token string) bool {
	if token == "" || len(token) > maxProjectTokenLen {
		return false
	}
	if strings.Contains(token, "..") {
		return false
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			// Covers '/', '\\', and anything else path-like.
			return false
		}
	}
	return true
}

// ProjectsRoot returns the directory holding per-project transcript
// directories, honoring an override (from config or --projects). An empty
// override resolves to ~/.claude/projects.
func ProjectsRoot(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &EnvironmentError{Op: "resolve home directory", Err: err}
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// ResolveProjectDir validates a project token and resolves it to a transcript
// directory under the projects root. A syntactically bad token yields a
// ValidationError; a missing or non-directory path yields a NotFoundError.
func ResolveProjectDir(root, token string) (string, error) {
	if !ValidateProjectToken(token) {
		return "", &ValidationError{Field: "project token", Value: token}
	}
	dir := filepath.Join(root, token)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Resource: "project", Key: token}
		}
		return "", &StorageError{Path: dir, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return "", &NotFoundError{Resource: "project", Key: token}
	}
	return dir, nil
}

// ListProjectTokens returns the names of project directories under root,
// sorted by os.ReadDir's lexical order. A missing root is not an error; the
// user may simply never have run the assistant.
func ListProjectTokens(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Path: root, Op: "read", Err: err}
	}
	var tokens []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tokens = append(tokens, entry.Name())
	}
	return tokens, nil
}
