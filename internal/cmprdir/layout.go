// Package cmprdir knows the on-disk layout of a project's <cmprdir>
// (default .cmpr under the working directory): revs/, tmp/, api_calls/,
// and the openai-key file, per spec §6.
package cmprdir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Layout resolves every path under one cmprdir root.
type Layout struct {
	Root string
}

// New returns a Layout rooted at root.
func New(root string) Layout { return Layout{Root: root} }

// Ensure creates root and its revs/, tmp/, and api_calls/ subdirectories.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Root, l.RevsDir(), l.TmpDir(), l.APICallsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%s: %w", dir, err)
		}
	}
	return nil
}

func (l Layout) RevsDir() string      { return filepath.Join(l.Root, "revs") }
func (l Layout) TmpDir() string       { return filepath.Join(l.Root, "tmp") }
func (l Layout) APICallsDir() string  { return filepath.Join(l.Root, "api_calls") }
func (l Layout) OpenAIKeyFile() string { return filepath.Join(l.Root, "openai-key") }

// Timestamp formats t the way every on-disk artifact name expects:
// YYYYMMDD-HHMMSS.
func Timestamp(t time.Time) string { return t.Format("20060102-150405") }

// RevisionPath returns the path a revision snapshot taken at t would be
// written to.
func (l Layout) RevisionPath(t time.Time) string {
	return filepath.Join(l.RevsDir(), Timestamp(t))
}

// TmpPath returns the path an editor temp file for the given extension
// (".c", ".py", ".js", ".md") taken at t would be written to.
func (l Layout) TmpPath(t time.Time, ext string) string {
	return filepath.Join(l.TmpDir(), Timestamp(t)+ext)
}

// APICallPaths returns the request/response/error artifact paths for one
// LLM call taken at t.
func (l Layout) APICallPaths(t time.Time) (req, resp, errFile string) {
	base := filepath.Join(l.APICallsDir(), Timestamp(t))
	return base + "-req", base + "-resp", base + "-err"
}

// ReadKey reads the API key file, requiring it to be an owner-only
// readable regular file per §6. A missing file is reported as an empty
// key (the orchestrator treats that as "no API key configured", not an
// error), but a file with overly permissive mode bits is rejected outright
// since leaking the key is a security failure, not a usability one.
func (l Layout) ReadKey() (string, error) {
	path := l.OpenAIKeyFile()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: not a regular file", path)
	}
	if info.Mode().Perm()&0o077 != 0 {
		return "", fmt.Errorf("%s: must be owner-only readable (mode %04o too permissive)", path, info.Mode().Perm())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return trimTrailingNewline(string(data)), nil
}

func trimTrailingNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
