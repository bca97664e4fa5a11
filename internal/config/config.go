// Package config reads and writes the project's key-value configuration
// file (default .cmpr/conf) and resolves its required keys, prompting
// interactively for anything missing.
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"cmpr/internal/block"
)

// FileEntry is one `file:` line together with the `language:` group it
// fell under.
type FileEntry struct {
	Path     string
	Language block.Language
}

// Config holds every value the core reads from the config file.
type Config struct {
	CmprDir   string
	BuildCmd  string
	Bootstrap string
	CbCopy    string
	CbPaste   string
	CurlBin   string
	Model     string
	Files     []FileEntry
}

// requiredField describes one of the table-driven required keys: how to
// read it from and write it into a Config. Both the parser's missing-key
// check and the serializer derive their behavior from this single table,
// per spec §4.9.
type requiredField struct {
	Key string
	Get func(*Config) string
	Set func(*Config, string)
}

// RequiredFields is the single source of truth for which config keys are
// required and how they map onto Config.
var RequiredFields = []requiredField{
	{"cmprdir", func(c *Config) string { return c.CmprDir }, func(c *Config, v string) { c.CmprDir = v }},
	{"buildcmd", func(c *Config) string { return c.BuildCmd }, func(c *Config, v string) { c.BuildCmd = v }},
	{"bootstrap", func(c *Config) string { return c.Bootstrap }, func(c *Config, v string) { c.Bootstrap = v }},
	{"cbcopy", func(c *Config) string { return c.CbCopy }, func(c *Config, v string) { c.CbCopy = v }},
	{"cbpaste", func(c *Config) string { return c.CbPaste }, func(c *Config, v string) { c.CbPaste = v }},
	{"curlbin", func(c *Config) string { return c.CurlBin }, func(c *Config, v string) { c.CurlBin = v }},
	{"model", func(c *Config) string { return c.Model }, func(c *Config, v string) { c.Model = v }},
}

// DefaultPath is the config location when --conf is not given.
const DefaultPath = ".cmpr/conf"

// Parse reads the key:value line format described in spec §6. Whitespace
// after the colon is skipped; whitespace at line end is significant.
// Blank lines are permitted before language: groupings. Unknown keys are
// ignored. `language:` applies to every subsequent `file:` line until
// changed; `file:` appends a project file under the current language.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	currentLang := block.C

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected \"key: value\", got %q", lineNo, line)
		}

		switch key {
		case "language":
			currentLang = block.ParseLanguage(value)
		case "file":
			c.Files = append(c.Files, FileEntry{Path: value, Language: currentLang})
		default:
			setRequired(c, key, value) // unknown keys fall through and are ignored
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func setRequired(c *Config, key, value string) {
	for _, f := range RequiredFields {
		if f.Key == key {
			f.Set(c, value)
			return
		}
	}
}

// splitKeyValue splits a "key: value" line, skipping whitespace right
// after the colon but preserving everything after that verbatim
// (including trailing whitespace, which is significant per §6).
func splitKeyValue(line string) (key, value string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	key = line[:i]
	rest := line[i+1:]
	rest = strings.TrimLeft(rest, " \t")
	return key, rest, true
}

// Serialize renders c back into the key:value format, writing every
// required key (even if empty — a round trip through EnsureRequired's
// interactive prompt will have filled them) followed by the language:/file: groups.
func Serialize(c *Config) []byte {
	var buf bytes.Buffer
	for _, f := range RequiredFields {
		fmt.Fprintf(&buf, "%s: %s\n", f.Key, f.Get(c))
	}

	var lastLang block.Language = -1
	for _, fe := range c.Files {
		if fe.Language != lastLang {
			fmt.Fprintf(&buf, "language: %s\n", languageKey(fe.Language))
			lastLang = fe.Language
		}
		fmt.Fprintf(&buf, "file: %s\n", fe.Path)
	}
	return buf.Bytes()
}

func languageKey(l block.Language) string {
	switch l {
	case block.C:
		return "c"
	case block.Python:
		return "python"
	case block.JavaScript:
		return "javascript"
	case block.Markdown:
		return "markdown"
	default:
		return "c"
	}
}

// Load reads and parses the config file at path. A missing file is
// reported as an empty Config rather than an error — the core's caller is
// expected to run EnsureRequired and Save next.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Parse(data)
}

// Save serializes c and writes it to path, creating parent directories as
// needed.
func Save(path string, c *Config) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, Serialize(c), 0o644); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}

// Prompter asks the user (via a single-line edit with backspace, in the
// real TUI) for the value of a missing required key.
type Prompter func(key string) (string, error)

// EnsureRequired fills in any empty required field by calling prompt,
// then saves immediately — per §4.9, a missing value is never fatal, only
// prompted for, and the answer is persisted right away so the prompt
// never repeats for the same key.
func EnsureRequired(path string, c *Config, prompt Prompter) error {
	changed := false
	for _, f := range RequiredFields {
		if f.Get(c) != "" {
			continue
		}
		v, err := prompt(f.Key)
		if err != nil {
			return fmt.Errorf("config: prompting for %q: %w", f.Key, err)
		}
		f.Set(c, v)
		changed = true
	}
	if changed {
		return Save(path, c)
	}
	return nil
}
