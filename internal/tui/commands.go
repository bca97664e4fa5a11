package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"cmpr/internal/block"
	"cmpr/internal/config"
	"cmpr/internal/project"

	"github.com/bmatcuk/doublestar/v4"
	tea "github.com/charmbracelet/bubbletea"
)

func bootstrapCmd(bootstrapCmdLine, cbCopy string) tea.Cmd {
	return func() tea.Msg {
		prompt, err := config.RunBootstrap(bootstrapCmdLine, cbCopy)
		return bootstrapDoneMsg{prompt: prompt, err: err}
	}
}

// languageForExt infers a block.Language from a file extension, the
// inverse of block.Language.Ext, for files added at runtime via
// :addfile rather than listed up front under an explicit language: group.
func languageForExt(path string) block.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return block.Python
	case ".js":
		return block.JavaScript
	case ".md":
		return block.Markdown
	default:
		return block.C
	}
}

// showHistory implements ":history <path>", switching to ModeHistory to
// list every recorded edit to path, oldest first.
func (m Model) showHistory(path string) (tea.Model, tea.Cmd) {
	if m.Revisions == nil {
		m.status = "no revision index configured"
		return m, nil
	}
	entries, err := m.Revisions.History(path)
	if err != nil {
		return m.reportError(err)
	}
	m.historyPath = path
	m.historyEntries = entries
	m.mode = ModeHistory
	return m, nil
}

// addFiles implements ":addfile <path-or-glob>": doublestar-expands
// pattern, appends every match to the project (extending the arena with
// Append, which never needs ShiftFilesAfter since new files only ever
// land at the tail) and to the config's file: list, then saves the config
// and reparses.
func (m Model) addFiles(pattern string) (tea.Model, tea.Cmd) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return m.reportError(fmt.Errorf("addfile: %w", err))
	}
	if len(matches) == 0 {
		matches = []string{pattern}
	}

	added := 0
	for _, path := range matches {
		data, err := readTempFile(path)
		if err != nil {
			return m.reportError(err)
		}
		lang := languageForExt(path)
		span := m.Project.Arena.Append(data)
		m.Project.Files = append(m.Project.Files, project.File{Path: path, Language: lang, Contents: span})
		m.Config.Files = append(m.Config.Files, config.FileEntry{Path: path, Language: lang})
		added++
	}

	if err := m.Project.Reparse(); err != nil {
		return m.reportError(err)
	}
	if err := config.Save(m.ConfigPath, m.Config); err != nil {
		return m.reportError(err)
	}

	m.status = fmt.Sprintf("added %d file(s) matching %q", added, pattern)
	return m, nil
}
