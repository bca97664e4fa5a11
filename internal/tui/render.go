package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by View, grounded on the teacher's cmd/nerd/ui.Styles —
// trimmed to the handful this controller actually needs rather than the
// teacher's full light/dark theme system, since this TUI has no theming
// concern of its own.
var (
	rulerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d6dae0"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935"))
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))
	helpKeyStyle = lipgloss.NewStyle().Bold(true)
)

// View renders the current mode, per spec §4.6's modal rendering rules:
// a ruler line naming the selected block, file, and model, then the
// paginated block body, then the status line, or the Search/Ex input line
// in its place. Menu, Help and History modes replace the whole view.
func (m Model) View() string {
	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeMenu:
		return m.renderMenu()
	case ModeHistory:
		return m.renderHistory()
	default:
		return m.renderBlock()
	}
}

func (m Model) ruler() string {
	n := m.Project.CountBlocks()
	idx := m.currentBlock()
	filePath := "-"
	if n > 0 {
		b := m.Project.Blocks[idx]
		filePath = m.Project.Files[b.Span.File].Path
	}
	line := fmt.Sprintf("Block %d/%d  File %s  Model %s  ? for help", idx+1, n, filePath, m.Config.Model)
	return rulerStyle.Render(line)
}

func (m Model) statusLine() string {
	if m.loading {
		return statusStyle.Render(m.spinner.View() + " working...")
	}
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	return statusStyle.Render(m.status)
}

func (m Model) renderBlock() string {
	n := m.Project.CountBlocks()
	if n == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, m.ruler(), "(no blocks)", m.statusLine())
	}
	idx := m.currentBlock()
	b := m.Project.Blocks[idx]
	f := m.Project.Files[b.Span.File]
	body := m.Project.BlockBytes(b)

	var rendered string
	if m.Renderer != nil {
		var err error
		rendered, err = m.Renderer.Block(f.Language, body)
		if err != nil {
			rendered = string(body)
		}
	} else {
		rendered = string(body)
	}

	page := rendered
	if m.width > 0 && m.height > 0 {
		page = m.pageEngine().Page([]byte(rendered), m.scrolled)
	}

	var bottom string
	switch m.mode {
	case ModeSearch:
		bottom = promptStyle.Render(m.searchInput.View()) +
			statusStyle.Render(fmt.Sprintf("  (%d match(es))", m.lastSearchHits))
	case ModeEx:
		bottom = promptStyle.Render(m.exInput.View())
	default:
		bottom = m.statusLine()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.ruler(), page, bottom)
}

func (m Model) renderMenu() string {
	var sb strings.Builder
	sb.WriteString(rulerStyle.Render("Select model") + "\n")
	for i, item := range m.menuItems {
		cursor := "  "
		if i == m.menuIndex {
			cursor = "> "
		}
		sb.WriteString(cursor + item + "\n")
	}
	return sb.String()
}

func (m Model) renderHistory() string {
	var sb strings.Builder
	sb.WriteString(rulerStyle.Render("History: "+m.historyPath) + "\n")
	if len(m.historyEntries) == 0 {
		sb.WriteString("(no recorded edits)\n")
	}
	for _, e := range m.historyEntries {
		sb.WriteString(fmt.Sprintf("%s  %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.RevisionPath))
	}
	sb.WriteString(statusStyle.Render("press any key to return"))
	return sb.String()
}

func (m Model) renderHelp() string {
	lines := []struct{ key, desc string }{
		{"j/k", "move to next/previous block"},
		{"g/G", "jump to first/last block"},
		{"space/b", "page down/up within the block"},
		{"e", "open the block in $EDITOR"},
		{"r", "send the block's comment to the LLM"},
		{"R", "paste clipboard as the block's code"},
		{"B", "run the configured build command"},
		{"/", "search"},
		{"n/N", "repeat search forward/backward"},
		{":", "ex command (model, bootstrap, addfile, history, help)"},
		{"q", "quit"},
	}
	var sb strings.Builder
	sb.WriteString(rulerStyle.Render("Help") + "\n")
	for _, l := range lines {
		sb.WriteString(helpKeyStyle.Render(fmt.Sprintf("%-10s", l.key)) + l.desc + "\n")
	}
	sb.WriteString(statusStyle.Render("press any key to return"))
	return sb.String()
}
