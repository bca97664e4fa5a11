package tui

import (
	"strconv"
	"strings"

	"cmpr/internal/clipboard"
	"cmpr/internal/config"
	"cmpr/internal/llm"
	"cmpr/internal/paginate"
	"cmpr/internal/project"
	"cmpr/internal/search"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeEx:
		return m.handleExKey(msg)
	case ModeMenu:
		return m.handleMenuKey(msg)
	case ModeHelp, ModeHistory:
		m.mode = ModeNormal
		return m, nil
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) pageEngine() paginate.Engine {
	return paginate.Engine{Cols: m.width, Rows: m.height}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j":
		if m.selected < m.Project.CountBlocks()-1 {
			m.selected++
		}
		m.scrolled = 0
		return m, nil
	case "k":
		if m.selected > 0 {
			m.selected--
		}
		m.scrolled = 0
		return m, nil
	case "g":
		m.selected = 0
		m.scrolled = 0
		return m, nil
	case "G":
		if n := m.Project.CountBlocks(); n > 0 {
			m.selected = n - 1
		}
		m.scrolled = 0
		return m, nil
	case " ":
		m.scrolled = m.pageEngine().PageDown(m.scrolled)
		return m, nil
	case "b":
		m.scrolled = m.pageEngine().PageUp(m.scrolled)
		return m, nil
	case "e":
		m.loading = true
		return m, doEditCmd(m)
	case "r":
		m.loading = true
		if m.Config.Model == llm.ModelClipboard {
			return m, doClipboardSendCmd(m)
		}
		return m, doLLMCmd(m)
	case "R":
		return m.pasteClipboardAsCode()
	case "B":
		m.loading = true
		return m, doBuildCmd(m.Config.BuildCmd)
	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue("/")
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, nil
	case ":":
		m.mode = ModeEx
		m.exInput.SetValue(":")
		m.exInput.CursorEnd()
		m.exInput.Focus()
		return m, nil
	case "n":
		return m.repeatSearch(search.Forward)
	case "N":
		return m.repeatSearch(search.Backward)
	case "?":
		m.mode = ModeHelp
		return m, nil
	}
	return m, nil
}

func (m Model) pasteClipboardAsCode() (tea.Model, tea.Cmd) {
	text, err := clipboard.Paste(m.Config.CbPaste)
	if err != nil {
		return m.reportError(err)
	}
	idx := m.currentBlock()
	res, err := m.Pipeline.ReplaceCode(idx, []byte(text))
	if err != nil {
		return m.reportError(err)
	}
	m.status = "pasted clipboard as code for block " + strconv.Itoa(idx+1) + " (file " + strconv.Itoa(res.FileIndex+1) + ")"
	return m, nil
}

// repeatSearch implements "n"/"N": direction is search.Forward or
// search.Backward.
func (m Model) repeatSearch(direction func(p *project.Project, previous string, current int) int) (tea.Model, tea.Cmd) {
	if m.searchState.Previous == "" {
		return m, nil
	}
	next := direction(m.Project, m.searchState.Previous, m.selected)
	if next < 0 {
		m.status = "no further matches for " + m.searchState.Previous
		return m, nil
	}
	m.selected = next
	m.scrolled = 0
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		pattern := m.searchInput.Value()
		idx := m.searchState.Finalize(m.Project, pattern)
		if idx >= 0 {
			m.selected = idx
			m.scrolled = 0
		}
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	case tea.KeyBackspace:
		v := m.searchInput.Value()
		if len(v) <= 1 {
			// deleting the leading '/' aborts back to Normal
			m.mode = ModeNormal
			m.searchInput.Blur()
			return m, nil
		}
		m.searchInput.SetValue(v[:len(v)-1])
		m.searchInput.CursorEnd()
		return m.refreshSearchPreview()
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		if !strings.HasPrefix(m.searchInput.Value(), "/") {
			m.mode = ModeNormal
			m.searchInput.Blur()
			return m, nil
		}
		next, prevCmd := m.refreshSearchPreview()
		return next, tea.Batch(cmd, prevCmd)
	}
}

func (m Model) refreshSearchPreview() (tea.Model, tea.Cmd) {
	pattern := strings.TrimPrefix(m.searchInput.Value(), "/")
	res := search.Perform(m.Project, pattern)
	m.lastSearchHits = res.MatchCount
	m.searchPreview = pattern
	return m, nil
}

func (m Model) handleExKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		cmdline := m.exInput.Value()
		m.mode = ModeNormal
		m.exInput.Blur()
		return m.dispatchEx(cmdline)
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.exInput.Blur()
		return m, nil
	case tea.KeyBackspace:
		v := m.exInput.Value()
		if len(v) <= 1 {
			m.mode = ModeNormal
			m.exInput.Blur()
			return m, nil
		}
		m.exInput.SetValue(v[:len(v)-1])
		m.exInput.CursorEnd()
		return m, nil
	default:
		var cmd tea.Cmd
		m.exInput, cmd = m.exInput.Update(msg)
		if !strings.HasPrefix(m.exInput.Value(), ":") {
			m.mode = ModeNormal
			m.exInput.Blur()
		}
		return m, cmd
	}
}

// dispatchEx routes a completed ex-command line by prefix, per §4.6.
func (m Model) dispatchEx(line string) (tea.Model, tea.Cmd) {
	body := strings.TrimPrefix(line, ":")
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return m, nil
	}
	switch fields[0] {
	case "model":
		m.mode = ModeMenu
		m.menuItems = AvailableModels
		m.menuIndex = indexOf(AvailableModels, m.Config.Model)
		return m, nil
	case "bootstrap":
		m.loading = true
		return m, bootstrapCmd(m.Config.Bootstrap, m.Config.CbCopy)
	case "addfile":
		if len(fields) < 2 {
			m.status = "usage: :addfile <path-or-glob>"
			return m, nil
		}
		return m.addFiles(fields[1])
	case "addlib":
		m.status = "addlib is not implemented by this build"
		return m, nil
	case "history":
		if len(fields) < 2 {
			m.status = "usage: :history <path>"
			return m, nil
		}
		return m.showHistory(fields[1])
	case "help":
		m.mode = ModeHelp
		return m, nil
	default:
		m.status = "unknown command: " + fields[0]
		return m, nil
	}
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
		return m, nil
	case "down", "j":
		if m.menuIndex < len(m.menuItems)-1 {
			m.menuIndex++
		}
		return m, nil
	case "enter":
		if m.menuIndex >= 0 && m.menuIndex < len(m.menuItems) {
			m.Config.Model = m.menuItems[m.menuIndex]
			if m.Orchestrator != nil {
				m.Orchestrator.Model = m.Config.Model
			}
			_ = config.Save(m.ConfigPath, m.Config)
			m.status = "model set to " + m.Config.Model
		}
		m.mode = ModeNormal
		return m, nil
	case "esc":
		m.mode = ModeNormal
		return m, nil
	}
	return m, nil
}

func indexOf(items []string, v string) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return 0
}

