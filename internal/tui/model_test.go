package tui

import (
	"testing"

	"cmpr/internal/block"
	"cmpr/internal/cmprdir"
	"cmpr/internal/config"
	"cmpr/internal/edit"
	"cmpr/internal/project"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain guards this package's tests with goleak: the watcher's
// fsnotify pump and bubbletea's internal key-reader are the only
// goroutines this module ever starts outside of a request/response call,
// so this is the one package where a leak is likely to slip in unnoticed.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	p := project.New()
	span := p.Arena.Append([]byte("/* do a thing */\nint main(void) {}\n"))
	p.Files = append(p.Files, project.File{Path: "main.c", Language: block.C, Contents: span})
	require.NoError(t, p.Reparse())

	layout := cmprdir.New(dir)
	require.NoError(t, layout.Ensure())
	pl := edit.New(p, layout)
	cfg := &config.Config{Model: "gpt-4-turbo"}

	m := New(p, pl, cfg, dir+"/conf", nil, nil, nil)
	m.width, m.height = 80, 24
	return m
}

func TestNewStartsInNormalModeWithHelpStatus(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, "? for help", m.status)
}

func TestHandleKeyQuitsOnQ(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHandleKeyNavigatesBlocks(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	nm := next.(Model)
	assert.Equal(t, 0, nm.selected) // only one block; j does not overshoot
}

func TestHandleKeyEntersSearchMode(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	nm := next.(Model)
	assert.Equal(t, ModeSearch, nm.mode)
	assert.Equal(t, "/", nm.searchInput.Value())
}

func TestDispatchExUnknownCommandSetsStatus(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.dispatchEx(":bogus")
	nm := next.(Model)
	assert.Contains(t, nm.status, "unknown command")
}

func TestDispatchExModelEntersMenu(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.dispatchEx(":model")
	nm := next.(Model)
	assert.Equal(t, ModeMenu, nm.mode)
	assert.Equal(t, AvailableModels, nm.menuItems)
}

func TestMenuEnterSavesSelectedModel(t *testing.T) {
	m := newTestModel(t)
	m.mode = ModeMenu
	m.menuItems = AvailableModels
	m.menuIndex = 0

	next, _ := m.handleMenuKey(tea.KeyMsg{Type: tea.KeyEnter})
	nm := next.(Model)
	assert.Equal(t, AvailableModels[0], nm.Config.Model)
	assert.Equal(t, ModeNormal, nm.mode)
}

func TestShowHistoryWithoutIndexSetsStatus(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.showHistory("main.c")
	nm := next.(Model)
	assert.Equal(t, ModeNormal, nm.mode)
	assert.Contains(t, nm.status, "no revision index")
}

func TestViewRendersRulerForCurrentBlock(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "Block 1/1")
	assert.Contains(t, out, "main.c")
}

func TestViewHelpModeListsKeys(t *testing.T) {
	m := newTestModel(t)
	m.mode = ModeHelp
	out := m.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "quit")
}
