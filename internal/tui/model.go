// Package tui implements the modal controller: a bubbletea Model whose
// Update is the total handle_event(byte) -> NewState state machine the
// spec's DESIGN NOTES call for, replacing the original's re-entrant getch
// loops. Grounded on the teacher's cmd/nerd/chat/model.go Model/Update/View
// split (textinput-driven buffers, a spinner for in-flight work, a glamour
// renderer rebuilt on resize) and cmd/nerd/main.go's modal key dispatch.
package tui

import (
	"time"

	"cmpr/internal/config"
	"cmpr/internal/edit"
	"cmpr/internal/highlight"
	"cmpr/internal/llm"
	"cmpr/internal/paginate"
	"cmpr/internal/project"
	"cmpr/internal/revision"
	"cmpr/internal/search"
	"cmpr/internal/watch"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Mode is the controller's modal state, per spec §4.6.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeEx
	ModeMenu
	ModeHelp
	ModeHistory
)

// AvailableModels is the configured set of model identifiers offered in
// Menu mode, per spec §4.5 ("one of a small configured set"). cmpr ships a
// fixed list; a future config key could make it user-editable, but
// nothing in the spec calls for that yet.
var AvailableModels = []string{"gpt-3.5-turbo", "gpt-4-turbo", llm.ModelClipboard}

// Model is the TUI's root bubbletea model.
type Model struct {
	Project      *project.Project
	Pipeline     *edit.Pipeline
	Config       *config.Config
	ConfigPath   string
	Orchestrator *llm.Orchestrator
	Renderer     *highlight.Renderer
	Watcher      *watch.Watcher
	Revisions    *revision.Index
	Log          *zap.Logger

	mode Mode

	selected int
	scrolled int
	width    int
	height   int

	searchInput textinput.Model
	exInput     textinput.Model
	spinner     spinner.Model
	loading     bool

	searchState    search.State
	searchPreview  string
	menuItems      []string
	menuIndex      int
	status         string
	err            error
	bootstrapText  string
	lastSearchHits int
	historyPath    string
	historyEntries []revision.Entry
}

// New builds a Model over an already-loaded project and pipeline.
func New(p *project.Project, pl *edit.Pipeline, cfg *config.Config, configPath string, orch *llm.Orchestrator, renderer *highlight.Renderer, log *zap.Logger) Model {
	si := textinput.New()
	si.Prompt = ""
	ei := textinput.New()
	ei.Prompt = ""
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		Project:      p,
		Pipeline:     pl,
		Config:       cfg,
		ConfigPath:   configPath,
		Orchestrator: orch,
		Renderer:     renderer,
		Log:          log,
		mode:         ModeNormal,
		searchInput:  si,
		exInput:      ei,
		spinner:      sp,
		status:       "? for help",
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.Watcher != nil {
		cmds = append(cmds, watchCmd(m.Watcher))
	}
	return tea.Batch(cmds...)
}

// tea.Msg types for asynchronous work. The core's own operations are
// synchronous spawn-and-wait per §5; wrapping them in tea.Cmd only adapts
// that to bubbletea's event loop shape, it doesn't introduce concurrency
// of its own (each Cmd runs to completion before its Msg is delivered).
type (
	editDoneMsg struct {
		blockIdx int
		result   edit.Result
		err      error
	}
	llmDoneMsg struct {
		blockIdx int
		code     string
		err      error
	}
	clipboardSentMsg struct {
		blockIdx int
		err      error
	}
	buildDoneMsg struct {
		output string
		err    error
	}
	bootstrapDoneMsg struct {
		prompt string
		err    error
	}
	clockTickMsg time.Time
)

func watchCmd(w *watch.Watcher) tea.Cmd {
	next := w.Next()
	return func() tea.Msg {
		v := next()
		if v == nil {
			return nil
		}
		switch msg := v.(type) {
		case watch.ChangedMsg:
			return msg
		case watch.ErrMsg:
			return msg
		}
		return nil
	}
}

func (m *Model) currentBlock() int {
	if m.selected < 0 {
		return 0
	}
	if m.selected >= m.Project.CountBlocks() {
		if m.Project.CountBlocks() == 0 {
			return 0
		}
		return m.Project.CountBlocks() - 1
	}
	return m.selected
}
