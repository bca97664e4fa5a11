package tui

import (
	"errors"
	"fmt"

	"cmpr/internal/block"
	"cmpr/internal/clipboard"
	"cmpr/internal/cmprerr"
	"cmpr/internal/edit"
	"cmpr/internal/editorcmd"
	"cmpr/internal/llm"
	"cmpr/internal/watch"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.searchInput.Width = msg.Width - 4
		m.exInput.Width = msg.Width - 4
		if m.Renderer != nil {
			_ = m.Renderer.Resize(msg.Width)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case editDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m.reportError(msg.err)
		}
		m.status = fmt.Sprintf("edited block %d", msg.blockIdx+1)
		return m, nil

	case llmDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m.handleLLMError(msg.err)
		}
		res, err := m.Pipeline.ReplaceCode(msg.blockIdx, []byte(msg.code))
		if err != nil {
			return m.reportError(err)
		}
		m.status = fmt.Sprintf("rewrote block %d from LLM (file %d)", msg.blockIdx+1, res.FileIndex+1)
		return m, nil

	case clipboardSentMsg:
		m.loading = false
		if msg.err != nil {
			return m.reportError(msg.err)
		}
		m.status = fmt.Sprintf("copied block %d's comment to clipboard", msg.blockIdx+1)
		return m, nil

	case buildDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "build failed, press any key: " + msg.output
			return m, nil
		}
		m.status = "build ok"
		return m, nil

	case bootstrapDoneMsg:
		m.loading = false
		if msg.err != nil {
			return m.reportError(msg.err)
		}
		m.bootstrapText = msg.prompt
		m.status = "bootstrap refreshed"
		return m, nil

	case watch.ChangedMsg:
		for i, f := range m.Project.Files {
			if f.Path != msg.Path {
				continue
			}
			data, err := readTempFile(f.Path)
			if err != nil {
				m.status = "reload failed: " + err.Error()
				return m, watchCmd(m.Watcher)
			}
			delta := m.Project.Arena.Splice(f.Contents, data)
			m.Project.ShiftFilesAfter(i, delta)
		}
		if err := m.Project.Reparse(); err != nil {
			return m.reportError(err)
		}
		m.status = "reloaded " + msg.Path
		return m, watchCmd(m.Watcher)

	case watch.ErrMsg:
		m.status = "watch error: " + msg.Err.Error()
		return m, watchCmd(m.Watcher)
	}
	return m, nil
}

// reportError implements §7's "report and terminate" path for fatal
// errors, and "report, require a keystroke, return to main loop" for
// everything else. Whether to quit is decided once, here, rather than
// scattered across every call site that can produce a fatal error.
func (m Model) reportError(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.status = err.Error()
	if cmprerr.IsFatal(err) {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleLLMError(err error) (tea.Model, tea.Cmd) {
	m.loading = false
	if errors.Is(err, llm.ErrNoAPIKey) {
		m.status = "no API key configured"
		return m, nil
	}
	if cmprerr.IsFatal(err) {
		return m.reportError(err)
	}
	// LLM transport failure: report and wait for a keystroke, per §7 —
	// never fatal, unlike the parse-failure path that Dispatch already
	// wraps as cmprerr.Fatal.
	m.status = "LLM request failed: " + err.Error()
	m.err = err
	return m, nil
}

// doEditCmd runs the external editor on the current block's full body
// (comment + code) and feeds the result through ReplaceWhole, per §4.4's
// editor-pipeline variant. The editor is launched via tea.ExecProcess so
// bubbletea releases the terminal's raw mode for the duration instead of
// fighting the child process for stdin/stdout.
func doEditCmd(m Model) tea.Cmd {
	idx := m.currentBlock()
	b := m.Project.Blocks[idx]
	f := m.Project.Files[b.Span.File]
	ext := f.Language.Ext()
	tmpPath := m.Pipeline.Layout.TmpPath(m.Pipeline.Now(), ext)
	body := append([]byte(nil), m.Project.BlockBytes(b)...)
	pipeline := m.Pipeline

	if err := writeTempFile(tmpPath, body); err != nil {
		return func() tea.Msg { return editDoneMsg{blockIdx: idx, err: err} }
	}

	cmd := editorcmd.EditCmd(tmpPath)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			_ = edit.RemoveTemp(tmpPath)
			return editDoneMsg{blockIdx: idx, err: err}
		}
		newBody, readErr := readTempFile(tmpPath)
		if readErr != nil {
			return editDoneMsg{blockIdx: idx, err: readErr}
		}
		res, applyErr := pipeline.ReplaceWhole(idx, newBody)
		_ = edit.RemoveTemp(tmpPath)
		if applyErr != nil {
			return editDoneMsg{blockIdx: idx, err: applyErr}
		}
		return editDoneMsg{blockIdx: idx, result: res}
	})
}

// doLLMCmd assembles the chat messages for the current block's comment
// and dispatches them via the orchestrator, per §4.5.
func doLLMCmd(m Model) tea.Cmd {
	idx := m.currentBlock()
	b := m.Project.Blocks[idx]
	f := m.Project.Files[b.Span.File]
	body := append([]byte(nil), m.Project.BlockBytes(b)...)
	lang := f.Language
	bootstrapText := m.bootstrapText
	orch := m.Orchestrator
	proj := m.Project

	return func() tea.Msg {
		comment, _ := block.CommentAndCode(lang, body)
		prompt := llm.CommentToPrompt(lang, string(comment))
		systemText, hasSystem := llm.FindSystemPrompt(proj)
		messages := llm.BuildMessages(systemText, hasSystem, bootstrapText, prompt)

		code, err := orch.Dispatch(messages)
		return llmDoneMsg{blockIdx: idx, code: code, err: err}
	}
}

// doClipboardSendCmd implements §4.5's clipboard bridge: when the
// configured model is llm.ModelClipboard, "r" copies the block's
// assembled prompt to the clipboard instead of dispatching an HTTP call;
// the user pastes the external model's reply back in with "R".
func doClipboardSendCmd(m Model) tea.Cmd {
	idx := m.currentBlock()
	b := m.Project.Blocks[idx]
	f := m.Project.Files[b.Span.File]
	body := append([]byte(nil), m.Project.BlockBytes(b)...)
	lang := f.Language
	cbCopy := m.Config.CbCopy

	return func() tea.Msg {
		comment, _ := block.CommentAndCode(lang, body)
		prompt := llm.CommentToPrompt(lang, string(comment))
		err := clipboard.Copy(cbCopy, prompt)
		return clipboardSentMsg{blockIdx: idx, err: err}
	}
}

func doBuildCmd(buildCmd string) tea.Cmd {
	return func() tea.Msg {
		out, err := editorcmd.Build(buildCmd)
		return buildDoneMsg{output: out, err: err}
	}
}
