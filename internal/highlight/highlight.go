// Package highlight renders block bodies for the TUI: chroma for the
// code languages, glamour for Markdown, grounded on the teacher's
// glamour.NewTermRenderer(WithAutoStyle, WithWordWrap) construction in
// cmd/nerd/chat.go and cmd/nerd/ui/autopoiesis_page.go.
package highlight

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"

	"cmpr/internal/block"
)

func lexerName(lang block.Language) string {
	switch lang {
	case block.C:
		return "c"
	case block.Python:
		return "python"
	case block.JavaScript:
		return "javascript"
	default:
		return "text"
	}
}

// Code highlights a code-language block's bytes for a 256-color terminal.
// Markdown should go through Markdown instead.
func Code(lang block.Language, src []byte) (string, error) {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, string(src), lexerName(lang), "terminal256", "monokai"); err != nil {
		return "", fmt.Errorf("highlight: %w", err)
	}
	return buf.String(), nil
}

// Renderer wraps a glamour term renderer sized to the current pane width,
// rebuilt whenever the width changes the way the teacher rebuilds its
// renderer on every tea.WindowSizeMsg.
type Renderer struct {
	width int
	tr    *glamour.TermRenderer
}

// NewRenderer builds a Renderer word-wrapped to width.
func NewRenderer(width int) (*Renderer, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}
	return &Renderer{width: width, tr: tr}, nil
}

// Resize rebuilds the underlying renderer if width changed.
func (r *Renderer) Resize(width int) error {
	if width == r.width {
		return nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	r.width, r.tr = width, tr
	return nil
}

// Markdown renders src through glamour.
func (r *Renderer) Markdown(src []byte) (string, error) {
	out, err := r.tr.Render(string(src))
	if err != nil {
		return "", fmt.Errorf("highlight: %w", err)
	}
	return out, nil
}

// Block renders a block's body with the appropriate renderer for its
// language: glamour for Markdown, chroma for everything else.
func (r *Renderer) Block(lang block.Language, body []byte) (string, error) {
	if lang == block.Markdown {
		return r.Markdown(body)
	}
	return Code(lang, body)
}
