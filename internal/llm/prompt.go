// Package llm implements the LLM request orchestrator: comment-to-prompt
// construction, chat message assembly, dispatch via an external HTTP
// client process, and response extraction.
package llm

import (
	"strings"

	"cmpr/internal/arena"
	"cmpr/internal/block"
	"cmpr/internal/project"
)

const writeCodeInstruction = "Write the code. Reply only with code. Do not include comments."

// CommentToPrompt renders a block's comment text into the prompt sent to
// the LLM. C/Python/JavaScript comments are wrapped in a fenced code
// block followed by a terse instruction; Markdown is emitted verbatim, as
// spec.md §4.5 describes.
//
// lang must be the language of the file the comment's block actually
// belongs to (derived via project.FileOf), never a shared "current
// language" variable — see DESIGN.md's resolution of the
// comment-to-prompt open question in §9.
func CommentToPrompt(lang block.Language, comment string) string {
	if lang == block.Markdown {
		return comment
	}
	buf := arena.NewBuf(len(comment) + 32)
	buf.AppendString("```\n")
	buf.AppendString(comment)
	if !strings.HasSuffix(comment, "\n") {
		buf.AppendString("\n")
	}
	buf.AppendString("```\n\n")
	buf.AppendString(writeCodeInstruction)
	return buf.String()
}

// SystemPromptMarker is the literal substring that, if present anywhere in
// a block's text, marks that block as the chat system message.
const SystemPromptMarker = "#systemprompt"

// FindSystemPrompt scans the project's blocks for one containing
// SystemPromptMarker and returns its text. Only the first such block is
// used (lowest index), matching FindBlock's "lowest index" convention
// elsewhere in the core.
func FindSystemPrompt(p *project.Project) (text string, ok bool) {
	idx := p.FindBlock(SystemPromptMarker)
	if idx < 0 {
		return "", false
	}
	return string(p.BlockBytes(p.Blocks[idx])), true
}
