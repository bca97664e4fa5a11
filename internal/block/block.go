// Package block implements the per-language block parser and the block
// model's core invariant: blocks exactly tile a file's bytes.
package block

import (
	"fmt"

	"cmpr/internal/arena"
)

// Language is the closed set of languages the core understands. Parsers
// and comment-to-prompt formatters dispatch on Language as a tagged enum,
// not as an open interface hierarchy (see DESIGN NOTES, "sum types vs.
// dispatch").
type Language int

const (
	C Language = iota
	Python
	JavaScript
	Markdown
)

// String renders the language's display name, used in the TUI ruler and
// in error messages.
func (l Language) String() string {
	switch l {
	case C:
		return "C"
	case Python:
		return "Python"
	case JavaScript:
		return "JavaScript"
	case Markdown:
		return "Markdown"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// Ext returns the file extension used for editor temp files of this
// language, per §6's <cmprdir>/tmp/<timestamp>.<ext> layout.
func (l Language) Ext() string {
	switch l {
	case C:
		return ".c"
	case Python:
		return ".py"
	case JavaScript:
		return ".js"
	case Markdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ParseLanguage maps a config "language:" value to a Language tag. Unknown
// values default to C, matching the permissive "unknown keys are ignored"
// posture of the config format — an unrecognized language name does not
// abort config loading.
func ParseLanguage(s string) Language {
	switch s {
	case "c":
		return C
	case "python", "py":
		return Python
	case "javascript", "js":
		return JavaScript
	case "markdown", "md":
		return Markdown
	default:
		return C
	}
}

// Block is a span into exactly one file's contents. It is derived, never
// stored independently of the arena it references — regenerating the
// block list after every edit is cheap enough that no block is ever kept
// around past the edit that invalidates it.
type Block struct {
	Span Span
}

// Span is a project-relative location: an offset pair plus the owning
// file's index, so that file_of can be an O(1) field read instead of a
// search, while remaining consistent with the pointer-interval
// containment the source relies on (Start and End lie within File's
// contents at all times, enforced by the sanity check in Parse).
type Span struct {
	File  int
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// ToArena converts a block-relative Span into an arena.Span given the
// owning file's contents span.
func (s Span) ToArena(fileContents arena.Span) arena.Span {
	return arena.Span{Start: fileContents.Start + s.Start, End: fileContents.Start + s.End}
}

// Parse tiles a single file's contents into blocks, satisfying I1 (every
// non-empty file's blocks concatenate exactly to its contents; no block is
// empty; adjacent blocks share an endpoint) and I2 (an empty file has
// exactly one empty block). fileIndex is stamped into every returned
// block's Span so file_of is a field read.
//
// Two passes over contents: count block starts, then fill. This mirrors
// codedom's extractCodeElements scan but tiles into blocks (line starts
// that are *markers*) rather than collecting regex matches.
func Parse(lang Language, fileIndex int, contents []byte) ([]Block, error) {
	if len(contents) == 0 {
		return []Block{{Span{File: fileIndex, Start: 0, End: 0}}}, nil
	}

	starts := findStarts(lang, contents)
	if len(starts) == 0 || starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}

	blocks := make([]Block, 0, len(starts))
	for i, start := range starts {
		end := len(contents)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		blocks = append(blocks, Block{Span{File: fileIndex, Start: start, End: end}})
	}

	if err := sanityCheck(contents, blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// findStarts returns, in increasing order, the byte offsets of every line
// that begins a new block for lang. Offset 0 is included only when line 0
// itself carries the marker; otherwise Parse prepends it, for every
// language, so the "no leading marker ⇒ synthetic first block" rule in
// spec.md §4.2 only needs to be expressed once.
func findStarts(lang Language, contents []byte) []int {
	switch lang {
	case C, JavaScript:
		return findLinesWithPrefix(contents, []byte("/*"))
	case Python:
		return findPythonStarts(contents)
	case Markdown:
		return findLinesWithPrefix(contents, []byte("#"))
	default:
		return nil
	}
}

// findLinesWithPrefix returns the start offsets of every line (column 0)
// that begins with prefix.
func findLinesWithPrefix(contents, prefix []byte) []int {
	var starts []int
	lineStart := 0
	for lineStart < len(contents) {
		nl := indexByteFrom(contents, '\n', lineStart)
		lineEnd := nl
		if lineEnd < 0 {
			lineEnd = len(contents)
		}
		if hasPrefixAt(contents, lineStart, lineEnd, prefix) {
			starts = append(starts, lineStart)
		}
		if nl < 0 {
			break
		}
		lineStart = nl + 1
	}
	return starts
}

// findPythonStarts returns the start offsets of every odd-numbered line
// (1st, 3rd, 5th, ...) beginning with `"""`, since each Python block
// contains two such lines (opening and closing delimiter) and only the
// opening one starts a block.
func findPythonStarts(contents []byte) []int {
	all := findLinesWithPrefix(contents, []byte(`"""`))
	var starts []int
	for i, off := range all {
		if i%2 == 0 {
			starts = append(starts, off)
		}
	}
	return starts
}

func indexByteFrom(b []byte, c byte, from int) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

func hasPrefixAt(b []byte, start, end int, prefix []byte) bool {
	if end-start < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if b[start+i] != p {
			return false
		}
	}
	return true
}

// sanityCheck enforces I1/I2: the blocks must be ordered, non-overlapping,
// contiguous, start at 0, and end at len(contents). A violation here
// indicates a parser bug, not bad input, and is reported loudly per §7.
func sanityCheck(contents []byte, blocks []Block) error {
	if len(contents) == 0 {
		if len(blocks) != 1 || !blocks[0].Span.Empty() {
			return fmt.Errorf("block: empty file must tile to exactly one empty block, got %d blocks", len(blocks))
		}
		return nil
	}
	if len(blocks) == 0 {
		return fmt.Errorf("block: non-empty file tiled to zero blocks")
	}
	if blocks[0].Span.Start != 0 {
		return fmt.Errorf("block: first block must start at file start, got %d", blocks[0].Span.Start)
	}
	for i, b := range blocks {
		if b.Span.Empty() {
			return fmt.Errorf("block: block %d is empty in a non-empty file", i)
		}
		if i+1 < len(blocks) && b.Span.End != blocks[i+1].Span.Start {
			return fmt.Errorf("block: block %d ends at %d but block %d starts at %d (gap or overlap)",
				i, b.Span.End, i+1, blocks[i+1].Span.Start)
		}
	}
	if last := blocks[len(blocks)-1]; last.Span.End != len(contents) {
		return fmt.Errorf("block: last block must end at file end, got %d want %d", last.Span.End, len(contents))
	}
	return nil
}

func (s Span) Empty() bool { return s.Start == s.End }
