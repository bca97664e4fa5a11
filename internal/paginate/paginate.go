// Package paginate maps logical (newline-terminated) lines to physical
// (terminal-row) lines, and drives page_up/page_down over a block's bytes.
package paginate

// CountPhysical walks content byte by byte, wrapping at cols columns, and
// returns the number of bytes consumed and the number of physical lines
// produced. If maxLines is non-negative, the walk stops once that many
// lines have been produced (used to skip an already-scrolled prefix or to
// measure a bounded page); maxLines < 0 means "walk to the end of
// content", used to measure a span's total physical-line count.
//
// A physical line ends when the current column reaches cols or a '\n' is
// consumed, whichever comes first; if the byte at column cols is itself a
// '\n', that newline is absorbed into the row it terminates rather than
// starting a new, empty row. This is the single primitive behind every
// other pagination computation (§4.7).
func CountPhysical(content []byte, cols int, maxLines int) (consumed int, lines int) {
	if cols <= 0 {
		cols = 1
	}
	col := 0
	i := 0
	for i < len(content) {
		if maxLines >= 0 && lines >= maxLines {
			break
		}
		b := content[i]
		if b == '\n' {
			i++
			col = 0
			lines++
			continue
		}
		i++
		col++
		if col == cols {
			if i < len(content) && content[i] == '\n' {
				i++
			}
			col = 0
			lines++
		}
	}
	if col > 0 && (maxLines < 0 || lines < maxLines) {
		lines++
		// The trailing partial row's bytes were already counted into i as
		// they were walked; nothing further to consume.
	}
	return i, lines
}

// Engine holds the terminal dimensions pagination is computed against.
type Engine struct {
	Cols int
	Rows int
}

// ContentRows returns the number of rows available for block content,
// reserving one row for the header and one for the ruler.
func (e Engine) ContentRows() int {
	n := e.Rows - 2
	if n < 1 {
		n = 1
	}
	return n
}

// TotalPhysicalLines returns the total physical-line count of content.
// Equals ⌈len(content)/Cols⌉ when content has no embedded newline (P5).
func (e Engine) TotalPhysicalLines(content []byte) int {
	_, lines := CountPhysical(content, e.Cols, -1)
	return lines
}

// SkipPrefix returns the byte offset reached after skipping n physical
// lines of content.
func (e Engine) SkipPrefix(content []byte, n int) int {
	consumed, _ := CountPhysical(content, e.Cols, n)
	return consumed
}

// Page returns the bytes of the visible page: ContentRows() physical
// lines starting after scrolledLines have been skipped. Near the end of
// content the returned page may contain fewer than ContentRows() lines;
// Page never panics on an out-of-range scrolledLines, returning an empty
// slice instead.
func (e Engine) Page(content []byte, scrolledLines int) []byte {
	if scrolledLines < 0 {
		scrolledLines = 0
	}
	start := e.SkipPrefix(content, scrolledLines)
	rest := content[start:]
	consumed, _ := CountPhysical(rest, e.Cols, e.ContentRows())
	return rest[:consumed]
}

// ClampScroll pulls scrolledLines back so the last page fills the screen
// rather than underflowing. It is deliberately NOT used by PageDown — see
// PageDown's doc comment and DESIGN.md's resolution of the page_down open
// question. The TUI does not call it either: jumping to a block resets the
// scroll to zero, and a terminal resize leaves the scroll as it was.
func (e Engine) ClampScroll(content []byte, scrolledLines int) int {
	if scrolledLines < 0 {
		return 0
	}
	total := e.TotalPhysicalLines(content)
	max := total - e.ContentRows()
	if max < 0 {
		max = 0
	}
	if scrolledLines > max {
		return max
	}
	return scrolledLines
}

// PageDown advances scrolledLines by ContentRows(). It intentionally does
// not clamp against content's total physical-line count: the source
// computes a remainder for exactly this purpose and never uses it (see
// DESIGN NOTES §9 and DESIGN.md), so a block that ends mid-page is
// followed by a page that only partially fills the screen rather than
// being nudged back to fill it. Scrolling past the end of content is
// harmless: Page() degrades to an empty page rather than panicking.
func (e Engine) PageDown(scrolledLines int) int {
	return scrolledLines + e.ContentRows()
}

// PageUp subtracts ContentRows() from scrolledLines, clamped at zero.
func (e Engine) PageUp(scrolledLines int) int {
	next := scrolledLines - e.ContentRows()
	if next < 0 {
		return 0
	}
	return next
}
