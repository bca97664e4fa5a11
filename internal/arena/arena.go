// Package arena implements the byte arena and span primitives described in
// the core: a single growable buffer holding every project file's bytes,
// plus lightweight, non-owning ranges into it.
package arena

import "fmt"

// Span is a half-open byte range [Start, End) into an Arena's buffer. Spans
// never own bytes; two empty spans at different offsets are distinct
// locations (an empty file's block is not the same as another empty file's
// block even though both have zero length).
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool { return s.Start == s.End }

// Contains reports whether s fully contains other (used by project.FileOf's
// pointer-interval containment check).
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Shift returns s translated by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// Arena is a single contiguous buffer from which every live Span in the
// project and block models is a non-owning reference. It grows as needed;
// unlike the source's fixed-size C buffers, overflow is not a failure mode
// here (see DESIGN.md).
type Arena struct {
	buf []byte
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// NewWithCapacity returns an empty arena pre-sized to hold n bytes without
// reallocation, useful when the caller knows the total size of the project
// files it is about to load.
func NewWithCapacity(n int) *Arena {
	return &Arena{buf: make([]byte, 0, n)}
}

// Len returns the arena's current live length (its "live end").
func (a *Arena) Len() int { return len(a.buf) }

// Append appends p to the end of the arena and returns the span it now
// occupies. Used when loading project files head-to-tail in project order.
func (a *Arena) Append(p []byte) Span {
	start := len(a.buf)
	a.buf = append(a.buf, p...)
	return Span{Start: start, End: len(a.buf)}
}

// Bytes returns the bytes covered by s. The returned slice aliases the
// arena's backing array and is only valid until the next mutating call.
func (a *Arena) Bytes(s Span) []byte {
	return a.buf[s.Start:s.End]
}

// String returns a copy of the bytes covered by s as a string.
func (a *Arena) String(s Span) string {
	return string(a.Bytes(s))
}

// Splice replaces the bytes of the half-open span old with newBytes,
// shifting every byte after old.End by delta = len(newBytes) - old.Len()
// using an overlap-safe move, and returns delta. This is the core
// operation behind the edit pipeline's step 2-4: shift the tail, then
// write the new bytes into the gap.
//
// Splice panics if old does not lie within the arena's live region; callers
// are expected to have validated the span against the block/project model
// first (a violation here indicates an invariant bug upstream, not bad
// input).
func (a *Arena) Splice(old Span, newBytes []byte) int {
	if old.Start < 0 || old.End > len(a.buf) || old.Start > old.End {
		panic(fmt.Sprintf("arena: span %v out of bounds for arena of length %d", old, len(a.buf)))
	}

	delta := len(newBytes) - old.Len()
	switch {
	case delta == 0:
		copy(a.buf[old.Start:old.End], newBytes)
	case delta > 0:
		a.buf = append(a.buf, make([]byte, delta)...)
		copy(a.buf[old.End+delta:], a.buf[old.End:len(a.buf)-delta])
		copy(a.buf[old.Start:old.Start+len(newBytes)], newBytes)
	default: // delta < 0
		copy(a.buf[old.Start:old.Start+len(newBytes)], newBytes)
		copy(a.buf[old.Start+len(newBytes):], a.buf[old.End:])
		a.buf = a.buf[:len(a.buf)+delta]
	}
	return delta
}

// Truncate discards everything from offset to the end of the arena. No
// file or block span is adjusted; the edit pipeline shrinks files through
// Splice instead.
func (a *Arena) Truncate(offset int) {
	a.buf = a.buf[:offset]
}
