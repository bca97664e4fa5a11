// Package search implements the two literal-substring operations over the
// block list: incremental search-as-you-type and next/previous navigation.
package search

import (
	"cmpr/internal/arena"
	"cmpr/internal/project"
)

// Result is what Perform reports back to the TUI for its live preview:
// how many blocks match and where the first one is.
type Result struct {
	Pattern    string
	MatchCount int
	FirstMatch int // -1 sentinel if no block matches
}

// Perform strips pattern's leading '/', counts how many blocks contain it,
// and locates the first match. An empty pattern (after stripping) matches
// every block.
func Perform(p *project.Project, rawPattern string) Result {
	pattern := rawPattern
	if len(pattern) > 0 && pattern[0] == '/' {
		pattern = pattern[1:]
	}

	res := Result{Pattern: pattern, FirstMatch: -1}
	needle := []byte(pattern)
	for i, b := range p.Blocks {
		if arena.Contains(p.BlockBytes(b), needle) {
			res.MatchCount++
			if res.FirstMatch < 0 {
				res.FirstMatch = i
			}
		}
	}
	return res
}

// State is the persistent part of the search/navigation UI state: the
// previous committed search pattern, updated only by Finalize.
type State struct {
	Previous string
}

// Finalize commits a live search: it promotes pattern to the previous
// search and returns the block index the selection should jump to (the
// first match, or -1 if the pattern matched nothing).
func (s *State) Finalize(p *project.Project, rawPattern string) int {
	res := Perform(p, rawPattern)
	s.Previous = res.Pattern
	return res.FirstMatch
}

// Forward returns the lowest index strictly greater than current whose
// block contains the previous search pattern, or -1 if none (no
// wrap-around).
func Forward(p *project.Project, previous string, current int) int {
	needle := []byte(previous)
	for i := current + 1; i < len(p.Blocks); i++ {
		if arena.Contains(p.BlockBytes(p.Blocks[i]), needle) {
			return i
		}
	}
	return -1
}

// Backward returns the highest index strictly less than current whose
// block contains the previous search pattern, or -1 if none (no
// wrap-around).
func Backward(p *project.Project, previous string, current int) int {
	needle := []byte(previous)
	for i := current - 1; i >= 0; i-- {
		if arena.Contains(p.BlockBytes(p.Blocks[i]), needle) {
			return i
		}
	}
	return -1
}
