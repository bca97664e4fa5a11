// Package project holds the project model: an ordered set of files, each
// with a language and contents span into the shared arena, plus the
// global ordered block list derived from them.
package project

import (
	"fmt"
	"os"

	"cmpr/internal/arena"
	"cmpr/internal/block"
	"cmpr/internal/cmprerr"
)

// File is one project file: its path, language, and contents span into the
// arena. Contents' End shifts as its blocks are edited; every later file's
// Contents endpoints shift by the same delta (I3).
type File struct {
	Path     string
	Language block.Language
	Contents arena.Span
}

// Project is the ordered set of project files plus the arena backing all
// of their contents and the global block list derived from them.
type Project struct {
	Arena  *arena.Arena
	Files  []File
	Blocks []block.Block
}

// New returns an empty project over a fresh arena.
func New() *Project {
	return &Project{Arena: arena.New()}
}

// FileSpec is one entry from the config's file: list, in language-group
// order.
type FileSpec struct {
	Path     string
	Language block.Language
}

// Load reads every spec's file in order into the arena (I3: file i+1's
// contents start equals file i's contents end, which Append gives for
// free by construction) and parses the full block list.
func Load(specs []FileSpec) (*Project, error) {
	p := New()
	for _, spec := range specs {
		data, err := os.ReadFile(spec.Path)
		if err != nil {
			return nil, cmprerr.NewFatal(fmt.Errorf("%s: %w", spec.Path, err))
		}
		span := p.Arena.Append(data)
		p.Files = append(p.Files, File{Path: spec.Path, Language: spec.Language, Contents: span})
	}
	if err := p.Reparse(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reparse regenerates the global block list by reparsing every file from
// its current arena contents. Called at project load and, per §4.4 step 6,
// at the end of every edit — simpler than localized patching and the only
// way the pipeline preserves I1 without tracking per-edit diffs.
func (p *Project) Reparse() error {
	var all []block.Block
	for i, f := range p.Files {
		blocks, err := block.Parse(f.Language, i, p.Arena.Bytes(f.Contents))
		if err != nil {
			return cmprerr.NewFatal(fmt.Errorf("%s: %w", f.Path, err))
		}
		all = append(all, blocks...)
	}
	p.Blocks = all
	return p.checkLayout()
}

// checkLayout enforces I3 (file i+1 starts where file i ends) and I4 (the
// last file's contents end equals the arena's live end). A violation
// indicates a bug in the edit pipeline's shifting logic, not bad input.
func (p *Project) checkLayout() error {
	for i := 1; i < len(p.Files); i++ {
		if p.Files[i].Contents.Start != p.Files[i-1].Contents.End {
			return cmprerr.NewFatal(fmt.Errorf("project: file %d starts at %d but file %d ends at %d (I3 violated)",
				i, p.Files[i].Contents.Start, i-1, p.Files[i-1].Contents.End))
		}
	}
	if len(p.Files) > 0 {
		last := p.Files[len(p.Files)-1]
		if last.Contents.End != p.Arena.Len() {
			return cmprerr.NewFatal(fmt.Errorf("project: last file ends at %d but arena live end is %d (I4 violated)",
				last.Contents.End, p.Arena.Len()))
		}
	}
	return nil
}

// FileOf returns the index of the file containing b: the file index stamped
// into b's Span, after checking by interval containment that b lies within
// that file's contents span. A block outside its file is returned as a
// plain (non-Fatal) error, which callers should treat as an invariant
// violation, not a recoverable condition.
func (p *Project) FileOf(b block.Block) (int, error) {
	return b.Span.File, p.validateFileOf(b)
}

func (p *Project) validateFileOf(b block.Block) error {
	if b.Span.File < 0 || b.Span.File >= len(p.Files) {
		return fmt.Errorf("project: block has file index %d out of range [0,%d)", b.Span.File, len(p.Files))
	}
	f := p.Files[b.Span.File]
	blockArenaSpan := b.Span.ToArena(f.Contents)
	if !f.Contents.Contains(blockArenaSpan) {
		return fmt.Errorf("project: block %v does not lie within file %q's contents span %v", b.Span, f.Path, f.Contents)
	}
	return nil
}

// BlockBytes returns the bytes of block b as they currently stand in the
// arena.
func (p *Project) BlockBytes(b block.Block) []byte {
	f := p.Files[b.Span.File]
	return p.Arena.Bytes(b.Span.ToArena(f.Contents))
}

// ShiftFilesAfter shifts the Contents span of every file after index f by
// delta, and extends file f's own Contents.End by delta. This is §4.4
// step 5. Callers must call Reparse afterward to regenerate the block
// list before anything else observes it (§5's ordering guarantee).
func (p *Project) ShiftFilesAfter(f int, delta int) {
	p.Files[f].Contents.End += delta
	for j := f + 1; j < len(p.Files); j++ {
		p.Files[j].Contents = p.Files[j].Contents.Shift(delta)
	}
}

// FindBlock returns the lowest index i such that block i textually contains
// s, or -1 (the sentinel) otherwise (P4). An empty s matches every block,
// consistent with perform_search treating an empty pattern as matching all.
func (p *Project) FindBlock(s string) int {
	needle := []byte(s)
	for i, b := range p.Blocks {
		if arena.Contains(p.BlockBytes(b), needle) {
			return i
		}
	}
	return -1
}

// CountBlocks returns the number of blocks in the global block list.
func (p *Project) CountBlocks() int { return len(p.Blocks) }
