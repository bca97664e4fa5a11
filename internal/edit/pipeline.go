// Package edit implements the edit pipeline: the delicate in-place
// replacement of one block's body in the shared arena, revision
// persistence, and the on-disk file swap (working file renamed to .bak,
// revision copied over the working path).
package edit

import (
	"fmt"
	"io"
	"os"
	"time"

	"cmpr/internal/block"
	"cmpr/internal/cmprdir"
	"cmpr/internal/cmprerr"
	"cmpr/internal/project"
	"cmpr/internal/revision"
)

// Clock lets tests control the timestamp used for revision/tmp/api_calls
// file names without sleeping.
type Clock func() time.Time

// Pipeline mutates one project in place and persists every accepted
// change as an immutable revision before swapping the on-disk file.
type Pipeline struct {
	Project *project.Project
	Layout  cmprdir.Layout
	Now     Clock

	// Revisions, if set, receives one Record call per successful edit so
	// ":history <path>" can answer without re-listing revs/ by hand. A nil
	// Revisions is valid — the filesystem snapshot is still the source of
	// truth, the index is only a queryable cache over it.
	Revisions *revision.Index
}

// New returns a Pipeline over p, rooted at layout, using time.Now for
// revision timestamps.
func New(p *project.Project, layout cmprdir.Layout) *Pipeline {
	return &Pipeline{Project: p, Layout: layout, Now: time.Now}
}

// Result reports what a successful edit did, for the TUI/CLI to log or
// display.
type Result struct {
	FileIndex    int
	RevisionPath string
	Delta        int
}

// ReplaceWhole replaces block index blockIdx's entire body (comment and
// code) with newBody, exactly as it arrives from the editor pipeline. No
// comment-preserving padding is applied — the editor's buffer already
// contains whatever separation the user wrote.
func (pl *Pipeline) ReplaceWhole(blockIdx int, newBody []byte) (Result, error) {
	return pl.apply(blockIdx, newBody)
}

// ReplaceCode implements the comment-preserving replacement variant of
// §4.4: it keeps the existing block's comment part and rebuilds the block
// as comment ++ padding ++ newCode ++ "\n", used when newCode is an LLM
// code body rather than a whole block from the editor.
func (pl *Pipeline) ReplaceCode(blockIdx int, newCode []byte) (Result, error) {
	b := pl.Project.Blocks[blockIdx]
	lang := pl.Project.Files[b.Span.File].Language
	body := pl.Project.BlockBytes(b)
	comment, _ := block.CommentAndCode(lang, body)
	newBody := block.Rebuild(comment, newCode)
	return pl.apply(blockIdx, newBody)
}

// apply is the procedure of §4.4 steps 1-7.
func (pl *Pipeline) apply(blockIdx int, newBody []byte) (Result, error) {
	if blockIdx < 0 || blockIdx >= len(pl.Project.Blocks) {
		return Result{}, fmt.Errorf("edit: block index %d out of range [0,%d)", blockIdx, len(pl.Project.Blocks))
	}
	b := pl.Project.Blocks[blockIdx]
	fileIdx := b.Span.File
	f := pl.Project.Files[fileIdx]
	oldSpan := b.Span.ToArena(f.Contents)

	// Steps 1-4: compute delta, shift the tail, write the new bytes.
	delta := pl.Project.Arena.Splice(oldSpan, newBody)

	// Step 5: extend file f's contents end and shift every later file.
	pl.Project.ShiftFilesAfter(fileIdx, delta)

	// Step 6: regenerate the global block list, asserting I1-I4. An
	// invariant violation here indicates a parser bug, not a user mistake
	// — spec §7 terminates the program rather than trying to recover.
	if err := pl.Project.Reparse(); err != nil {
		return Result{}, cmprerr.NewFatal(fmt.Errorf("edit: invariant violation after edit: %w", err))
	}

	// Step 7: persist revision, rename the working file to .bak, and copy
	// the revision over it. The swap is not atomic: between the rename and
	// the copy the working path does not exist. Any failure here is a
	// filesystem failure per §7: fatal.
	revPath, err := pl.persist(fileIdx)
	if err != nil {
		return Result{}, cmprerr.NewFatal(err)
	}

	if pl.Revisions != nil {
		entry := revision.Entry{FilePath: f.Path, RevisionPath: revPath, Timestamp: pl.Now()}
		if err := pl.Revisions.Record(entry); err != nil {
			return Result{}, err
		}
	}

	return Result{FileIndex: fileIdx, RevisionPath: revPath, Delta: delta}, nil
}

// persist writes file fileIdx's new contents to a revision snapshot, backs
// up the working file with a .bak suffix, copies the revision over the
// working path, and restores the original file's mode bits.
func (pl *Pipeline) persist(fileIdx int) (string, error) {
	f := pl.Project.Files[fileIdx]
	contents := pl.Project.Arena.Bytes(f.Contents)

	info, err := os.Stat(f.Path)
	var mode os.FileMode = 0o644
	if err == nil {
		mode = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", f.Path, err)
	}

	if err := pl.Layout.Ensure(); err != nil {
		return "", err
	}

	revPath := pl.Layout.RevisionPath(pl.Now())
	if err := writeNoClobber(revPath, contents, mode); err != nil {
		return "", fmt.Errorf("%s: %w", revPath, err)
	}

	bakPath := f.Path + ".bak"
	if _, err := os.Stat(f.Path); err == nil {
		if err := os.Rename(f.Path, bakPath); err != nil {
			return "", fmt.Errorf("%s: %w", bakPath, err)
		}
	}

	if err := copyFile(revPath, f.Path); err != nil {
		return "", fmt.Errorf("%s: %w", f.Path, err)
	}
	if err := os.Chmod(f.Path, mode); err != nil {
		return "", fmt.Errorf("%s: %w", f.Path, err)
	}

	return revPath, nil
}

// writeNoClobber writes data to path, failing if path already exists (two
// edits landing in the same wall-clock second would otherwise silently
// clobber each other's revision).
func writeNoClobber(path string, data []byte, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// RemoveTemp removes a caller-supplied temp file (the editor's scratch
// file, once its contents have been read back into the pipeline). A
// missing file is not an error — the caller may have already cleaned up.
func RemoveTemp(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
