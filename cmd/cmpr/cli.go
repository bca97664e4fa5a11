package main

import (
	"fmt"
	"os"

	"cmpr/internal/arena"
	"cmpr/internal/block"
	"cmpr/internal/config"

	"github.com/spf13/cobra"
)

// batchAction identifies which of §6's mutually-exclusive action flags
// was given, if any.
type batchAction struct {
	kind string
	n    int
	s    string
}

// actionFromFlags inspects which action flag cobra recorded as changed,
// mirroring §6's "exactly one takes effect" rule: the first one found in
// this fixed priority order wins if more than one was given, since
// nothing in the spec defines a tiebreak and misuse (exit 1) would be a
// harsher response than just picking one.
func actionFromFlags(cmd *cobra.Command) (batchAction, bool) {
	switch {
	case cmd.Flags().Changed("version"):
		return batchAction{kind: "version"}, true
	case cmd.Flags().Changed("init"):
		return batchAction{kind: "init"}, true
	case cmd.Flags().Changed("print-conf"):
		return batchAction{kind: "print-conf"}, true
	case cmd.Flags().Changed("print-block"):
		return batchAction{kind: "print-block", n: printBlock}, true
	case cmd.Flags().Changed("print-code"):
		return batchAction{kind: "print-code", n: printCode}, true
	case cmd.Flags().Changed("print-comment"):
		return batchAction{kind: "print-comment", n: printComment}, true
	case cmd.Flags().Changed("find-block"):
		return batchAction{kind: "find-block", s: findBlock}, true
	case cmd.Flags().Changed("count-blocks"):
		return batchAction{kind: "count-blocks"}, true
	}
	return batchAction{}, false
}

// runBatchAction builds the printed output of every project-loading action
// in an arena.Output's output region, the same scratch-then-flush shape
// the core uses for terminal output, rather than writing straight to
// os.Stdout at each call site. --version prints directly and --init
// prints nothing.
func runBatchAction(a batchAction) error {
	if a.kind == "version" {
		fmt.Println("cmpr " + version)
		return nil
	}
	if a.kind == "init" {
		cfg, err := config.Load(confPath)
		if err != nil {
			return err
		}
		if err := config.EnsureRequired(confPath, cfg, stdinPrompter()); err != nil {
			return err
		}
		return nil
	}

	lp, err := loadEverything(confPath, logger)
	if err != nil {
		return err
	}

	out := arena.NewOutput()

	switch a.kind {
	case "print-conf":
		out.Write(config.Serialize(lp.Config))

	case "print-block":
		b, err := blockAt(lp, a.n)
		if err != nil {
			return err
		}
		out.Write(lp.Project.BlockBytes(b))

	case "print-code":
		b, err := blockAt(lp, a.n)
		if err != nil {
			return err
		}
		f := lp.Project.Files[b.Span.File]
		_, code := block.CommentAndCode(f.Language, lp.Project.BlockBytes(b))
		out.Write(code)

	case "print-comment":
		b, err := blockAt(lp, a.n)
		if err != nil {
			return err
		}
		f := lp.Project.Files[b.Span.File]
		comment, _ := block.CommentAndCode(f.Language, lp.Project.BlockBytes(b))
		out.Write(comment)

	case "find-block":
		idx := lp.Project.FindBlock(a.s)
		fmt.Fprintf(out, "%d\n", idx+1)

	case "count-blocks":
		fmt.Fprintf(out, "%d\n", lp.Project.CountBlocks())

	default:
		return fmt.Errorf("cmpr: unhandled action %q", a.kind)
	}

	return out.Flush(os.Stdout)
}

// blockAt resolves a 1-based external index to the project's 0-based
// block list, per §6's "1-based externally, 0-based internally" rule.
func blockAt(lp *loadedProject, n int) (block.Block, error) {
	idx := n - 1
	if idx < 0 || idx >= lp.Project.CountBlocks() {
		return block.Block{}, fmt.Errorf("cmpr: block %d out of range [1,%d]", n, lp.Project.CountBlocks())
	}
	return lp.Project.Blocks[idx], nil
}

func selectedAction() (batchAction, bool) {
	return actionFromFlags(rootCmd)
}
