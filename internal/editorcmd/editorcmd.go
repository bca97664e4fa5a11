// Package editorcmd spawns the user's $EDITOR and the configured build
// command as child processes, the same synchronous spawn-and-wait shape
// as clipboard.Copy/Paste and config.RunBootstrap, just with the editor's
// streams wired straight to the terminal instead of captured buffers.
package editorcmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Bin returns $EDITOR, defaulting to vi per spec §5's environment note.
func Bin() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}

// EditCmd builds (but does not run) the command that launches the editor
// on path. The caller wires up Stdin/Stdout/Stderr and runs it: the TUI
// controller hands this to bubbletea's tea.ExecProcess so the program can
// suspend its own raw-mode terminal control for the duration, and a plain
// CLI caller can run it with the process's own streams directly.
func EditCmd(path string) *exec.Cmd {
	return exec.Command(Bin(), path)
}

// Edit launches the editor on path, connected directly to the process's
// own stdin/stdout/stderr, and waits for it to exit. For use outside
// bubbletea's raw-mode loop, where nothing else owns the terminal.
func Edit(path string) error {
	cmd := EditCmd(path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editorcmd: %s %s: %w", Bin(), path, err)
	}
	return nil
}

// Build runs the configured build command via "sh -c", capturing combined
// output for display in the TUI's status area.
func Build(buildCmd string) (output string, err error) {
	cmd := exec.Command("sh", "-c", buildCmd)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	runErr := cmd.Run()
	if runErr != nil {
		return buf.String(), fmt.Errorf("editorcmd: build: %w", runErr)
	}
	return buf.String(), nil
}
