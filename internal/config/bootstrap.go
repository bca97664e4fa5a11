package config

import (
	"bytes"
	"fmt"
	"os/exec"

	"cmpr/internal/clipboard"
)

// RunBootstrap runs the user's configured bootstrap command, captures its
// stdout as the bootstrap prompt, and copies it to the clipboard via
// cbCopyCmd. The bootstrap prompt primes the LLM with project context
// once, ahead of the user's first real request (§4.5 message assembly
// step 2).
func RunBootstrap(bootstrapCmd, cbCopyCmd string) (string, error) {
	if bootstrapCmd == "" {
		return "", nil
	}

	c := exec.Command("sh", "-c", bootstrapCmd)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("bootstrap command %q: %w: %s", bootstrapCmd, err, stderr.String())
	}

	prompt := stdout.String()
	if cbCopyCmd != "" {
		if err := clipboard.Copy(cbCopyCmd, prompt); err != nil {
			return prompt, err
		}
	}
	return prompt, nil
}
