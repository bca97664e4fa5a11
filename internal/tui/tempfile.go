package tui

import (
	"fmt"
	"os"
)

func writeTempFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tui: writing %s: %w", path, err)
	}
	return nil
}

func readTempFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tui: reading %s: %w", path, err)
	}
	return data, nil
}
