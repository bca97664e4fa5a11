// Package logging builds the zap logger the CLI and TUI share, grounded
// on the teacher's cmd/nerd/main.go PersistentPreRunE construction
// (zap.NewProductionConfig, toggled to debug under -v) but without that
// repo's Mangle-fact audit trail, which has no equivalent in this domain.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the root logger.
type Options struct {
	// Verbose enables debug-level logging.
	Verbose bool
	// LogDir, if non-empty, additionally writes the same console-encoded
	// log lines to <LogDir>/cmpr.log.
	LogDir string
}

// New builds the root *zap.Logger. Components take a named sub-logger off
// of it via Named or With, rather than consulting a package-level global —
// business logic always receives its logger through a constructor
// argument.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()

	if opts.LogDir == "" {
		return cfg.Build()
	}

	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	cfg.OutputPaths = append(cfg.OutputPaths, filepath.Join(opts.LogDir, "cmpr.log"))
	return cfg.Build()
}

// Nop returns a logger that discards everything, for tests and batch CLI
// actions that don't want console noise.
func Nop() *zap.Logger { return zap.NewNop() }
