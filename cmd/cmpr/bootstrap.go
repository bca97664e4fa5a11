// Package main is cmpr's entry point: a cobra root command that launches
// the bubbletea TUI by default, plus a handful of batch action flags that
// mirror the TUI's own read-only queries (§6's "CLI surface"), grounded
// on the teacher's cmd/nerd/main.go root command and its
// cmd_direct_actions.go "TUI verb mirrors" pattern.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"cmpr/internal/cmprdir"
	"cmpr/internal/config"
	"cmpr/internal/edit"
	"cmpr/internal/project"
	"cmpr/internal/revision"

	"go.uber.org/zap"
)

// stdinPrompter reads a single line from stdin for a missing required
// config key, grounded on the teacher's internal/init/interactive.go
// bufio.NewReader(os.Stdin) line-prompt pattern (the TUI's own textinput
// editor backs the interactive equivalent; this is the CLI's fallback
// when config is incomplete and no TUI has started yet).
func stdinPrompter() config.Prompter {
	reader := bufio.NewReader(os.Stdin)
	return func(key string) (string, error) {
		fmt.Fprintf(os.Stderr, "%s: ", key)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", key, err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// loadedProject bundles everything both the TUI and the batch CLI actions
// need after config and project load succeed.
type loadedProject struct {
	Config     *config.Config
	ConfigPath string
	Project    *project.Project
	Pipeline   *edit.Pipeline
	Layout     cmprdir.Layout
	Revisions  *revision.Index
}

func loadEverything(confPath string, log *zap.Logger) (*loadedProject, error) {
	cfg, err := config.Load(confPath)
	if err != nil {
		return nil, err
	}
	if err := config.EnsureRequired(confPath, cfg, stdinPrompter()); err != nil {
		return nil, err
	}

	if cfg.CmprDir == "" {
		cfg.CmprDir = ".cmpr"
	}
	layout := cmprdir.New(cfg.CmprDir)
	if err := layout.Ensure(); err != nil {
		return nil, err
	}

	specs := make([]project.FileSpec, len(cfg.Files))
	for i, fe := range cfg.Files {
		specs[i] = project.FileSpec{Path: fe.Path, Language: fe.Language}
	}
	p, err := project.Load(specs)
	if err != nil {
		return nil, err
	}

	rix, err := revision.Open(layout.Root + "/revisions.db")
	if err != nil {
		log.Warn("revision index unavailable, continuing without it", zap.Error(err))
		rix = nil
	}

	pl := edit.New(p, layout)
	pl.Revisions = rix

	return &loadedProject{
		Config:     cfg,
		ConfigPath: confPath,
		Project:    p,
		Pipeline:   pl,
		Layout:     layout,
		Revisions:  rix,
	}, nil
}
