package main

import (
	"context"
	"fmt"
	"os"

	"cmpr/internal/config"
	"cmpr/internal/highlight"
	"cmpr/internal/llm"
	"cmpr/internal/logging"
	"cmpr/internal/tui"
	"cmpr/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose  bool
	confPath string

	printBlock   int
	printCode    int
	printComment int
	findBlock    string
	countBlocks  bool
	printConf    bool
	initFlag     bool
	versionFlag  bool

	logger *zap.Logger
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "cmpr",
	Short: "A block-oriented code prompting tool",
	Long: `cmpr tiles source files into comment+code blocks and lets you edit,
send to an LLM, or paste from the clipboard one block at a time.

Run without flags to start the interactive TUI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := logging.Options{Verbose: verbose}
		var err error
		logger, err = logging.New(opts)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if action, ok := selectedAction(); ok {
			return runBatchAction(action)
		}
		return runTUI()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&confPath, "conf", config.DefaultPath, "path to the config file")

	rootCmd.Flags().BoolVar(&versionFlag, "version", false, "print the version and exit")
	rootCmd.Flags().BoolVar(&initFlag, "init", false, "create the config file if missing and exit")
	rootCmd.Flags().BoolVar(&printConf, "print-conf", false, "print the resolved config and exit")
	rootCmd.Flags().IntVar(&printBlock, "print-block", 0, "print block N (comment+code) and exit")
	rootCmd.Flags().IntVar(&printCode, "print-code", 0, "print block N's code part and exit")
	rootCmd.Flags().IntVar(&printComment, "print-comment", 0, "print block N's comment part and exit")
	rootCmd.Flags().StringVar(&findBlock, "find-block", "", "print the index of the first block containing the string and exit")
	rootCmd.Flags().BoolVar(&countBlocks, "count-blocks", false, "print the number of blocks and exit")
}

func runTUI() error {
	lp, err := loadEverything(confPath, logger)
	if err != nil {
		return err
	}

	apiKey, err := lp.Layout.ReadKey()
	if err != nil {
		return err
	}
	orch := llm.New(lp.Layout, lp.Config.CurlBin, lp.Config.Model, apiKey)
	orch.Log = logger.With(zap.String("component", "llm"))

	renderer, err := highlight.NewRenderer(80)
	if err != nil {
		return err
	}

	paths := make([]string, len(lp.Project.Files))
	for i, f := range lp.Project.Files {
		paths[i] = f.Path
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var watcher *watch.Watcher
	if w, err := watch.New(paths); err == nil {
		watcher = w
		go w.Run(ctx)
	} else {
		logger.Warn("file watch unavailable, continuing without it", zap.Error(err))
	}

	m := tui.New(lp.Project, lp.Pipeline, lp.Config, lp.ConfigPath, orch, renderer, logger.With(zap.String("component", "tui")))
	m.Watcher = watcher
	m.Revisions = lp.Revisions

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
