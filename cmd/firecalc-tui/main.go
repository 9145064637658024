package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/firecalc/internal/logging"
	"github.com/rgehrsitz/firecalc/internal/tui"
)

func newRootCmd() *cobra.Command {
	var (
		scenario string
		preset   string
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "firecalc-tui [scenario-file]",
		Short: "Interactive FIRE calculator",
		Long: "Adjust savings, spending and market assumptions with sliders and watch the\n" +
			"retirement age, FI target and portfolio projection update as you go.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tui.Options{ScenarioName: scenario, Preset: preset}
			if len(args) == 1 {
				if _, err := os.Stat(args[0]); err != nil {
					return fmt.Errorf("scenario file not found: %s", args[0])
				}
				opts.ConfigPath = args[0]
			}

			// The terminal belongs to the UI, so logs only go to a file.
			if logFile != "" {
				logger, err := logging.New(logging.Config{Level: "debug", Format: "json", OutputPaths: []string{logFile}})
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
				opts.Logger = logger
			}

			model, err := tui.NewModel(opts)
			if err != nil {
				return err
			}
			if opts.Logger != nil {
				opts.Logger.Info("starting tui", zap.String("config", opts.ConfigPath), zap.String("preset", preset))
			}

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario name in the file (default: first)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "Starting preset when no file is given (conservative, balanced, aggressive)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write debug logs to this file")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
