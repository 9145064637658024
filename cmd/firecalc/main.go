package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/calculation"
	"github.com/rgehrsitz/firecalc/internal/config"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/logging"
	"github.com/rgehrsitz/firecalc/internal/output"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "firecalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(out, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newRootCmd assembles the command tree. Each call returns fresh commands so
// flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "firecalc",
		Short: "FIRE retirement calculator CLI",
		Long: "Deterministic financial-independence projections: when you can retire,\n" +
			"how the portfolio evolves and whether it lasts to life expectancy.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		calculateCmd(),
		validateCmd(),
		exampleCmd(),
		presetsCmd(),
		shareCmd(),
		decodeCmd(),
		compareCmd(),
		solveCmd(),
		sensitivityCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file|-]",
		Short: "Simulate a scenario and print the report",
		Long: `Simulate one scenario from a scenario file and print the report.

Use "-" to read the scenario file from stdin.

Examples:
  firecalc calculate plan.yaml
  firecalc calculate plan.yaml --scenario "Cautious Drawdown" --format csv
  cat plan.yaml | firecalc calculate - --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioName, _ := cmd.Flags().GetString("scenario")
			format, _ := cmd.Flags().GetString("format")
			debugMode, _ := cmd.Flags().GetBool("debug")

			scenario, err := loadScenario(cmd, args[0], scenarioName)
			if err != nil {
				return err
			}

			engine := newEngine(debugMode)
			report, err := engine.RunScenario(cmd.Context(), scenario)
			if err != nil {
				return err
			}
			return output.GenerateReport(cmd.OutOrStdout(), report, format)
		},
	}
	cmd.Flags().StringP("scenario", "s", "", "Scenario name (default: first scenario in the file)")
	cmd.Flags().StringP("format", "f", "console",
		"Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file|-]",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d scenarios: %s)\n",
				args[0], len(cfg.Scenarios), strings.Join(cfg.ScenarioNames(), ", "))
			return nil
		},
	}
}

func exampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [output-file]",
		Short: "Write a starter scenario file (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(config.GenerateExampleConfig())
				return err
			}
			if err := config.WriteExampleConfig(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
			return nil
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in assumption presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range domain.PresetNames() {
				p, err := domain.GetPreset(name)
				if err != nil {
					return err
				}
				in := p.Inputs
				fmt.Fprintf(out, "%s (%s)\n", p.Name, p.Description)
				fmt.Fprintf(out, "  return %s%%, inflation %s%% (%s), compounding %s\n",
					in.ExpectedYearlyReturn, in.InflationRate, in.InflationMode, in.CompoundingInterval)
				fmt.Fprintf(out, "  withdrawal rate %s%%, buffer %sx\n",
					in.SafeWithdrawalRate, in.RetirementBufferMultiplier)
				fmt.Fprintf(out, "  starts at age %d with %s, spending %s/month\n",
					in.CurrentAge, money.FormatCurrency(in.InitialInvestment), money.FormatCurrency(in.MonthlyRetirementSpend))
			}
			return nil
		},
	}
}

// newEngine returns a calculation engine, logging to stderr when debug is set.
func newEngine(debugMode bool) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	if debugMode {
		engine.SetLogger(logging.NewCLI(true))
	}
	return engine
}

// loadConfiguration reads a scenario file, or stdin when path is "-".
func loadConfiguration(cmd *cobra.Command, path string) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	if path != "-" {
		return parser.LoadFromFile(path)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return parser.LoadFromBytes(data)
}

func loadScenario(cmd *cobra.Command, path, name string) (*domain.Scenario, error) {
	cfg, err := loadConfiguration(cmd, path)
	if err != nil {
		return nil, err
	}
	return cfg.FindScenario(name)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
