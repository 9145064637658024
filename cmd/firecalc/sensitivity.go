package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/calculation"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func sensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity [input-file|-]",
		Short: "Sweep one or more inputs and show how retirement age responds",
		Long: `Perform sensitivity analysis to see how robust a plan is to its assumptions.

Parameters: ` + strings.Join(sensitivityParameterNames(), ", ") + `, or all.
A parameter may carry its own range as name:min-max:steps.

Examples:
  firecalc sensitivity plan.yaml --param return
  firecalc sensitivity plan.yaml --param swr:3-4.5:4 --param spend
  firecalc sensitivity plan.yaml --param all --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, _ := cmd.Flags().GetStringSlice("param")
			scenarioName, _ := cmd.Flags().GetString("scenario")
			format, _ := cmd.Flags().GetString("format")
			debugMode, _ := cmd.Flags().GetBool("debug")

			params, err := parseSensitivityParams(specs)
			if err != nil {
				return err
			}
			scenario, err := loadScenario(cmd, args[0], scenarioName)
			if err != nil {
				return err
			}

			analyzer := calculation.NewSensitivityAnalyzer(newEngine(debugMode))
			analyses, err := analyzer.AnalyzeMultipleParameters(cmd.Context(), scenario, params)
			if err != nil {
				return err
			}
			return output.FormatSensitivity(cmd.OutOrStdout(), analyses, format)
		},
	}
	cmd.Flags().StringSliceP("param", "p", []string{domain.ReturnParam.Name}, "Parameter to sweep (name or name:min-max:steps); repeatable")
	cmd.Flags().StringP("scenario", "s", "", "Scenario name (default: first scenario in the file)")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	cmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
	return cmd
}

func sensitivityParameterNames() []string {
	params := domain.DefaultSensitivityParameters()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseSensitivityParams resolves each --param spec against the built-in
// sweeps. "all" expands to every built-in sweep in name order.
func parseSensitivityParams(specs []string) ([]domain.SensitivityParameter, error) {
	defaults := domain.DefaultSensitivityParameters()
	var params []domain.SensitivityParameter
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "all" {
			for _, name := range sensitivityParameterNames() {
				params = append(params, defaults[name])
			}
			continue
		}

		parts := strings.Split(spec, ":")
		param, ok := defaults[parts[0]]
		if !ok {
			return nil, fmt.Errorf("unknown sensitivity parameter %q (available: %s, all)",
				parts[0], strings.Join(sensitivityParameterNames(), ", "))
		}
		switch len(parts) {
		case 1:
		case 3:
			lo, hi, ok := strings.Cut(parts[1], "-")
			if !ok {
				return nil, fmt.Errorf("parameter %q: range must be min-max", spec)
			}
			minValue, err := decimal.NewFromString(lo)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: invalid minimum %q", spec, lo)
			}
			maxValue, err := decimal.NewFromString(hi)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: invalid maximum %q", spec, hi)
			}
			steps, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("parameter %q: invalid steps %q", spec, parts[2])
			}
			param.MinValue, param.MaxValue, param.Steps = minValue, maxValue, steps
		default:
			return nil, fmt.Errorf("parameter %q: use name or name:min-max:steps", spec)
		}
		params = append(params, param)
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("at least one --param is required")
	}
	return params, nil
}
