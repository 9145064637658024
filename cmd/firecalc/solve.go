package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/breakeven"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// constraintFlags maps each bound flag onto its field in breakeven.Constraints.
var constraintFlags = []struct {
	name  string
	usage string
	field func(*breakeven.Constraints) **decimal.Decimal
}{
	{"min-contribution", "Lower bound for the extra monthly contribution", func(c *breakeven.Constraints) **decimal.Decimal { return &c.MinContribution }},
	{"max-contribution", "Upper bound for the extra monthly contribution", func(c *breakeven.Constraints) **decimal.Decimal { return &c.MaxContribution }},
	{"min-spend", "Lower bound for monthly retirement spend", func(c *breakeven.Constraints) **decimal.Decimal { return &c.MinSpend }},
	{"max-spend", "Upper bound for monthly retirement spend", func(c *breakeven.Constraints) **decimal.Decimal { return &c.MaxSpend }},
	{"min-rate", "Lower bound for the withdrawal rate, in percent", func(c *breakeven.Constraints) **decimal.Decimal { return &c.MinWithdrawalRate }},
	{"max-rate", "Upper bound for the withdrawal rate, in percent", func(c *breakeven.Constraints) **decimal.Decimal { return &c.MaxWithdrawalRate }},
}

func solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [input-file|-]",
		Short: "Find the contribution, spend or withdrawal rate that retires you at a goal age",
		Long: `Search one input until the scenario first reaches financial independence
at or before the goal age.

Targets:
  monthly_contribution  smallest extra monthly contribution (alias: contribution)
  monthly_spend         largest monthly retirement spend (alias: spend)
  withdrawal_rate       smallest safe withdrawal rate (alias: swr)
  all                   solve each of the above

Examples:
  firecalc solve plan.yaml --target contribution --age 50
  firecalc solve plan.yaml --target all --age 55 --max-contribution 3000 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetName, _ := cmd.Flags().GetString("target")
			age, _ := cmd.Flags().GetInt("age")
			scenarioName, _ := cmd.Flags().GetString("scenario")
			format, _ := cmd.Flags().GetString("format")
			debugMode, _ := cmd.Flags().GetBool("debug")

			if !cmd.Flags().Changed("age") {
				return errors.New("--age is required")
			}
			target, err := breakeven.ParseTarget(targetName)
			if err != nil {
				return err
			}
			constraints, err := constraintsFromFlags(cmd)
			if err != nil {
				return err
			}

			scenario, err := loadScenario(cmd, args[0], scenarioName)
			if err != nil {
				return err
			}
			solver := breakeven.NewDefaultSolver(newEngine(debugMode))

			if target == breakeven.OptimizeAll {
				result, err := solver.OptimizeAllTargets(cmd.Context(), scenario, age, constraints)
				if err != nil {
					return err
				}
				return writeSolve(cmd.OutOrStdout(), format,
					func() string { return (&breakeven.TableFormatter{}).FormatMultiTarget(result) },
					func() (string, error) { return (&breakeven.JSONFormatter{Pretty: true}).FormatMultiTarget(result) })
			}

			result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
				BaseScenario:        scenario,
				Target:              target,
				TargetRetirementAge: age,
				Constraints:         constraints,
			})
			if err != nil {
				return err
			}
			return writeSolve(cmd.OutOrStdout(), format,
				func() string { return (&breakeven.TableFormatter{}).Format(result) },
				func() (string, error) { return (&breakeven.JSONFormatter{Pretty: true}).Format(result) })
		},
	}
	cmd.Flags().StringP("target", "t", string(breakeven.OptimizeAll), "Input to solve for (monthly_contribution, monthly_spend, withdrawal_rate, all)")
	cmd.Flags().IntP("age", "a", 0, "Goal retirement age (required)")
	cmd.Flags().StringP("scenario", "s", "", "Scenario name (default: first scenario in the file)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
	for _, f := range constraintFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
	return cmd
}

// constraintsFromFlags reads the bound flags the user set. Unset bounds stay
// nil so the solver applies its defaults.
func constraintsFromFlags(cmd *cobra.Command) (breakeven.Constraints, error) {
	var c breakeven.Constraints
	for _, f := range constraintFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		raw, _ := cmd.Flags().GetString(f.name)
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return c, fmt.Errorf("--%s: invalid number %q", f.name, raw)
		}
		*f.field(&c) = &v
	}
	return c, nil
}

func writeSolve(w io.Writer, format string, table func() string, json func() (string, error)) error {
	var out string
	switch strings.ToLower(format) {
	case "table", "console", "":
		out = table()
	case "json":
		s, err := json()
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		out = s
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
	}
	_, err := io.WriteString(w, out)
	return err
}
