package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/compare"
	"github.com/rgehrsitz/firecalc/internal/transform"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file|-]",
		Short: "Compare a scenario against strategy templates or other scenarios",
		Long: `Compare a base scenario against alternatives.

Alternatives come from built-in templates (--with) or from other scenarios
in the same file (--scenarios).

Examples:
  firecalc compare plan.yaml --with save_more_10pct,swr_3_5
  firecalc compare plan.yaml --base "Base Plan" --scenarios "Cautious Drawdown" --format csv
  firecalc compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listTemplates, _ := cmd.Flags().GetBool("list-templates")
			if listTemplates {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if len(args) == 0 {
				return errors.New("input file required for comparison (use --list-templates to see available templates)")
			}

			baseName, _ := cmd.Flags().GetString("base")
			templates, _ := cmd.Flags().GetString("with")
			scenarios, _ := cmd.Flags().GetString("scenarios")
			format, _ := cmd.Flags().GetString("format")
			debugMode, _ := cmd.Flags().GetBool("debug")

			if templates == "" && scenarios == "" {
				return errors.New("--with or --scenarios is required (use --list-templates to see available templates)")
			}
			if templates != "" && scenarios != "" {
				return errors.New("--with and --scenarios cannot be combined")
			}

			cfg, err := loadConfiguration(cmd, args[0])
			if err != nil {
				return err
			}
			engine := compare.NewCompareEngine(newEngine(debugMode))

			var set *compare.ComparisonSet
			if templates != "" {
				names := transform.ParseTemplateList(templates)
				if len(names) == 0 {
					return errors.New("no valid templates specified in --with")
				}
				base, err := cfg.FindScenario(baseName)
				if err != nil {
					return err
				}
				set, err = engine.Compare(cmd.Context(), base, compare.CompareOptions{Templates: names})
				if err != nil {
					return fmt.Errorf("comparison failed: %w", err)
				}
			} else {
				set, err = engine.CompareScenarios(cmd.Context(), cfg, baseName, transform.ParseTemplateList(scenarios))
				if err != nil {
					return fmt.Errorf("comparison failed: %w", err)
				}
			}
			set.ConfigPath = args[0]

			return writeComparison(cmd.OutOrStdout(), set, format)
		},
	}
	cmd.Flags().String("base", "", "Base scenario name (default: first scenario in the file)")
	cmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	cmd.Flags().String("scenarios", "", "Comma-separated list of scenarios from the file to compare")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List all available scenario templates")
	cmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
	return cmd
}

func writeComparison(w io.Writer, set *compare.ComparisonSet, format string) error {
	var out string
	switch strings.ToLower(format) {
	case "csv":
		s, err := (&compare.CSVFormatter{}).Format(set)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		out = s
	case "json":
		s, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		out = s
	case "table", "console", "":
		out = (&compare.TableFormatter{}).Format(set)
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
	}
	_, err := io.WriteString(w, out)
	return err
}
