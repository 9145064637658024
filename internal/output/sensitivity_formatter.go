package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter defines a formatter for sensitivity analysis
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analyses []*domain.SensitivityAnalysis) (string, error)
	Name() string
}

// GetSensitivityFormatter returns the sensitivity formatter for name
// ("console" or "json"), or nil.
func GetSensitivityFormatter(name string) SensitivityFormatter {
	switch NormalizeFormatName(name) {
	case "console", "console-verbose":
		return SensitivityConsoleFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return nil
	}
}

// FormatSensitivity renders analyses with the named formatter and writes
// them to w.
func FormatSensitivity(w io.Writer, analyses []*domain.SensitivityAnalysis, format string) error {
	f := GetSensitivityFormatter(format)
	if f == nil {
		return fmt.Errorf("unsupported sensitivity format: %s (available: console, json)", format)
	}
	out, err := f.FormatSensitivityAnalysis(analyses)
	if err != nil {
		return fmt.Errorf("failed to format sensitivity analysis: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analyses []*domain.SensitivityAnalysis) (string, error) {
	if len(analyses) == 0 {
		return "", fmt.Errorf("no sensitivity analyses to format")
	}
	var buf bytes.Buffer
	for i, a := range analyses {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		if err := formatSingleAnalysis(&buf, a); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func formatSingleAnalysis(buf *bytes.Buffer, a *domain.SensitivityAnalysis) error {
	if a == nil || len(a.Points) == 0 {
		return fmt.Errorf("no results in analysis")
	}
	param := a.Parameter

	fmt.Fprintf(buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	if a.ScenarioName != "" {
		fmt.Fprintf(buf, "Scenario: %s\n", a.ScenarioName)
	}
	fmt.Fprintf(buf, "Base Case: %s\n", formatParamValue(param.Unit, a.BaseValue))
	fmt.Fprintf(buf, "Range: %s to %s (%d steps)\n",
		formatParamValue(param.Unit, param.MinValue), formatParamValue(param.Unit, param.MaxValue), param.Steps)
	if param.Description != "" {
		fmt.Fprintf(buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "%-16s %-12s %-10s %-14s %-16s %s\n",
		param.Name, "Retire Age", "Years", "FI Target", "Final Portfolio", "Depleted")
	fmt.Fprintln(buf, strings.Repeat("-", 80))
	for _, p := range a.Points {
		value := formatParamValue(param.Unit, p.Value)
		if p.IsBase {
			value += " ←"
		}
		fmt.Fprintf(buf, "%-16s %-12s %-10s %-14s %-16s %s\n",
			value,
			optionalInt(p.RetirementAge, "Never"),
			optionalInt(p.YearsToRetirement, "∞"),
			money.FormatCompact(p.FITarget),
			money.FormatCurrency(p.FinalPortfolio),
			optionalInt(p.DepletionAge, "-"))
	}
	fmt.Fprintln(buf)

	s := a.Summary
	fmt.Fprintln(buf, "SUMMARY")
	fmt.Fprintf(buf, "  Retirement age range: %s to %s (spread %d years)\n",
		optionalInt(s.EarliestRetirementAge, "Never"), optionalInt(s.LatestRetirementAge, "Never"), s.RetirementAgeSpread)
	fmt.Fprintf(buf, "  Never retires: %d of %d\n", s.NeverRetiresCount, len(a.Points))
	fmt.Fprintf(buf, "  Depletes: %d of %d\n", s.DepletionCount, len(a.Points))
	fmt.Fprintf(buf, "  Final portfolio spread: %s\n", money.FormatCurrency(s.FinalPortfolioSpread))
	fmt.Fprintf(buf, "  Sensitivity: %s\n", s.RiskLevel)
	return nil
}

func formatParamValue(unit string, v decimal.Decimal) string {
	switch unit {
	case "percent":
		return money.FormatPercent(v, 2)
	case "dollars":
		return money.FormatCurrency(v)
	case "multiplier":
		return v.StringFixed(2) + "x"
	default:
		return v.String()
	}
}

func optionalInt(v *int, missing string) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analyses []*domain.SensitivityAnalysis) (string, error) {
	data, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal sensitivity analysis: %w", err)
	}
	return string(data), nil
}
