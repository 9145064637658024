package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("FIRE SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 10

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Retire Age",
		6, "Years",
		numWidth, "FI Target",
		numWidth+5, "Final Portfolio",
		numWidth, "Depleted"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Retirement Age:   %s\n", tf.ageDelta(alt.RetirementAgeDiff)))
			sb.WriteString(fmt.Sprintf("  Final Portfolio:  %s%s (%s%%)\n",
				tf.deltaSymbol(alt.FinalPortfolioDiff),
				money.FormatCurrency(alt.FinalPortfolioDiff.Abs()),
				alt.FinalPortfolioPct.StringFixed(1)))

			if !alt.FITargetDiff.IsZero() {
				sb.WriteString(fmt.Sprintf("  FI Target:        %s%s\n",
					tf.deltaSymbol(alt.FITargetDiff),
					money.FormatCurrency(alt.FITargetDiff.Abs())))
			}
			if !alt.WithdrawalsDiff.IsZero() {
				sb.WriteString(fmt.Sprintf("  Withdrawals:      %s%s\n",
					tf.deltaSymbol(alt.WithdrawalsDiff),
					money.FormatCurrency(alt.WithdrawalsDiff.Abs())))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	years := "-"
	if result.YearsToFI != nil {
		years = fmt.Sprintf("%d", *result.YearsToFI)
	}
	target := money.FormatCompact(result.FITarget)
	if result.FITargetUnbounded {
		target = "Unbounded"
	}
	depleted := "-"
	if result.DepletionAge != nil {
		depleted = fmt.Sprintf("age %d", *result.DepletionAge)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.RetirementAgeLabel(),
		6, years,
		numWidth, target,
		numWidth+5, money.FormatCompact(result.FinalPortfolio),
		numWidth, depleted)
}

func (tf *TableFormatter) ageDelta(diff *int) string {
	switch {
	case diff == nil:
		return "n/a"
	case *diff == 0:
		return "same"
	case *diff < 0:
		return fmt.Sprintf("%d years earlier", -*diff)
	default:
		return fmt.Sprintf("%d years later", *diff)
	}
}

// deltaSymbol returns a sign prefix for a delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(fmt.Sprintf("%s: FI %s", alt.ScenarioName, alt.RetirementAgeLabel()))
	}

	return sb.String()
}
