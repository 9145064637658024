package breakeven

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/firecalc/pkg/money"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("FI GOAL SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if result.Request.BaseScenario != nil {
		sb.WriteString(fmt.Sprintf("Scenario:            %s\n", result.Request.BaseScenario.Name))
	}
	sb.WriteString(fmt.Sprintf("Solve For:           %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Retire By Age:       %d\n", result.Request.TargetRetirementAge))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalContribution != nil {
		sb.WriteString(fmt.Sprintf("Extra Contribution:  %s\n", describeValue(OptimizeContribution, *result.OptimalContribution)))
	}
	if result.OptimalSpend != nil {
		sb.WriteString(fmt.Sprintf("Maximum Spend:       %s\n", describeValue(OptimizeSpend, *result.OptimalSpend)))
	}
	if result.OptimalWithdrawalRate != nil {
		sb.WriteString(fmt.Sprintf("Withdrawal Rate:     %s\n", describeValue(OptimizeWithdrawalRate, *result.OptimalWithdrawalRate)))
	}
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Retirement Age:      %s (base: %s)\n", ageLabel(result.RetirementAge), ageLabel(result.BaseRetirementAge)))
	sb.WriteString(fmt.Sprintf("FI Target:           %s\n", money.FormatCurrency(result.FITarget)))
	sb.WriteString(fmt.Sprintf("Final Portfolio:     %s\n", money.FormatCurrency(result.FinalPortfolio)))
	sb.WriteString("\n")

	return sb.String()
}

// FormatMultiTarget formats results from solving every target
func (tf *TableFormatter) FormatMultiTarget(result *MultiTargetResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("WAYS TO REACH FI BY AGE %d\n", result.TargetRetirementAge))
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-22s %20s %12s %18s\n", "Solve For", "Value", "Retire Age", "Final Portfolio"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range result.Results {
		value, _ := r.OptimalValue()
		sb.WriteString(fmt.Sprintf("%-22s %20s %12s %18s\n",
			r.Request.Target,
			describeValue(r.Request.Target, value),
			ageLabel(r.RetirementAge),
			money.FormatCompact(r.FinalPortfolio)))
	}
	sb.WriteString("\n")

	if len(result.Failures) > 0 {
		sb.WriteString("NOT ACHIEVABLE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		targets := make([]string, 0, len(result.Failures))
		for t := range result.Failures {
			targets = append(targets, string(t))
		}
		sort.Strings(targets)
		for _, t := range targets {
			sb.WriteString(fmt.Sprintf("%s: %s\n", t, result.Failures[OptimizationTarget(t)]))
		}
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiTarget formats multi-target results as JSON
func (jf *JSONFormatter) FormatMultiTarget(result *MultiTargetResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Goal met"
	}
	return "⚠ Goal not met"
}

func ageLabel(age *int) string {
	if age == nil {
		return "Never"
	}
	return fmt.Sprintf("%d", *age)
}
