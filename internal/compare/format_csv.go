package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Years To FI",
		"FI Target",
		"Final Portfolio",
		"Peak Portfolio",
		"Total Withdrawals",
		"Total Contributed",
		"Depletion Age",
		"Retirement Age Diff",
		"Final Portfolio Diff",
		"Final Portfolio % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	target := result.FITarget.StringFixed(2)
	if result.FITargetUnbounded {
		target = "unbounded"
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		formatOptionalInt(result.RetirementAge),
		formatOptionalInt(result.YearsToFI),
		target,
		result.FinalPortfolio.StringFixed(2),
		result.PeakPortfolio.StringFixed(2),
		result.TotalWithdrawals.StringFixed(2),
		result.TotalContributed.StringFixed(2),
		formatOptionalInt(result.DepletionAge),
		formatOptionalInt(result.RetirementAgeDiff),
		result.FinalPortfolioDiff.StringFixed(2),
		result.FinalPortfolioPct.StringFixed(2),
	}
}

func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
