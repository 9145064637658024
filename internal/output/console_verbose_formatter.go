package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
)

// ConsoleVerboseFormatter renders the summary, the schedules and the full
// year-by-year ledger.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeHeader(&buf, report)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range ModelAssumptions(&report.Inputs) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeInputs(&buf, &report.Inputs)
	writeSchedules(&buf, &report.Inputs)
	writeResults(&buf, report)
	writeLedger(&buf, report.Result)
	return buf.Bytes(), nil
}

func writeSchedules(buf *bytes.Buffer, in *domain.RetirementInputs) {
	fmt.Fprintln(buf, "CONTRIBUTION PHASES")
	fmt.Fprintln(buf, strings.Repeat("-", 19))
	if len(in.ContributionPhases) == 0 {
		fmt.Fprintln(buf, "  (none)")
	}
	for _, p := range in.ContributionPhases {
		fmt.Fprintf(buf, "  Ages %-10s %s/month\n", ageRange(p.StartAge, p.EndAge), money.FormatCurrency(p.MonthlyContribution))
	}
	fmt.Fprintln(buf)

	if len(in.WithdrawalOverrides) > 0 {
		fmt.Fprintln(buf, "WITHDRAWAL RATE OVERRIDES")
		fmt.Fprintln(buf, strings.Repeat("-", 25))
		for _, o := range in.WithdrawalOverrides {
			fmt.Fprintf(buf, "  Ages %-10s %s\n", ageRange(o.StartAge, o.EndAge), money.FormatPercent(o.WithdrawalRate, 2))
		}
		fmt.Fprintln(buf)
	}
}

func ageRange(start int, end *int) string {
	if end == nil {
		return fmt.Sprintf("%d+", start)
	}
	return fmt.Sprintf("%d-%d", start, *end)
}

func writeLedger(buf *bytes.Buffer, r *domain.SimulationResult) {
	fmt.Fprintln(buf, "YEAR-BY-YEAR PROJECTION")
	fmt.Fprintln(buf, strings.Repeat("=", 84))
	fmt.Fprintf(buf, "%-5s %14s %14s %14s %16s %16s  %s\n",
		"Age", "Contribution", "Growth", "Withdrawal", "Contributed", "Portfolio", "Status")
	fmt.Fprintln(buf, strings.Repeat("-", 84))
	for _, row := range r.Rows {
		marker := ""
		if r.RetirementAge != nil && row.Age == *r.RetirementAge {
			marker = " <- FI"
		}
		fmt.Fprintf(buf, "%-5d %14s %14s %14s %16s %16s  %s%s\n",
			row.Age,
			money.FormatCurrency(row.Contribution),
			money.FormatCurrency(row.Growth),
			money.FormatCurrency(row.Withdrawal),
			money.FormatCurrency(row.TotalContributions),
			money.FormatCurrency(row.PortfolioEnd),
			rowStatus(row),
			marker)
	}
	fmt.Fprintln(buf, strings.Repeat("=", 84))
}
