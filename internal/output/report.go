package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
)

// GenerateReport formats report with the named formatter and writes it to w.
func GenerateReport(w io.Writer, report *domain.SimulationReport, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// ConsoleFormatter renders the headline figures of a run.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeHeader(&buf, report)
	writeInputs(&buf, &report.Inputs)
	writeResults(&buf, report)
	return buf.Bytes(), nil
}

func checkReport(report *domain.SimulationReport) error {
	if report == nil || report.Result == nil {
		return fmt.Errorf("report has no simulation result")
	}
	return nil
}

func writeHeader(buf *bytes.Buffer, report *domain.SimulationReport) {
	title := "FIRE RETIREMENT PROJECTION"
	if report.Name != "" {
		title += ": " + report.Name
	}
	rule := strings.Repeat("=", 64)
	fmt.Fprintln(buf, rule)
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, rule)
	fmt.Fprintln(buf)
}

func writeInputs(buf *bytes.Buffer, in *domain.RetirementInputs) {
	fmt.Fprintln(buf, "ASSUMPTIONS")
	fmt.Fprintln(buf, strings.Repeat("-", 11))
	fmt.Fprintf(buf, "Current Age:             %d (simulated through %d)\n", in.CurrentAge, in.Horizon())
	fmt.Fprintf(buf, "Initial Investment:      %s\n", money.FormatCurrency(in.InitialInvestment))
	fmt.Fprintf(buf, "Retirement Spend:        %s/month (%s/year)\n",
		money.FormatCurrency(in.MonthlyRetirementSpend),
		money.FormatCurrency(in.MonthlyRetirementSpend.Mul(monthsPerYear)))
	fmt.Fprintf(buf, "Expected Return:         %s %s\n", money.FormatPercent(in.ExpectedYearlyReturn), returnNote(in))
	fmt.Fprintf(buf, "Compounding:             %s\n", in.CompoundingInterval)
	fmt.Fprintf(buf, "Safe Withdrawal Rate:    %s\n", money.FormatPercent(in.SafeWithdrawalRate, 2))
	fmt.Fprintf(buf, "Buffer Multiplier:       %sx\n", in.RetirementBufferMultiplier.StringFixed(2))
	fmt.Fprintln(buf)
}

func returnNote(in *domain.RetirementInputs) string {
	if in.InflationMode == domain.InflationModeReal {
		return fmt.Sprintf("(real: %s after %s inflation)",
			money.FormatPercent(in.ExpectedYearlyReturn.Sub(in.InflationRate)),
			money.FormatPercent(in.InflationRate))
	}
	return "(nominal)"
}

func writeResults(buf *bytes.Buffer, report *domain.SimulationReport) {
	r, m := report.Result, report.Metrics
	fmt.Fprintln(buf, "RESULTS")
	fmt.Fprintln(buf, strings.Repeat("-", 7))
	fmt.Fprintf(buf, "FI Target:               %s\n", fiTargetLabel(r))
	fmt.Fprintf(buf, "Retirement Age:          %s\n", r.RetirementAgeLabel())
	fmt.Fprintf(buf, "Years to Retirement:     %s\n", r.YearsToRetirementLabel())
	if r.Retired() {
		fmt.Fprintf(buf, "Portfolio at FI:         %s\n", money.FormatCurrency(m.PortfolioAtFIAge))
		fmt.Fprintf(buf, "First-Year Withdrawal:   %s\n", money.FormatCurrency(m.FirstWithdrawal))
	}
	fmt.Fprintf(buf, "Peak Portfolio:          %s (age %d)\n", money.FormatCurrency(m.PeakPortfolio), m.PeakAge)
	fmt.Fprintf(buf, "Final Portfolio:         %s\n", money.FormatCurrency(m.FinalPortfolio))
	fmt.Fprintf(buf, "Total Contributed:       %s\n", money.FormatCurrency(m.TotalContributed))
	fmt.Fprintf(buf, "Total Growth:            %s\n", money.FormatCurrency(m.TotalGrowth))
	fmt.Fprintf(buf, "Total Withdrawals:       %s\n", money.FormatCurrency(m.TotalWithdrawals))
	if m.DepletionAge != nil {
		fmt.Fprintf(buf, "DEPLETED AT AGE:         %d\n", *m.DepletionAge)
	}
	fmt.Fprintln(buf)
}

func fiTargetLabel(r *domain.SimulationResult) string {
	if r.FITargetUnbounded {
		return "Unbounded (0% withdrawal rate)"
	}
	return money.FormatCurrency(r.FITarget)
}

// rowStatus labels a ledger row for tables.
func rowStatus(row domain.YearRow) string {
	switch {
	case row.IsDepleted():
		return "Depleted"
	case row.Retired:
		return "Retired"
	default:
		return "Saving"
	}
}
