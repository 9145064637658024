package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/firecalc/internal/domain"
)

// CSVFormatter exports the year-by-year ledger, one row per simulated year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Age", "Contribution", "TotalContributions", "Growth", "Withdrawal", "PortfolioEnd", "Retired"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range report.Result.Rows {
		record := []string{
			strconv.Itoa(row.Age),
			row.Contribution.StringFixed(2),
			row.TotalContributions.StringFixed(2),
			row.Growth.StringFixed(2),
			row.Withdrawal.StringFixed(2),
			row.PortfolioEnd.StringFixed(2),
			strconv.FormatBool(row.Retired),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
