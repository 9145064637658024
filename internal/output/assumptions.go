package output

import (
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// ModelAssumptions lists the modeling rules behind a projection, rendered in
// detailed outputs.
func ModelAssumptions(in *domain.RetirementInputs) []string {
	out := []string{
		"Each year: contributions are added, growth is applied, then the withdrawal is taken",
		"Retirement starts in the first year the opening balance meets the FI target",
		"Withdrawals are a percentage of the grown balance, not a fixed inflation-adjusted amount",
		"Contribution phases keep running after retirement; overlapping phases add together",
	}
	if in.InflationMode == domain.InflationModeReal {
		out = append(out, fmt.Sprintf("Figures are in today's dollars: inflation of %s is subtracted from the return",
			money.FormatPercent(in.InflationRate)))
	} else {
		out = append(out, "Figures are nominal: inflation is not applied")
	}
	if len(in.WithdrawalOverrides) > 0 {
		out = append(out, "Withdrawal overrides change both the FI target and the withdrawal for their ages; the first match wins")
	}
	return out
}
