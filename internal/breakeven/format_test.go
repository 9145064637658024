package breakeven

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

func TestTableFormatter_Format(t *testing.T) {
	result := &OptimizationResult{
		Request: OptimizationRequest{
			BaseScenario:        &domain.Scenario{Name: "Plan"},
			Target:              OptimizeContribution,
			TargetRetirementAge: 50,
		},
		Success:             true,
		Iterations:          21,
		ConvergenceInfo:     "Binary search converged within 1",
		OptimalContribution: dec("1234.56"),
		RetirementAge:       domain.IntPtr(50),
		FITarget:            decimal.NewFromInt(1500000),
		FinalPortfolio:      decimal.NewFromInt(2750000),
	}

	out := (&TableFormatter{}).Format(result)
	for _, want := range []string{
		"FI GOAL SOLVER RESULTS",
		"Scenario:            Plan",
		"Solve For:           monthly_contribution",
		"Retire By Age:       50",
		"✓ Goal met",
		"Extra Contribution:  $1234.56/month",
		"Retirement Age:      50 (base: Never)",
		"FI Target:           $1,500,000",
		"Final Portfolio:     $2,750,000",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTableFormatter_FormatMultiTarget(t *testing.T) {
	result := &MultiTargetResult{
		TargetRetirementAge: 55,
		Results: []OptimizationResult{
			{Request: OptimizationRequest{Target: OptimizeWithdrawalRate}, OptimalWithdrawalRate: dec("3.5"), RetirementAge: domain.IntPtr(55)},
		},
		Failures:        map[OptimizationTarget]string{OptimizeSpend: "cannot retire"},
		Recommendations: []string{"A withdrawal rate of at least 3.50% reaches FI by age 55"},
	}

	out := (&TableFormatter{}).FormatMultiTarget(result)
	for _, want := range []string{
		"WAYS TO REACH FI BY AGE 55",
		"3.50%",
		"NOT ACHIEVABLE",
		"monthly_spend: cannot retire",
		"• A withdrawal rate",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	result := &OptimizationResult{
		Request:      OptimizationRequest{Target: OptimizeSpend, TargetRetirementAge: 45},
		Success:      true,
		OptimalSpend: dec("4200.5"),
	}

	out, err := (&JSONFormatter{Pretty: true}).Format(result)
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["optimal_spend"] != "4200.5" {
		t.Errorf("optimal_spend = %v", decoded["optimal_spend"])
	}
	if _, ok := decoded["optimal_contribution"]; ok {
		t.Error("unset values should be omitted")
	}
	req := decoded["request"].(map[string]any)
	if req["target"] != "monthly_spend" {
		t.Errorf("request.target = %v", req["target"])
	}
}
