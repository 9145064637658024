package compare

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCompareEngine_Compare(t *testing.T) {
	ce := NewCompareEngine(nil)
	base := createTestScenario()

	compSet, err := ce.Compare(context.Background(), base, CompareOptions{
		Templates: []string{"fat_fire", "swr_3"},
	})
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}

	if compSet.BaseScenarioName != "Base" {
		t.Errorf("BaseScenarioName = %q", compSet.BaseScenarioName)
	}
	if len(compSet.AlternativeResults) != 2 {
		t.Fatalf("got %d alternatives, want 2", len(compSet.AlternativeResults))
	}

	fat := compSet.AlternativeResults[0]
	if fat.ScenarioName != "Base_fat_fire" {
		t.Errorf("first alternative = %q, want Base_fat_fire", fat.ScenarioName)
	}
	if fat.RetirementAge != nil {
		t.Errorf("fat_fire should never retire, got age %d", *fat.RetirementAge)
	}
	if fat.RetirementAgeDiff != nil {
		t.Error("RetirementAgeDiff should be nil when the alternative never retires")
	}
	if !fat.FinalPortfolio.Equal(decimal.RequireFromString("1349836.8")) {
		t.Errorf("fat_fire final portfolio = %s, want 1349836.8", fat.FinalPortfolio)
	}
	if fat.Description == "" {
		t.Error("expected template description on the alternative")
	}

	swr := compSet.AlternativeResults[1]
	if swr.ScenarioName != "Base_swr_3" {
		t.Errorf("second alternative = %q, want Base_swr_3", swr.ScenarioName)
	}
	if swr.RetirementAgeDiff == nil || *swr.RetirementAgeDiff != 0 {
		t.Errorf("swr_3 RetirementAgeDiff = %v, want 0", swr.RetirementAgeDiff)
	}
	if !swr.WithdrawalsDiff.IsNegative() {
		t.Errorf("a lower withdrawal rate should withdraw less, diff = %s", swr.WithdrawalsDiff)
	}

	found := false
	for _, rec := range compSet.Recommendations {
		if rec == "Largest Legacy: Base_fat_fire ends with $155,588 more than base" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing largest legacy recommendation: %v", compSet.Recommendations)
	}

	// The base scenario must be untouched by the templates.
	if !base.Inputs.MonthlyRetirementSpend.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("base spend mutated to %s", base.Inputs.MonthlyRetirementSpend)
	}
}

func TestCompareEngine_Compare_KeepsTemplateOrder(t *testing.T) {
	ce := NewCompareEngine(nil)
	ce.MaxConcurrency = 2
	templates := []string{"lean_fire", "fat_fire", "swr_3", "swr_3_5", "bear_market", "bull_market"}

	compSet, err := ce.Compare(context.Background(), createTestScenario(), CompareOptions{Templates: templates})
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	for i, name := range templates {
		if got := compSet.AlternativeResults[i].ScenarioName; got != "Base_"+name {
			t.Errorf("alternative %d = %q, want Base_%s", i, got, name)
		}
	}
}

func TestCompareEngine_Compare_Errors(t *testing.T) {
	ce := NewCompareEngine(nil)

	if _, err := ce.Compare(context.Background(), nil, CompareOptions{}); err == nil {
		t.Error("expected error for nil base")
	}

	_, err := ce.Compare(context.Background(), createTestScenario(), CompareOptions{Templates: []string{"moon_shot"}})
	if err == nil || !strings.Contains(err.Error(), "template moon_shot not found") {
		t.Errorf("expected unknown template error, got %v", err)
	}

	// The test scenario has no contribution phases to scale.
	_, err = ce.Compare(context.Background(), createTestScenario(), CompareOptions{Templates: []string{"save_more_10pct"}})
	if err == nil || !strings.Contains(err.Error(), "failed to apply template save_more_10pct") {
		t.Errorf("expected apply error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ce.Compare(ctx, createTestScenario(), CompareOptions{Templates: []string{"fat_fire"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompareEngine_CompareScenarios(t *testing.T) {
	ce := NewCompareEngine(nil)

	alt := createTestScenario()
	alt.Name = "Spendy"
	alt.Description = "More spending"
	alt.Inputs.MonthlyRetirementSpend = decimal.NewFromInt(4500)

	config := &domain.Configuration{Scenarios: []domain.Scenario{*createTestScenario(), *alt}}

	compSet, err := ce.CompareScenarios(context.Background(), config, "Base", []string{"Spendy"})
	if err != nil {
		t.Fatalf("CompareScenarios returned error: %v", err)
	}
	if len(compSet.AlternativeResults) != 1 {
		t.Fatalf("got %d alternatives, want 1", len(compSet.AlternativeResults))
	}
	got := compSet.AlternativeResults[0]
	if got.ScenarioName != "Spendy" || got.Description != "More spending" {
		t.Errorf("unexpected alternative %q (%q)", got.ScenarioName, got.Description)
	}
	if !got.FITargetDiff.Equal(decimal.NewFromInt(450000)) {
		t.Errorf("FITargetDiff = %s, want 450000", got.FITargetDiff)
	}

	if _, err := ce.CompareScenarios(context.Background(), config, "Base", []string{"Missing"}); err == nil {
		t.Error("expected error for unknown alternative")
	}
	if _, err := ce.CompareScenarios(context.Background(), nil, "Base", nil); err == nil {
		t.Error("expected error for nil configuration")
	}
}
