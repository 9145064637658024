package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Helper function to create a basic test scenario
func createTestScenario() *domain.Scenario {
	return &domain.Scenario{
		Name: "Test Scenario",
		Inputs: domain.RetirementInputs{
			CurrentAge:                 30,
			LifeExpectancy:             domain.IntPtr(90),
			InitialInvestment:          decimal.NewFromInt(50000),
			MonthlyRetirementSpend:     decimal.NewFromInt(4000),
			ExpectedYearlyReturn:       decimal.NewFromInt(7),
			InflationRate:              decimal.NewFromInt(3),
			InflationMode:              domain.InflationModeReal,
			CompoundingInterval:        domain.CompoundingMonthly,
			SafeWithdrawalRate:         decimal.NewFromInt(4),
			RetirementBufferMultiplier: decimal.NewFromInt(1),
			ContributionPhases: []domain.ContributionPhase{
				{StartAge: 30, EndAge: domain.IntPtr(40), MonthlyContribution: decimal.NewFromInt(2000)},
				{StartAge: 40, MonthlyContribution: decimal.NewFromInt(3000)},
			},
		},
	}
}

func TestApplyTransforms_NilScenario(t *testing.T) {
	_, err := ApplyTransforms(nil, []InputTransform{&SetReturn{Rate: decimal.NewFromInt(5)}})
	if err == nil {
		t.Error("Expected error for nil scenario, got nil")
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestScenario()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got same instance")
	}
	if result.Name != base.Name {
		t.Errorf("Expected name %s, got %s", base.Name, result.Name)
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []InputTransform{nil})
	if err == nil || !strings.Contains(err.Error(), "index 0 is nil") {
		t.Errorf("Expected nil transform error, got %v", err)
	}
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestScenario()
	transforms := []InputTransform{
		&SetReturn{Rate: decimal.NewFromInt(9)},
		&AdjustReturn{Delta: decimal.NewFromInt(-2)},
		&ScaleSpend{Factor: decimal.RequireFromString("0.5")},
		&SetWithdrawalRate{Rate: decimal.RequireFromString("3.5")},
	}

	result, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	in := result.Inputs
	if !in.ExpectedYearlyReturn.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected return 7, got %s", in.ExpectedYearlyReturn)
	}
	if !in.MonthlyRetirementSpend.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected spend 2000, got %s", in.MonthlyRetirementSpend)
	}
	if !in.SafeWithdrawalRate.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("Expected swr 3.5, got %s", in.SafeWithdrawalRate)
	}

	// Base is untouched
	if !base.Inputs.MonthlyRetirementSpend.Equal(decimal.NewFromInt(4000)) {
		t.Error("Base scenario was mutated")
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(createTestScenario(), []InputTransform{
		&SetBuffer{Multiplier: decimal.Zero},
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError in chain, got %T", err)
	}
	if te.TransformName != "set_buffer" || te.Operation != "validate" {
		t.Errorf("Unexpected error fields: %+v", te)
	}
}

func TestTransformValidation(t *testing.T) {
	base := createTestScenario()
	tests := []struct {
		name      string
		transform InputTransform
		wantErr   bool
	}{
		{"return in range", &SetReturn{Rate: decimal.NewFromInt(12)}, false},
		{"return too high", &SetReturn{Rate: decimal.NewFromInt(150)}, true},
		{"adjust out of range", &AdjustReturn{Delta: decimal.NewFromInt(-120)}, true},
		{"inflation negative ok", &SetInflation{Rate: decimal.NewFromInt(-1)}, false},
		{"swr zero ok", &SetWithdrawalRate{Rate: decimal.Zero}, false},
		{"swr negative", &SetWithdrawalRate{Rate: decimal.NewFromInt(-1)}, true},
		{"spend negative", &SetSpend{Monthly: decimal.NewFromInt(-1)}, true},
		{"scale spend zero", &ScaleSpend{Factor: decimal.Zero}, true},
		{"scale contributions zero ok", &ScaleContributions{Factor: decimal.Zero}, false},
		{"bad mode", &SetInflationMode{Mode: "sideways"}, true},
		{"bad interval", &SetCompounding{Interval: "daily"}, true},
		{"unknown preset", &ApplyPresetAssumptions{Preset: "yolo"}, true},
		{"phase empty span", &AddContributionPhase{StartAge: 40, EndAge: domain.IntPtr(40)}, true},
		{"override rate too high", &AddWithdrawalOverride{StartAge: 50, Rate: decimal.NewFromInt(101)}, true},
		{"age past horizon", &SetCurrentAge{Age: 95}, true},
		{"age ok", &SetCurrentAge{Age: 35}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transform.Validate(base)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.transform.Description() == "" {
				t.Error("Description should not be empty")
			}
			if err := tt.transform.Validate(nil); err == nil {
				t.Error("Validate(nil) should fail")
			}
		})
	}
}

func TestScaleContributions(t *testing.T) {
	base := createTestScenario()
	result, err := (&ScaleContributions{Factor: decimal.RequireFromString("1.25")}).Apply(base)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Inputs.ContributionPhases[0].MonthlyContribution.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Expected 2500, got %s", result.Inputs.ContributionPhases[0].MonthlyContribution)
	}
	if !result.Inputs.ContributionPhases[1].MonthlyContribution.Equal(decimal.NewFromInt(3750)) {
		t.Errorf("Expected 3750, got %s", result.Inputs.ContributionPhases[1].MonthlyContribution)
	}

	empty := createTestScenario()
	empty.Inputs.ContributionPhases = nil
	if err := (&ScaleContributions{Factor: decimal.NewFromInt(2)}).Validate(empty); err == nil {
		t.Error("Expected error scaling a scenario with no phases")
	}

	if got := (&ScaleContributions{Factor: decimal.RequireFromString("1.1")}).Description(); got != "Save 10% more each month" {
		t.Errorf("Unexpected description %q", got)
	}
	if got := (&ScaleContributions{Factor: decimal.RequireFromString("0.8")}).Description(); got != "Save 20% less each month" {
		t.Errorf("Unexpected description %q", got)
	}
}

func TestAddPhaseAndOverride(t *testing.T) {
	base := createTestScenario()
	result, err := ApplyTransforms(base, []InputTransform{
		&AddContributionPhase{StartAge: 35, EndAge: domain.IntPtr(45), Monthly: decimal.NewFromInt(500)},
		&AddWithdrawalOverride{StartAge: 50, Rate: decimal.NewFromInt(3)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Inputs.ContributionPhases) != 3 {
		t.Fatalf("Expected 3 phases, got %d", len(result.Inputs.ContributionPhases))
	}
	if len(base.Inputs.ContributionPhases) != 2 {
		t.Error("Base phases were mutated")
	}
	if len(result.Inputs.WithdrawalOverrides) != 1 || result.Inputs.WithdrawalOverrides[0].EndAge != nil {
		t.Errorf("Unexpected overrides: %+v", result.Inputs.WithdrawalOverrides)
	}
}

func TestSetCurrentAge_ShiftsPhases(t *testing.T) {
	result, err := (&SetCurrentAge{Age: 33}).Apply(createTestScenario())
	if err != nil {
		t.Fatal(err)
	}
	phases := result.Inputs.ContributionPhases
	if result.Inputs.CurrentAge != 33 || phases[0].StartAge != 33 || *phases[0].EndAge != 43 || phases[1].StartAge != 43 {
		t.Errorf("Unexpected shifted phases: %+v", phases)
	}
}

func TestApplyPresetAssumptions(t *testing.T) {
	result, err := (&ApplyPresetAssumptions{Preset: "conservative"}).Apply(createTestScenario())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Inputs.SafeWithdrawalRate.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("Expected swr 3.5, got %s", result.Inputs.SafeWithdrawalRate)
	}
	if !result.Inputs.MonthlyRetirementSpend.Equal(decimal.NewFromInt(4000)) {
		t.Error("Personal figures should be kept")
	}
	if domain.MatchPreset(result.Inputs) != "conservative" {
		t.Errorf("Expected inputs to match the conservative preset")
	}
}

func TestTransformError(t *testing.T) {
	cause := errors.New("boom")
	err := NewTransformError("set_swr", "apply", "failed", cause)
	if err.Error() != "transform set_swr (apply): failed: boom" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected wrapped cause")
	}
	if NewTransformError("x", "validate", "bad", nil).Error() != "transform x (validate): bad" {
		t.Error("Unexpected message without cause")
	}
}

func TestRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		wantName string
		wantErr  bool
	}{
		{"set_return:rate=8", "set_return", false},
		{"adjust_return:delta=-1.5", "adjust_return", false},
		{"set_swr:rate=3.25", "set_swr", false},
		{"set_buffer:multiplier=1.2", "set_buffer", false},
		{"set_spend:amount=3500", "set_spend", false},
		{"scale_spend:factor=0.8", "scale_spend", false},
		{"scale_contributions:factor=1.1", "scale_contributions", false},
		{"add_phase:start=40,end=50,amount=1500", "add_phase", false},
		{"add_phase:start=40,amount=1500", "add_phase", false},
		{"add_override:start=55, rate=3", "add_override", false},
		{"set_mode:mode=nominal", "set_mode", false},
		{"set_compounding:interval=yearly", "set_compounding", false},
		{"set_current_age:age=35", "set_current_age", false},
		{"apply_preset:name=aggressive", "apply_preset", false},
		{"set_return", "", true},
		{"set_return:", "", true},
		{"set_return:rate", "", true},
		{"set_return:rate=abc", "", true},
		{"add_phase:start=x,amount=1", "", true},
		{"add_phase:start=40,end=y,amount=1", "", true},
		{"set_mode:mode=sideways", "", true},
		{"set_compounding:interval=daily", "", true},
		{"teleport:years=3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tr.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, tr.Name())
			}
		})
	}
}

func TestRegistry_ParsedPhaseValues(t *testing.T) {
	tr, err := NewTransformRegistry().ParseTransformSpec("add_phase:start=40,end=50,amount=1500")
	if err != nil {
		t.Fatal(err)
	}
	phase, ok := tr.(*AddContributionPhase)
	if !ok {
		t.Fatalf("Expected *AddContributionPhase, got %T", tr)
	}
	if phase.StartAge != 40 || phase.EndAge == nil || *phase.EndAge != 50 || !phase.Monthly.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Unexpected phase: %+v", phase)
	}
}

func TestRegistry_ListAndSpecs(t *testing.T) {
	registry := NewTransformRegistry()
	names := registry.List()
	if len(names) != 14 {
		t.Errorf("Expected 14 transforms, got %d: %v", len(names), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Error("List should be sorted")
		}
	}

	transforms, err := registry.ParseTransformSpecs([]string{"set_swr:rate=3", "scale_spend:factor=0.9"})
	if err != nil || len(transforms) != 2 {
		t.Fatalf("ParseTransformSpecs failed: %v", err)
	}
	if got := Describe(transforms); len(got) != 2 || got[0] != "Set safe withdrawal rate to 3.00%" {
		t.Errorf("Unexpected descriptions %v", got)
	}

	if _, err := registry.ParseTransformSpecs([]string{"bogus"}); err == nil {
		t.Error("Expected error for bad spec")
	}
}
