package calculation

import (
	"context"
	"strings"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	// Test setting a custom logger
	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)

	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	// Test setting nil logger (should use no-op logger)
	engine.SetLogger(nil)

	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestCalculationEngine_Simulate_Logs(t *testing.T) {
	engine := NewCalculationEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	inputs := domain.DefaultInputs()
	inputs.SafeWithdrawalRate = decimal.Zero

	result := engine.Simulate(inputs)

	assert.True(t, result.FITargetUnbounded)
	assert.True(t, logger.contains("WARN: safe withdrawal rate is zero"), "Should warn about zero SWR")
	assert.True(t, logger.contains("DEBUG: simulating from age"), "Should log start of run")
}

func TestCalculationEngine_ZeroValueLogger(t *testing.T) {
	engine := &CalculationEngine{}

	assert.NotPanics(t, func() {
		engine.Simulate(domain.DefaultInputs())
	})
}

func TestCalculationEngine_RunScenario(t *testing.T) {
	engine := NewCalculationEngine()
	scenario := &domain.Scenario{Name: "base", Inputs: domain.DefaultInputs()}

	report, err := engine.RunScenario(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, "base", report.Name)
	assert.Len(t, report.Result.Rows, 61)
	assert.True(t, report.Metrics.FinalPortfolio.Equal(report.Result.Rows[60].PortfolioEnd))

	_, err = engine.RunScenario(context.Background(), nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.RunScenario(ctx, scenario)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculationEngine_RunScenarioAuto_InvalidIndex(t *testing.T) {
	engine := NewCalculationEngine()

	config := &domain.Configuration{
		Scenarios: []domain.Scenario{
			{Name: "scenario1"},
		},
	}

	// Test with invalid index
	result, err := engine.RunScenarioAuto(context.Background(), config, 5)

	assert.Error(t, err, "Should error for invalid index")
	assert.Nil(t, result, "Should return nil result")
	assert.Contains(t, err.Error(), "scenario index 5 out of range", "Should have specific error message")
}

func TestCalculationEngine_RunScenarioAuto_ValidIndex(t *testing.T) {
	engine := NewCalculationEngine()

	config := &domain.Configuration{
		Scenarios: []domain.Scenario{
			{Name: "test-scenario", Inputs: domain.DefaultInputs()},
		},
	}

	result, err := engine.RunScenarioAuto(context.Background(), config, 0)

	assert.NoError(t, err, "Should not error for valid index")
	assert.NotNil(t, result, "Should return result")
	assert.Equal(t, "test-scenario", result.Name, "Should have correct scenario name")
}

func TestCalculationEngine_RunScenarios(t *testing.T) {
	engine := NewCalculationEngine()

	lean := domain.DefaultInputs()
	lean.MonthlyRetirementSpend = decimal.NewFromInt(2500)
	config := &domain.Configuration{
		Scenarios: []domain.Scenario{
			{Name: "base", Inputs: domain.DefaultInputs()},
			{Name: "lean", Inputs: lean},
		},
	}

	reports, err := engine.RunScenarios(context.Background(), config)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "lean", reports[1].Name)
	require.NotNil(t, reports[0].Result.RetirementAge)
	require.NotNil(t, reports[1].Result.RetirementAge)
	assert.Less(t, *reports[1].Result.RetirementAge, *reports[0].Result.RetirementAge, "Lower spend retires sooner")
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}

func (tl *TestLogger) contains(prefix string) bool {
	for _, m := range tl.messages {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}
