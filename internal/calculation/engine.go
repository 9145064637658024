package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
)

// CalculationEngine runs simulations for scenarios and reports on them.
// It holds no per-run state and is safe for concurrent use.
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger replaces the engine's logger. Passing nil restores the no-op logger.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// Simulate runs SimulateRetirement and logs a summary of the outcome.
func (ce *CalculationEngine) Simulate(inputs domain.RetirementInputs) *domain.SimulationResult {
	log := ce.logger()
	log.Debugf("simulating from age %d to %d (%d phases, %d overrides)",
		inputs.CurrentAge, inputs.Horizon(), len(inputs.ContributionPhases), len(inputs.WithdrawalOverrides))

	result := SimulateRetirement(inputs)

	if result.FITargetUnbounded {
		log.Warnf("safe withdrawal rate is zero; FI target is unbounded")
	}
	if age := result.DepletionAge(); age != nil {
		log.Warnf("portfolio depleted at age %d", *age)
	}
	log.Debugf("FI target %s, retirement age %s, %d rows",
		money.FormatCurrency(result.FITarget), result.RetirementAgeLabel(), len(result.Rows))
	return result
}

// RunScenario simulates a configured scenario and derives its report.
func (ce *CalculationEngine) RunScenario(ctx context.Context, scenario *domain.Scenario) (*domain.SimulationReport, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ce.logger().Infof("running scenario %q", scenario.Name)
	result := ce.Simulate(scenario.Inputs)
	return domain.NewSimulationReport(scenario.Name, scenario.Inputs, result), nil
}

// RunScenarioAuto runs the scenario at index in the configuration.
func (ce *CalculationEngine) RunScenarioAuto(ctx context.Context, config *domain.Configuration, index int) (*domain.SimulationReport, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if index < 0 || index >= len(config.Scenarios) {
		return nil, fmt.Errorf("scenario index %d out of range (0-%d)", index, len(config.Scenarios)-1)
	}
	return ce.RunScenario(ctx, &config.Scenarios[index])
}

// RunScenarios runs every scenario in the configuration in file order.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) ([]*domain.SimulationReport, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	reports := make([]*domain.SimulationReport, 0, len(config.Scenarios))
	for i := range config.Scenarios {
		report, err := ce.RunScenario(ctx, &config.Scenarios[i])
		if err != nil {
			return nil, fmt.Errorf("failed to run scenario %s: %w", config.Scenarios[i].Name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
