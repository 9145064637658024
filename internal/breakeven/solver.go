package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/calculation"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/transform"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver searches for the input value that reaches FI by a goal age
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver. A nil engine gets a default one.
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// searchPlan describes one monotone search. feasibleAbove means every value
// above a feasible one is also feasible, so the solver looks for the smallest
// feasible value; otherwise it looks for the largest.
type searchPlan struct {
	operation     string
	feasibleAbove bool
	build         func(value decimal.Decimal) []transform.InputTransform
	assign        func(result *OptimizationResult, value decimal.Decimal)
	tolerance     decimal.Decimal
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.BaseScenario == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "base scenario cannot be nil"}
	}

	inputs := req.BaseScenario.Inputs
	if req.TargetRetirementAge < inputs.CurrentAge || req.TargetRetirementAge > inputs.Horizon() {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message: fmt.Sprintf("target retirement age %d must be between current age %d and %d",
				req.TargetRetirementAge, inputs.CurrentAge, inputs.Horizon()),
		}
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}

	plan, err := s.planFor(req)
	if err != nil {
		return nil, err
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = plan.tolerance
	}

	return s.search(ctx, req, plan)
}

func (s *Solver) planFor(req OptimizationRequest) (searchPlan, error) {
	switch req.Target {
	case OptimizeContribution:
		startAge := req.BaseScenario.Inputs.CurrentAge
		return searchPlan{
			operation:     "optimize_contribution",
			feasibleAbove: true,
			tolerance:     s.Options.DollarTolerance,
			build: func(v decimal.Decimal) []transform.InputTransform {
				if v.IsZero() {
					return nil
				}
				return []transform.InputTransform{&transform.AddContributionPhase{StartAge: startAge, Monthly: v}}
			},
			assign: func(r *OptimizationResult, v decimal.Decimal) { r.OptimalContribution = &v },
		}, nil
	case OptimizeSpend:
		return searchPlan{
			operation:     "optimize_spend",
			feasibleAbove: false,
			tolerance:     s.Options.DollarTolerance,
			build: func(v decimal.Decimal) []transform.InputTransform {
				return []transform.InputTransform{&transform.SetSpend{Monthly: v}}
			},
			assign: func(r *OptimizationResult, v decimal.Decimal) { r.OptimalSpend = &v },
		}, nil
	case OptimizeWithdrawalRate:
		return searchPlan{
			operation:     "optimize_withdrawal_rate",
			feasibleAbove: true,
			tolerance:     s.Options.RateTolerance,
			build: func(v decimal.Decimal) []transform.InputTransform {
				return []transform.InputTransform{&transform.SetWithdrawalRate{Rate: v}}
			},
			assign: func(r *OptimizationResult, v decimal.Decimal) { r.OptimalWithdrawalRate = &v },
		}, nil
	default:
		return searchPlan{}, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// search runs a bisection keeping one bound feasible and the other
// infeasible until they are within tolerance.
func (s *Solver) search(ctx context.Context, req OptimizationRequest, plan searchPlan) (*OptimizationResult, error) {
	lo, hi := req.Constraints.bounds(req.Target)
	iterations := 0

	evaluate := func(v decimal.Decimal) (*domain.SimulationReport, bool, error) {
		iterations++
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		report, err := s.evaluate(ctx, req, plan, v)
		if err != nil {
			return nil, false, err
		}
		return report, meetsGoal(report, req.TargetRetirementAge), nil
	}

	// Check the bound that is most likely to succeed first
	best, worst := hi, lo
	if !plan.feasibleAbove {
		best, worst = lo, hi
	}

	_, ok, err := evaluate(best)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &BreakEvenError{
			Operation: plan.operation,
			Message: fmt.Sprintf("cannot retire by age %d with %s at %s",
				req.TargetRetirementAge, req.Target, best),
		}
	}

	_, ok, err = evaluate(worst)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.finish(ctx, req, plan, worst, iterations,
			fmt.Sprintf("Goal already met at the %s bound", boundName(plan.feasibleAbove)))
	}

	feasible, infeasible := best, worst
	for iterations < req.MaxIterations && feasible.Sub(infeasible).Abs().GreaterThan(req.Tolerance) {
		mid := feasible.Add(infeasible).Div(two)
		_, ok, err := evaluate(mid)
		if err != nil {
			return nil, err
		}
		if ok {
			feasible = mid
		} else {
			infeasible = mid
		}
	}

	info := fmt.Sprintf("Binary search converged within %s", req.Tolerance)
	if feasible.Sub(infeasible).Abs().GreaterThan(req.Tolerance) {
		info = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	}

	// Round toward the feasible side so the reported value still meets the goal
	if plan.feasibleAbove {
		feasible = feasible.RoundCeil(2)
	} else {
		feasible = feasible.RoundFloor(2)
	}
	return s.finish(ctx, req, plan, feasible, iterations, info)
}

func (s *Solver) finish(
	ctx context.Context,
	req OptimizationRequest,
	plan searchPlan,
	value decimal.Decimal,
	iterations int,
	info string,
) (*OptimizationResult, error) {
	report, err := s.evaluate(ctx, req, plan, value)
	if err != nil {
		return nil, err
	}
	baseResult := s.CalcEngine.Simulate(req.BaseScenario.Inputs)

	result := &OptimizationResult{
		Request:           req,
		Success:           meetsGoal(report, req.TargetRetirementAge),
		Iterations:        iterations,
		ConvergenceInfo:   info,
		Report:            report,
		RetirementAge:     report.Result.RetirementAge,
		FITarget:          report.Result.FITarget,
		FinalPortfolio:    report.Metrics.FinalPortfolio,
		BaseRetirementAge: baseResult.RetirementAge,
	}
	plan.assign(result, value)
	return result, nil
}

func (s *Solver) evaluate(ctx context.Context, req OptimizationRequest, plan searchPlan, value decimal.Decimal) (*domain.SimulationReport, error) {
	modified, err := transform.ApplyTransforms(req.BaseScenario, plan.build(value))
	if err != nil {
		return nil, &BreakEvenError{
			Operation: plan.operation,
			Message:   fmt.Sprintf("failed to apply %s", value),
			Cause:     err,
		}
	}
	report, err := s.CalcEngine.RunScenario(ctx, modified)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: plan.operation,
			Message:   "failed to calculate scenario",
			Cause:     err,
		}
	}
	return report, nil
}

func meetsGoal(report *domain.SimulationReport, targetAge int) bool {
	age := report.Result.RetirementAge
	return age != nil && *age <= targetAge
}

func boundName(feasibleAbove bool) string {
	if feasibleAbove {
		return "minimum"
	}
	return "maximum"
}

// describeValue renders a solved value in its target's units.
func describeValue(target OptimizationTarget, v decimal.Decimal) string {
	if target == OptimizeWithdrawalRate {
		return money.FormatPercent(v, 2)
	}
	return "$" + v.StringFixed(2) + "/month"
}
