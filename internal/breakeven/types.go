package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines which input the solver searches over
type OptimizationTarget string

const (
	OptimizeContribution   OptimizationTarget = "monthly_contribution"
	OptimizeSpend          OptimizationTarget = "monthly_spend"
	OptimizeWithdrawalRate OptimizationTarget = "withdrawal_rate"
	OptimizeAll            OptimizationTarget = "all"
)

// AllTargets lists the single-input targets in solve order.
var AllTargets = []OptimizationTarget{OptimizeContribution, OptimizeSpend, OptimizeWithdrawalRate}

// ParseTarget maps a CLI or API name onto a target.
func ParseTarget(name string) (OptimizationTarget, error) {
	switch t := OptimizationTarget(name); t {
	case OptimizeContribution, OptimizeSpend, OptimizeWithdrawalRate, OptimizeAll:
		return t, nil
	case "contribution":
		return OptimizeContribution, nil
	case "spend":
		return OptimizeSpend, nil
	case "swr", "rate":
		return OptimizeWithdrawalRate, nil
	default:
		return "", &BreakEvenError{
			Operation: "parse_target",
			Message:   fmt.Sprintf("unknown optimization target %q (use monthly_contribution, monthly_spend, withdrawal_rate or all)", name),
		}
	}
}

// Constraints define the search bounds for each target. Nil bounds use the
// solver defaults.
type Constraints struct {
	// Extra monthly contribution, added as an open-ended phase from the current age
	MinContribution *decimal.Decimal `json:"min_contribution,omitempty"`
	MaxContribution *decimal.Decimal `json:"max_contribution,omitempty"`

	// Monthly retirement spend
	MinSpend *decimal.Decimal `json:"min_spend,omitempty"`
	MaxSpend *decimal.Decimal `json:"max_spend,omitempty"`

	// Safe withdrawal rate in percent
	MinWithdrawalRate *decimal.Decimal `json:"min_withdrawal_rate,omitempty"`
	MaxWithdrawalRate *decimal.Decimal `json:"max_withdrawal_rate,omitempty"`
}

var (
	defaultMaxMonthly = decimal.NewFromInt(1000000)
	hundred           = decimal.NewFromInt(100)
)

// bounds returns the search interval for target.
func (c *Constraints) bounds(target OptimizationTarget) (decimal.Decimal, decimal.Decimal) {
	pick := func(p *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
		if p != nil {
			return *p
		}
		return fallback
	}
	switch target {
	case OptimizeContribution:
		return pick(c.MinContribution, decimal.Zero), pick(c.MaxContribution, defaultMaxMonthly)
	case OptimizeSpend:
		return pick(c.MinSpend, decimal.Zero), pick(c.MaxSpend, defaultMaxMonthly)
	default:
		return pick(c.MinWithdrawalRate, decimal.Zero), pick(c.MaxWithdrawalRate, hundred)
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	BaseScenario        *domain.Scenario   `json:"-"`
	Target              OptimizationTarget `json:"target"`
	TargetRetirementAge int                `json:"target_retirement_age"`
	Constraints         Constraints        `json:"constraints"`
	MaxIterations       int                `json:"max_iterations,omitempty"`
	Tolerance           decimal.Decimal    `json:"tolerance,omitempty"` // Convergence tolerance for binary search
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	// Optimization metadata
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// Solved input; exactly one is set
	OptimalContribution   *decimal.Decimal `json:"optimal_contribution,omitempty"`
	OptimalSpend          *decimal.Decimal `json:"optimal_spend,omitempty"`
	OptimalWithdrawalRate *decimal.Decimal `json:"optimal_withdrawal_rate,omitempty"`

	// Results at the solved input
	Report            *domain.SimulationReport `json:"report,omitempty"`
	RetirementAge     *int                     `json:"retirement_age"`
	FITarget          decimal.Decimal          `json:"fi_target"`
	FinalPortfolio    decimal.Decimal          `json:"final_portfolio"`
	BaseRetirementAge *int                     `json:"base_retirement_age"`
}

// OptimalValue returns whichever solved input is set.
func (r *OptimizationResult) OptimalValue() (decimal.Decimal, bool) {
	switch {
	case r.OptimalContribution != nil:
		return *r.OptimalContribution, true
	case r.OptimalSpend != nil:
		return *r.OptimalSpend, true
	case r.OptimalWithdrawalRate != nil:
		return *r.OptimalWithdrawalRate, true
	default:
		return decimal.Zero, false
	}
}

// MultiTargetResult contains one result per target solved for the same goal age
type MultiTargetResult struct {
	TargetRetirementAge int                           `json:"target_retirement_age"`
	Results             []OptimizationResult          `json:"results"`
	Failures            map[OptimizationTarget]string `json:"failures,omitempty"`
	Recommendations     []string                      `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	DollarTolerance decimal.Decimal // Convergence tolerance for contribution and spend, in dollars per month
	RateTolerance   decimal.Decimal // Convergence tolerance for the withdrawal rate, in percentage points
	MaxIterations   int             // Maximum binary search iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		DollarTolerance: decimal.NewFromInt(1),
		RateTolerance:   decimal.RequireFromString("0.01"),
		MaxIterations:   60,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	type span struct {
		name     string
		min, max *decimal.Decimal
	}
	spans := []span{
		{"contribution", c.MinContribution, c.MaxContribution},
		{"spend", c.MinSpend, c.MaxSpend},
		{"withdrawal_rate", c.MinWithdrawalRate, c.MaxWithdrawalRate},
	}

	for _, s := range spans {
		for _, bound := range []*decimal.Decimal{s.min, s.max} {
			if bound != nil && bound.IsNegative() {
				return &BreakEvenError{
					Operation: "validate_constraints",
					Message:   fmt.Sprintf("%s bounds cannot be negative", s.name),
				}
			}
		}
		if s.min != nil && s.max != nil && s.min.GreaterThan(*s.max) {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   fmt.Sprintf("min_%s cannot be greater than max_%s", s.name, s.name),
			}
		}
	}

	if c.MaxWithdrawalRate != nil && c.MaxWithdrawalRate.GreaterThan(hundred) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_withdrawal_rate cannot exceed 100",
		}
	}

	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
