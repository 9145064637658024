package breakeven

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
)

// OptimizeAllTargets solves every single-input target for the same goal age
// and collects the ones that can be met.
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	baseScenario *domain.Scenario,
	targetAge int,
	constraints Constraints,
) (*MultiTargetResult, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	mt := &MultiTargetResult{
		TargetRetirementAge: targetAge,
		Failures:            map[OptimizationTarget]string{},
	}

	for _, target := range AllTargets {
		result, err := s.Optimize(ctx, OptimizationRequest{
			BaseScenario:        baseScenario,
			Target:              target,
			TargetRetirementAge: targetAge,
			Constraints:         constraints,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// Record and continue with the other targets
			mt.Failures[target] = err.Error()
			continue
		}
		mt.Results = append(mt.Results, *result)
	}

	if len(mt.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_all_targets",
			Message:   fmt.Sprintf("no target can reach FI by age %d", targetAge),
		}
	}

	mt.Recommendations = generateMultiTargetRecommendations(mt)
	return mt, nil
}

// generateMultiTargetRecommendations phrases each solved target as an action
func generateMultiTargetRecommendations(mt *MultiTargetResult) []string {
	var recommendations []string

	for _, r := range mt.Results {
		value, ok := r.OptimalValue()
		if !ok {
			continue
		}
		switch r.Request.Target {
		case OptimizeContribution:
			if value.IsZero() {
				recommendations = append(recommendations,
					fmt.Sprintf("Current savings already reach FI by age %d", mt.TargetRetirementAge))
			} else {
				recommendations = append(recommendations,
					fmt.Sprintf("Save an extra %s to reach FI by age %d",
						describeValue(r.Request.Target, value), mt.TargetRetirementAge))
			}
		case OptimizeSpend:
			recommendations = append(recommendations,
				fmt.Sprintf("Keep retirement spending at or below %s", describeValue(r.Request.Target, value)))
		case OptimizeWithdrawalRate:
			recommendations = append(recommendations,
				fmt.Sprintf("A withdrawal rate of at least %s reaches FI by age %d",
					describeValue(r.Request.Target, value), mt.TargetRetirementAge))
		}
	}

	return recommendations
}
