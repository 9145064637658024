package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/calculation"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/transform"
	"golang.org/x/sync/errgroup"
)

// defaultMaxConcurrency bounds how many alternatives simulate at once.
const defaultMaxConcurrency = 4

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	MaxConcurrency    int
}

// NewCompareEngine creates a new comparison engine. A nil calculation engine
// gets a default one.
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		MaxConcurrency:    defaultMaxConcurrency,
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates []string // Template names to apply to the base, one alternative each
}

type alternative struct {
	scenario    *domain.Scenario
	description string
}

// Compare runs the base scenario and one alternative per template. The
// alternatives simulate concurrently; results keep the template order.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base *domain.Scenario,
	options CompareOptions,
) (*ComparisonSet, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	alts := make([]alternative, 0, len(options.Templates))
	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = base.Name + "_" + template.Name
		alts = append(alts, alternative{scenario: modified, description: template.Description})
	}

	return ce.run(ctx, base, alts)
}

// CompareScenarios compares explicit scenarios from a configuration (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	base, err := config.FindScenario(baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("base scenario: %w", err)
	}

	alts := make([]alternative, 0, len(alternativeScenarioNames))
	for _, altName := range alternativeScenarioNames {
		scenario, err := config.FindScenario(altName)
		if err != nil {
			return nil, fmt.Errorf("alternative scenario: %w", err)
		}
		alts = append(alts, alternative{scenario: scenario, description: scenario.Description})
	}

	return ce.run(ctx, base, alts)
}

func (ce *CompareEngine) run(ctx context.Context, base *domain.Scenario, alts []alternative) (*ComparisonSet, error) {
	baseReport, err := ce.CalcEngine.RunScenario(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseReport)
	baseResult.Description = base.Description

	alternatives := make([]ComparisonResult, len(alts))
	g, gctx := errgroup.WithContext(ctx)
	limit := ce.MaxConcurrency
	if limit <= 0 {
		limit = defaultMaxConcurrency
	}
	g.SetLimit(limit)

	for i, alt := range alts {
		i, alt := i, alt
		g.Go(func() error {
			report, err := ce.CalcEngine.RunScenario(gctx, alt.scenario)
			if err != nil {
				return fmt.Errorf("failed to calculate scenario %s: %w", alt.scenario.Name, err)
			}
			result := ce.MetricsCalculator.CalculateMetrics(report)
			result.Description = alt.description
			alternatives[i] = ce.MetricsCalculator.CalculateComparison(result, baseResult)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
