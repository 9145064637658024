package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []InputTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template categories, in help order.
const (
	CategorySpending   = "Spending"
	CategorySaving     = "Saving"
	CategoryWithdrawal = "Withdrawal"
	CategoryMarket     = "Market"
	CategoryModel      = "Model"
	CategoryPresets    = "Preset Assumptions"
)

var categoryOrder = []string{CategorySpending, CategorySaving, CategoryWithdrawal, CategoryMarket, CategoryModel, CategoryPresets}

// CreateBuiltInTemplates creates a template registry with common FIRE what-ifs
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "lean_fire",
		Category:    CategorySpending,
		Description: "Lean FIRE: spend 25% less in retirement",
		Transforms:  []InputTransform{&ScaleSpend{Factor: decimal.RequireFromString("0.75")}},
	})
	registry.Register(Template{
		Name:        "fat_fire",
		Category:    CategorySpending,
		Description: "Fat FIRE: spend 50% more in retirement",
		Transforms:  []InputTransform{&ScaleSpend{Factor: decimal.RequireFromString("1.5")}},
	})

	registry.Register(Template{
		Name:        "save_more_10pct",
		Category:    CategorySaving,
		Description: "Raise every monthly contribution by 10%",
		Transforms:  []InputTransform{&ScaleContributions{Factor: decimal.RequireFromString("1.1")}},
	})
	registry.Register(Template{
		Name:        "save_more_25pct",
		Category:    CategorySaving,
		Description: "Raise every monthly contribution by 25%",
		Transforms:  []InputTransform{&ScaleContributions{Factor: decimal.RequireFromString("1.25")}},
	})

	registry.Register(Template{
		Name:        "swr_3_5",
		Category:    CategoryWithdrawal,
		Description: "Withdraw 3.5% a year",
		Transforms:  []InputTransform{&SetWithdrawalRate{Rate: decimal.RequireFromString("3.5")}},
	})
	registry.Register(Template{
		Name:        "swr_3",
		Category:    CategoryWithdrawal,
		Description: "Withdraw 3% a year",
		Transforms:  []InputTransform{&SetWithdrawalRate{Rate: decimal.NewFromInt(3)}},
	})
	registry.Register(Template{
		Name:        "buffer_20pct",
		Category:    CategoryWithdrawal,
		Description: "Require a 20% cushion over the FI target",
		Transforms:  []InputTransform{&SetBuffer{Multiplier: decimal.RequireFromString("1.2")}},
	})

	registry.Register(Template{
		Name:        "bear_market",
		Category:    CategoryMarket,
		Description: "Expected return 2 points lower",
		Transforms:  []InputTransform{&AdjustReturn{Delta: decimal.NewFromInt(-2)}},
	})
	registry.Register(Template{
		Name:        "bull_market",
		Category:    CategoryMarket,
		Description: "Expected return 2 points higher",
		Transforms:  []InputTransform{&AdjustReturn{Delta: decimal.NewFromInt(2)}},
	})

	registry.Register(Template{
		Name:        "nominal",
		Category:    CategoryModel,
		Description: "Project in nominal dollars (ignore inflation)",
		Transforms:  []InputTransform{&SetInflationMode{Mode: domain.InflationModeNominal}},
	})
	registry.Register(Template{
		Name:        "yearly_compounding",
		Category:    CategoryModel,
		Description: "Compound growth once a year instead of monthly",
		Transforms:  []InputTransform{&SetCompounding{Interval: domain.CompoundingYearly}},
	})

	for _, name := range domain.PresetNames() {
		preset, _ := domain.GetPreset(name)
		registry.Register(Template{
			Name:        name,
			Category:    CategoryPresets,
			Description: fmt.Sprintf("%s assumptions: %s", preset.Label, preset.Description),
			Transforms:  []InputTransform{&ApplyPresetAssumptions{Preset: name}},
		})
	}

	return registry
}

// ApplyTemplate applies a template to a base scenario. The result is named
// after the template.
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	out, err := ApplyTransforms(base, template.Transforms)
	if err != nil {
		return nil, err
	}
	out.Name = template.Name
	out.Description = template.Description
	return out, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := t.Category
		if category == "" {
			category = "Other"
		}
		categories[category] = append(categories[category], t)
	}

	for _, category := range append(categoryOrder, "Other") {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  firecalc compare plan.yaml --with lean_fire,save_more_10pct\n")
	sb.WriteString("  firecalc compare plan.yaml --with conservative,aggressive\n")

	return sb.String()
}
