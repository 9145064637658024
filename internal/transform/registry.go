package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (InputTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	// Market assumptions
	registry.Register("set_return", decimalFactory("set_return", "rate", func(d decimal.Decimal) InputTransform { return &SetReturn{Rate: d} }))
	registry.Register("adjust_return", decimalFactory("adjust_return", "delta", func(d decimal.Decimal) InputTransform { return &AdjustReturn{Delta: d} }))
	registry.Register("set_inflation", decimalFactory("set_inflation", "rate", func(d decimal.Decimal) InputTransform { return &SetInflation{Rate: d} }))
	registry.Register("set_mode", createSetInflationMode)
	registry.Register("set_compounding", createSetCompounding)
	registry.Register("apply_preset", createApplyPreset)

	// Withdrawal and spending
	registry.Register("set_swr", decimalFactory("set_swr", "rate", func(d decimal.Decimal) InputTransform { return &SetWithdrawalRate{Rate: d} }))
	registry.Register("set_buffer", decimalFactory("set_buffer", "multiplier", func(d decimal.Decimal) InputTransform { return &SetBuffer{Multiplier: d} }))
	registry.Register("set_spend", decimalFactory("set_spend", "amount", func(d decimal.Decimal) InputTransform { return &SetSpend{Monthly: d} }))
	registry.Register("scale_spend", decimalFactory("scale_spend", "factor", func(d decimal.Decimal) InputTransform { return &ScaleSpend{Factor: d} }))
	registry.Register("add_override", createAddWithdrawalOverride)

	// Contributions
	registry.Register("scale_contributions", decimalFactory("scale_contributions", "factor", func(d decimal.Decimal) InputTransform { return &ScaleContributions{Factor: d} }))
	registry.Register("add_phase", createAddContributionPhase)
	registry.Register("set_current_age", createSetCurrentAge)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (InputTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "add_phase:start=40,end=50,amount=1500"
func (r *TransformRegistry) ParseTransformSpec(spec string) (InputTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses several specs in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]InputTransform, error) {
	transforms := make([]InputTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

// Factory functions for each transform

func decimalFactory(name, key string, build func(decimal.Decimal) InputTransform) TransformFactory {
	return func(params map[string]string) (InputTransform, error) {
		value, err := requireDecimal(params, name, key)
		if err != nil {
			return nil, err
		}
		return build(value), nil
	}
}

func requireDecimal(params map[string]string, name, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", name, key)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return value, nil
}

func requireInt(params map[string]string, name, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", name, key)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return value, nil
}

func optionalInt(params map[string]string, key string) (*int, error) {
	raw, ok := params[key]
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return &value, nil
}

func createSetInflationMode(params map[string]string) (InputTransform, error) {
	raw, ok := params["mode"]
	if !ok {
		return nil, fmt.Errorf("set_mode requires 'mode' parameter")
	}
	mode, err := domain.ParseInflationMode(raw)
	if err != nil {
		return nil, err
	}
	return &SetInflationMode{Mode: mode}, nil
}

func createSetCompounding(params map[string]string) (InputTransform, error) {
	raw, ok := params["interval"]
	if !ok {
		return nil, fmt.Errorf("set_compounding requires 'interval' parameter")
	}
	interval, err := domain.ParseCompoundingInterval(raw)
	if err != nil {
		return nil, err
	}
	return &SetCompounding{Interval: interval}, nil
}

func createApplyPreset(params map[string]string) (InputTransform, error) {
	name, ok := params["name"]
	if !ok {
		return nil, fmt.Errorf("apply_preset requires 'name' parameter")
	}
	return &ApplyPresetAssumptions{Preset: name}, nil
}

func createAddWithdrawalOverride(params map[string]string) (InputTransform, error) {
	start, err := requireInt(params, "add_override", "start")
	if err != nil {
		return nil, err
	}
	end, err := optionalInt(params, "end")
	if err != nil {
		return nil, err
	}
	rate, err := requireDecimal(params, "add_override", "rate")
	if err != nil {
		return nil, err
	}
	return &AddWithdrawalOverride{StartAge: start, EndAge: end, Rate: rate}, nil
}

func createAddContributionPhase(params map[string]string) (InputTransform, error) {
	start, err := requireInt(params, "add_phase", "start")
	if err != nil {
		return nil, err
	}
	end, err := optionalInt(params, "end")
	if err != nil {
		return nil, err
	}
	amount, err := requireDecimal(params, "add_phase", "amount")
	if err != nil {
		return nil, err
	}
	return &AddContributionPhase{StartAge: start, EndAge: end, Monthly: amount}, nil
}

func createSetCurrentAge(params map[string]string) (InputTransform, error) {
	age, err := requireInt(params, "set_current_age", "age")
	if err != nil {
		return nil, err
	}
	return &SetCurrentAge{Age: age}, nil
}
