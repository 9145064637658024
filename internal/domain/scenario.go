package domain

import "fmt"

// Scenario is a named set of inputs loaded from a configuration file.
// When Preset is set, the preset's inputs seed every field the file omits.
type Scenario struct {
	Name        string           `yaml:"name" json:"name"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Preset      string           `yaml:"preset,omitempty" json:"preset,omitempty"`
	Inputs      RetirementInputs `yaml:",inline" json:"inputs"`
}

// DeepCopy returns an independent copy of the scenario.
func (s *Scenario) DeepCopy() *Scenario {
	if s == nil {
		return nil
	}
	out := *s
	out.Inputs = *s.Inputs.DeepCopy()
	return &out
}

// Configuration is the top-level scenario file.
type Configuration struct {
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// FindScenario returns the scenario with the given name. An empty name
// selects the first scenario.
func (c *Configuration) FindScenario(name string) (*Scenario, error) {
	if len(c.Scenarios) == 0 {
		return nil, fmt.Errorf("configuration has no scenarios")
	}
	if name == "" {
		return &c.Scenarios[0], nil
	}
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found", name)
}

// ScenarioNames lists scenario names in file order.
func (c *Configuration) ScenarioNames() []string {
	names := make([]string, len(c.Scenarios))
	for i, s := range c.Scenarios {
		names[i] = s.Name
	}
	return names
}
