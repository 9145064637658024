package output

import (
	"encoding/json"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// JSONFormatter emits the full report as indented JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAMLFormatter emits the full report as YAML.
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	return yaml.Marshal(report)
}
