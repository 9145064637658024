package api

import (
	"encoding/json"

	"github.com/rgehrsitz/firecalc/internal/breakeven"
	"github.com/rgehrsitz/firecalc/internal/domain"
)

// InputsRequest names a preset to seed from and a partial set of inputs
// laid over it. Fields absent from Inputs keep the preset's values; lists
// that are present replace the preset's.
type InputsRequest struct {
	Name   string          `json:"name,omitempty"`
	Preset string          `json:"preset,omitempty"`
	Inputs json.RawMessage `json:"inputs,omitempty"`
}

// CompareRequest runs one alternative per template against the inputs.
type CompareRequest struct {
	InputsRequest
	Templates []string `json:"templates"`
}

// SolveRequest asks for the input value that reaches FI by TargetAge.
type SolveRequest struct {
	InputsRequest
	Target      string                `json:"target"`
	TargetAge   int                   `json:"targetAge"`
	Constraints breakeven.Constraints `json:"constraints"`
}

// SimulationResponse is the report plus the share query that reproduces it.
type SimulationResponse struct {
	Report        *domain.SimulationReport `json:"report"`
	Query         string                   `json:"query"`
	MatchedPreset string                   `json:"matchedPreset,omitempty"`
}

// ShareResponse carries an encoded query and the full link built from it.
type ShareResponse struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

// PresetDTO describes one preset.
type PresetDTO struct {
	Name        string                  `json:"name"`
	Label       string                  `json:"label"`
	Description string                  `json:"description"`
	Inputs      domain.RetirementInputs `json:"inputs"`
	Query       string                  `json:"query"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
