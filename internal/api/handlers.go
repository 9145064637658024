package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/firecalc/internal/breakeven"
	"github.com/rgehrsitz/firecalc/internal/calculation"
	"github.com/rgehrsitz/firecalc/internal/compare"
	"github.com/rgehrsitz/firecalc/internal/config"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/urlstate"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// maxCompareTemplates bounds the work one compare request can trigger.
const maxCompareTemplates = 16

// defaultScenarioName is used when a request does not name its scenario.
const defaultScenarioName = "Web Scenario"

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	engine        *calculation.CalculationEngine
	parser        *config.InputParser
	logger        *zap.Logger
	metrics       *Metrics
	defaultPreset string
	publicURL     string
	version       string
}

// NewHandler creates a handler whose engine logs through logger.
func NewHandler(settings config.Settings, logger *zap.Logger, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger.Sugar())

	defaultPreset := settings.DefaultPreset
	if defaultPreset == "" {
		defaultPreset = domain.DefaultPresetName
	}
	return &Handler{
		engine:        engine,
		parser:        config.NewInputParser(),
		logger:        logger,
		defaultPreset: defaultPreset,
		publicURL:     settings.Server.PublicURL,
		version:       version,
	}
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// SimulateQuery runs a simulation from share-link query parameters. Missing
// or malformed keys fall back to the default preset.
// GET /api/simulate
func (h *Handler) SimulateQuery(w http.ResponseWriter, r *http.Request) {
	preset, err := domain.GetPreset(h.defaultPreset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "default preset unavailable", err)
		return
	}

	inputs := urlstate.Decode(r.URL.Query(), preset.Inputs)
	if err := h.parser.ValidateInputs(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid inputs", validationDetails(err))
		return
	}

	h.simulate(w, r, defaultScenarioName, inputs)
}

// Simulate runs a simulation from JSON inputs.
// POST /api/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req InputsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	scenario, ok := h.resolveScenario(w, req)
	if !ok {
		return
	}
	h.simulate(w, r, scenario.Name, scenario.Inputs)
}

func (h *Handler) simulate(w http.ResponseWriter, r *http.Request, name string, inputs domain.RetirementInputs) {
	report, err := h.engine.RunScenario(r.Context(), &domain.Scenario{Name: name, Inputs: inputs})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "simulation failed", err)
		return
	}
	h.metrics.ObserveSimulation(report.Result)

	writeJSON(w, http.StatusOK, SimulationResponse{
		Report:        report,
		Query:         urlstate.Encode(inputs),
		MatchedPreset: domain.MatchPreset(inputs),
	})
}

// ListPresets returns every preset in name order.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	names := domain.PresetNames()
	presets := make([]PresetDTO, 0, len(names))
	for _, name := range names {
		p, err := domain.GetPreset(name)
		if err != nil {
			continue
		}
		presets = append(presets, toPresetDTO(p))
	}
	writeJSON(w, http.StatusOK, presets)
}

// GetPreset returns a single preset.
// GET /api/presets/{name}
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := domain.GetPreset(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "preset not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toPresetDTO(p))
}

// Share encodes inputs into a share query and link.
// POST /api/share
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	var req InputsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	scenario, ok := h.resolveScenario(w, req)
	if !ok {
		return
	}

	link, err := urlstate.ShareURL(h.publicURL, scenario.Inputs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build share link", err)
		return
	}
	writeJSON(w, http.StatusOK, ShareResponse{Query: urlstate.Encode(scenario.Inputs), URL: link})
}

// Compare runs the inputs against each requested template.
// POST /api/compare
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Templates) == 0 {
		writeError(w, http.StatusBadRequest, "at least one template is required", nil)
		return
	}
	if len(req.Templates) > maxCompareTemplates {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d templates per request", maxCompareTemplates), nil)
		return
	}
	scenario, ok := h.resolveScenario(w, req.InputsRequest)
	if !ok {
		return
	}

	ce := compare.NewCompareEngine(h.engine)
	for _, name := range req.Templates {
		if _, found := ce.TemplateRegistry.Get(name); !found {
			writeError(w, http.StatusBadRequest, "unknown template", map[string]any{
				"template":  name,
				"available": ce.TemplateRegistry.List(),
			})
			return
		}
	}

	compSet, err := ce.Compare(r.Context(), scenario, compare.CompareOptions{Templates: req.Templates})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "comparison failed", err)
		return
	}
	writeJSON(w, http.StatusOK, compSet)
}

// Solve finds the input value that reaches FI by the requested age.
// POST /api/solve
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	target, err := breakeven.ParseTarget(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target", err)
		return
	}
	scenario, ok := h.resolveScenario(w, req.InputsRequest)
	if !ok {
		return
	}

	solver := breakeven.NewDefaultSolver(h.engine)
	if target == breakeven.OptimizeAll {
		result, err := solver.OptimizeAllTargets(r.Context(), scenario, req.TargetAge, req.Constraints)
		if err != nil {
			writeSolveError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := solver.Optimize(r.Context(), breakeven.OptimizationRequest{
		BaseScenario:        scenario,
		Target:              target,
		TargetRetirementAge: req.TargetAge,
		Constraints:         req.Constraints,
	})
	if err != nil {
		writeSolveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// resolveScenario seeds inputs from the named preset (or the default),
// overlays the request's inputs and validates the result. It writes the
// error response itself and reports ok=false on failure.
func (h *Handler) resolveScenario(w http.ResponseWriter, req InputsRequest) (*domain.Scenario, bool) {
	presetName := req.Preset
	if presetName == "" {
		presetName = h.defaultPreset
	}
	preset, err := domain.GetPreset(presetName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown preset", err)
		return nil, false
	}

	inputs, err := overlayInputs(preset.Inputs, req.Inputs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inputs JSON", err)
		return nil, false
	}
	if err := h.parser.ValidateInputs(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid inputs", validationDetails(err))
		return nil, false
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultScenarioName
	}
	return &domain.Scenario{Name: name, Preset: presetName, Inputs: inputs}, true
}

// overlayInputs applies a partial inputs document onto base. Scalars the
// document omits keep their base values. A list the document carries replaces
// the base list outright, so its elements never inherit fields from the
// preset's phases or overrides.
func overlayInputs(base domain.RetirementInputs, raw json.RawMessage) (domain.RetirementInputs, error) {
	inputs := base
	if len(raw) == 0 || string(raw) == "null" {
		return inputs, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return base, err
	}
	for key := range fields {
		switch {
		case strings.EqualFold(key, "contributionPhases"):
			inputs.ContributionPhases = nil
		case strings.EqualFold(key, "withdrawalOverrides"):
			inputs.WithdrawalOverrides = nil
		}
	}

	if err := json.Unmarshal(raw, &inputs); err != nil {
		return base, err
	}
	return inputs, nil
}

func toPresetDTO(p domain.Preset) PresetDTO {
	return PresetDTO{
		Name:        p.Name,
		Label:       p.Label,
		Description: p.Description,
		Inputs:      p.Inputs,
		Query:       urlstate.Encode(p.Inputs),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// validationDetails splits a joined validation error into one message per problem.
func validationDetails(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		errs := joined.Unwrap()
		details := make([]string, 0, len(errs))
		for _, e := range errs {
			details = append(details, e.Error())
		}
		return details
	}
	return []string{err.Error()}
}

func writeSolveError(w http.ResponseWriter, err error) {
	var beErr *breakeven.BreakEvenError
	if errors.As(err, &beErr) {
		writeError(w, http.StatusUnprocessableEntity, "goal cannot be solved", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "solver failed", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an ErrorResponse. details may be an error, which is
// rendered as its message, or any JSON-encodable value.
func writeError(w http.ResponseWriter, status int, message string, details any) {
	resp := ErrorResponse{Error: message}
	switch d := details.(type) {
	case nil:
	case error:
		resp.Details = d.Error()
	default:
		resp.Details = d
	}
	writeJSON(w, status, resp)
}
