package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rgehrsitz/firecalc/internal/calculation"
	"github.com/rgehrsitz/firecalc/internal/config"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/tui/components"
)

// Slider positions. The order is the on-screen order.
const (
	paramCurrentAge = iota
	paramLifeExpectancy
	paramInitialInvestment
	paramContribution
	paramSpend
	paramReturn
	paramInflation
	paramWithdrawalRate
	paramBuffer
	paramCount
)

const defaultScenarioName = "Interactive"

// Options configures a new model.
type Options struct {
	// ConfigPath, when set, loads a scenario file on Init.
	ConfigPath string
	// ScenarioName selects a scenario from the file; empty means the first.
	ScenarioName string
	// Preset seeds the inputs before any file is loaded. Empty means the
	// default preset.
	Preset string
	// Logger receives engine logs. Nil discards them.
	Logger *zap.Logger
}

// Model represents the entire application state
type Model struct {
	// Terminal dimensions
	width  int
	height int

	engine *calculation.CalculationEngine
	parser *config.InputParser

	configPath   string
	scenarioName string

	// The loaded inputs, restored by reset, and the inputs being edited.
	name     string
	original domain.RetirementInputs
	inputs   domain.RetirementInputs

	sliders []*components.ParameterSlider
	focused int

	// seq increments on every edit; only the matching result is shown.
	seq      int
	report   *domain.SimulationReport
	previous *domain.SimulationReport

	table *components.YearTable

	keys     keyMap
	help     help.Model
	showHelp bool

	// err is a load or simulation failure; invalid is a validation
	// problem with the current edit.
	err     error
	invalid error
}

// NewModel creates a model seeded from a preset.
func NewModel(opts Options) (Model, error) {
	presetName := opts.Preset
	if presetName == "" {
		presetName = domain.DefaultPresetName
	}
	preset, err := domain.GetPreset(presetName)
	if err != nil {
		return Model{}, err
	}

	engine := calculation.NewCalculationEngine()
	if opts.Logger != nil {
		engine.SetLogger(opts.Logger.Sugar())
	}

	m := Model{
		width:        80,
		height:       24,
		engine:       engine,
		parser:       config.NewInputParser(),
		configPath:   opts.ConfigPath,
		scenarioName: opts.ScenarioName,
		name:         defaultScenarioName,
		original:     preset.Inputs,
		inputs:       *preset.Inputs.DeepCopy(),
		table:        components.NewYearTable(tableWidth, 8),
		keys:         newKeyMap(),
		help:         help.New(),
	}
	m.sliders = newSliders()
	m.syncSliders()
	m.layout()
	return m, nil
}

// Init loads the scenario file, or simulates the preset when there is none.
func (m Model) Init() tea.Cmd {
	if m.configPath != "" {
		return loadScenarioCmd(m.parser, m.configPath, m.scenarioName)
	}
	return simulateCmd(m.engine, m.seq, m.name, m.inputs)
}

// Inputs returns the inputs currently being edited.
func (m Model) Inputs() domain.RetirementInputs {
	return m.inputs
}

// Report returns the latest simulation report, or nil before the first run.
func (m Model) Report() *domain.SimulationReport {
	return m.report
}

// loadScenarioCmd returns a command that reads one scenario from a file.
func loadScenarioCmd(parser *config.InputParser, path, name string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		scenario, err := cfg.FindScenario(name)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ScenarioLoadedMsg{Scenario: scenario.DeepCopy()}
	}
}

// simulateCmd returns a command that runs one simulation.
func simulateCmd(engine *calculation.CalculationEngine, seq int, name string, inputs domain.RetirementInputs) tea.Cmd {
	scenario := &domain.Scenario{Name: name, Inputs: *inputs.DeepCopy()}
	return func() tea.Msg {
		report, err := engine.RunScenario(context.Background(), scenario)
		return SimulationCompleteMsg{Seq: seq, Report: report, Err: err}
	}
}

func newSliders() []*components.ParameterSlider {
	s := make([]*components.ParameterSlider, paramCount)
	s[paramCurrentAge] = components.NewParameterSlider("Current Age", 30, 0, 100, 1).
		WithBigStep(5)
	s[paramLifeExpectancy] = components.NewParameterSlider("Life Expectancy", 90, 1, 120, 1).
		WithBigStep(5)
	s[paramInitialInvestment] = components.NewParameterSlider("Initial Investment", 0, 0, 5_000_000, 1_000).
		WithPrefix("$").WithBigStep(25_000)
	s[paramContribution] = components.NewParameterSlider("Monthly Contribution", 0, 0, 50_000, 100).
		WithPrefix("$").WithBigStep(1_000)
	s[paramSpend] = components.NewParameterSlider("Monthly Spend", 0, 0, 50_000, 100).
		WithPrefix("$").WithBigStep(1_000)
	s[paramReturn] = components.NewParameterSlider("Expected Return", 0, 0, 30, 0.25).
		WithPrecision(2).WithUnit("%").WithBigStep(1)
	s[paramInflation] = components.NewParameterSlider("Inflation", 0, 0, 15, 0.25).
		WithPrecision(2).WithUnit("%").WithBigStep(1)
	s[paramWithdrawalRate] = components.NewParameterSlider("Withdrawal Rate", 0, 0, 15, 0.1).
		WithPrecision(1).WithUnit("%").WithBigStep(1)
	s[paramBuffer] = components.NewParameterSlider("Buffer Multiplier", 1, 0.5, 3, 0.05).
		WithPrecision(2).WithUnit("x").WithBigStep(0.25)
	return s
}

// syncSliders copies the edited inputs into the sliders.
func (m *Model) syncSliders() {
	in := m.inputs
	m.sliders[paramCurrentAge].SetValue(float64(in.CurrentAge))
	m.sliders[paramLifeExpectancy].SetValue(float64(in.Horizon()))
	m.sliders[paramInitialInvestment].SetValue(in.InitialInvestment.InexactFloat64())
	m.sliders[paramContribution].SetValue(primaryContribution(in).InexactFloat64())
	m.sliders[paramSpend].SetValue(in.MonthlyRetirementSpend.InexactFloat64())
	m.sliders[paramReturn].SetValue(in.ExpectedYearlyReturn.InexactFloat64())
	m.sliders[paramInflation].SetValue(in.InflationRate.InexactFloat64())
	m.sliders[paramWithdrawalRate].SetValue(in.SafeWithdrawalRate.InexactFloat64())
	m.sliders[paramBuffer].SetValue(in.RetirementBufferMultiplier.InexactFloat64())
	for i, s := range m.sliders {
		s.SetFocused(i == m.focused)
	}
}

// applySlider writes one slider's value back into the inputs.
func (m *Model) applySlider(param int) {
	s := m.sliders[param]
	value := decimal.NewFromFloat(s.Value).Round(int32(s.Precision))

	switch param {
	case paramCurrentAge:
		m.inputs = domain.ShiftCurrentAge(m.inputs, int(s.Value))
	case paramLifeExpectancy:
		m.inputs.LifeExpectancy = domain.IntPtr(int(s.Value))
	case paramInitialInvestment:
		m.inputs.InitialInvestment = value
	case paramContribution:
		m.inputs = setPrimaryContribution(m.inputs, value)
	case paramSpend:
		m.inputs.MonthlyRetirementSpend = value
	case paramReturn:
		m.inputs.ExpectedYearlyReturn = value
	case paramInflation:
		m.inputs.InflationRate = value
	case paramWithdrawalRate:
		m.inputs.SafeWithdrawalRate = value
	case paramBuffer:
		m.inputs.RetirementBufferMultiplier = value
	}
}

// primaryPhase is the index of the earliest-starting contribution phase, or
// -1 when there are none.
func primaryPhase(in domain.RetirementInputs) int {
	idx := -1
	for i, p := range in.ContributionPhases {
		if idx < 0 || p.StartAge < in.ContributionPhases[idx].StartAge {
			idx = i
		}
	}
	return idx
}

func primaryContribution(in domain.RetirementInputs) decimal.Decimal {
	if i := primaryPhase(in); i >= 0 {
		return in.ContributionPhases[i].MonthlyContribution
	}
	return decimal.Zero
}

// setPrimaryContribution edits the earliest phase. With no phases, a
// positive amount opens one at the current age.
func setPrimaryContribution(in domain.RetirementInputs, monthly decimal.Decimal) domain.RetirementInputs {
	out := *in.DeepCopy()
	if i := primaryPhase(out); i >= 0 {
		out.ContributionPhases[i].MonthlyContribution = monthly
		return out
	}
	if monthly.IsPositive() {
		out.ContributionPhases = append(out.ContributionPhases, domain.ContributionPhase{
			StartAge:            out.CurrentAge,
			MonthlyContribution: monthly,
		})
	}
	return out
}

// recalculate validates the current inputs and, when they pass, schedules
// a simulation tagged with a fresh sequence number.
func (m *Model) recalculate() tea.Cmd {
	m.seq++
	if err := m.parser.ValidateInputs(&m.inputs); err != nil {
		m.invalid = err
		return nil
	}
	m.invalid = nil
	return simulateCmd(m.engine, m.seq, m.name, m.inputs)
}

// presetLabel names the preset the inputs match, or "custom".
func (m Model) presetLabel() string {
	if name := domain.MatchPreset(m.inputs); name != "" {
		return name
	}
	return "custom"
}

// nextPreset returns the preset after the matched one, wrapping around.
// Customized inputs move to the first preset.
func nextPreset(current string) string {
	names := domain.PresetNames()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
