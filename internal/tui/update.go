package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/tui/components"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case ScenarioLoadedMsg:
		if msg.Scenario == nil {
			return m, nil
		}
		m.name = msg.Scenario.Name
		m.original = *msg.Scenario.Inputs.DeepCopy()
		m.inputs = *msg.Scenario.Inputs.DeepCopy()
		m.syncSliders()
		m.previous = nil
		return m, m.recalculate()

	case SimulationCompleteMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.previous = m.report
		m.report = msg.Report
		if msg.Report != nil {
			m.table.SetResult(msg.Report.Result)
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Any other key dismisses an error.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.focus(m.focused - 1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.focus(m.focused + 1)
		return m, nil

	case key.Matches(msg, m.keys.Decrease):
		return m.adjust((*components.ParameterSlider).Decrement)

	case key.Matches(msg, m.keys.Increase):
		return m.adjust((*components.ParameterSlider).Increment)

	case key.Matches(msg, m.keys.DecreaseBy):
		return m.adjust((*components.ParameterSlider).DecrementBig)

	case key.Matches(msg, m.keys.IncreaseBy):
		return m.adjust((*components.ParameterSlider).IncrementBig)

	case key.Matches(msg, m.keys.Preset):
		inputs, err := domain.ApplyPreset(m.inputs, nextPreset(domain.MatchPreset(m.inputs)))
		if err != nil {
			m.err = err
			return m, nil
		}
		m.inputs = inputs
		m.syncSliders()
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Mode):
		if m.inputs.InflationMode == domain.InflationModeReal {
			m.inputs.InflationMode = domain.InflationModeNominal
		} else {
			m.inputs.InflationMode = domain.InflationModeReal
		}
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Compound):
		if m.inputs.CompoundingInterval == domain.CompoundingYearly {
			m.inputs.CompoundingInterval = domain.CompoundingMonthly
		} else {
			m.inputs.CompoundingInterval = domain.CompoundingYearly
		}
		return m, m.recalculate()

	case key.Matches(msg, m.keys.Reset):
		m.inputs = *m.original.DeepCopy()
		m.syncSliders()
		return m, m.recalculate()

	case key.Matches(msg, m.keys.PageUp):
		m.table.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.table.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.table.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.table.GotoBottom()
	}
	return m, nil
}

// focus moves the slider focus, wrapping at both ends.
func (m *Model) focus(i int) {
	m.focused = (i + paramCount) % paramCount
	for j, s := range m.sliders {
		s.SetFocused(j == m.focused)
	}
}

// adjust applies a move to the focused slider and recomputes when the value
// changed.
func (m Model) adjust(move func(*components.ParameterSlider) bool) (tea.Model, tea.Cmd) {
	s := m.sliders[m.focused]
	if !move(s) {
		return m, nil
	}
	m.applySlider(m.focused)
	m.syncSliders()
	return m, m.recalculate()
}
