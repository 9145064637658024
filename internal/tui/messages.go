package tui

import (
	"github.com/rgehrsitz/firecalc/internal/domain"
)

// Message types for the Bubble Tea update cycle

// ScenarioLoadedMsg carries the scenario read from a configuration file.
type ScenarioLoadedMsg struct {
	Scenario *domain.Scenario
}

// SimulationCompleteMsg carries the report for one set of inputs. Seq ties
// the report to the edit that triggered it so late results can be dropped.
type SimulationCompleteMsg struct {
	Seq    int
	Report *domain.SimulationReport
	Err    error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
