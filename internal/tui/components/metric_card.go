package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/firecalc/internal/tui/tuistyles"
)

// MetricCard displays a single headline figure with an optional change
// since the previous run.
type MetricCard struct {
	Label string
	Value string
	Note  string
	Trend *Trend
	Width int
	Alert bool
}

// Trend is the direction and size of a change; IsPositive means the change
// is good for the plan, not that the number went up.
type Trend struct {
	IsPositive bool
	Change     string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 20,
	}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

// WithNote adds a muted line under the value
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// WithAlert renders the value in the danger color
func (m *MetricCard) WithAlert(alert bool) *MetricCard {
	m.Alert = alert
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the bordered card.
func (m *MetricCard) Render() string {
	valueStyle := tuistyles.MetricValueStyle
	if m.Alert {
		valueStyle = valueStyle.Foreground(tuistyles.ColorDanger)
	}
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)

	switch {
	case m.Trend != nil:
		style := tuistyles.MetricTrendStyle(m.Trend.IsPositive)
		content += "\n" + style.Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive), m.Trend.Change))
	case m.Note != "":
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Note)
	default:
		content += "\n"
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricRow renders cards side by side.
func MetricRow(cards ...*MetricCard) string {
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = c.Render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
