package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/firecalc/internal/tui/tuistyles"
	"github.com/rgehrsitz/firecalc/pkg/money"
)

// ProgressBar shows how far a balance is toward a target.
type ProgressBar struct {
	Current   decimal.Decimal
	Target    decimal.Decimal
	Unbounded bool
	Width     int
	Label     string
}

// NewProgressBar creates a progress bar toward target.
func NewProgressBar(current, target decimal.Decimal) *ProgressBar {
	return &ProgressBar{
		Current: current,
		Target:  target,
		Width:   40,
	}
}

// WithLabel sets the progress label
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// WithUnbounded marks the target as unreachable.
func (p *ProgressBar) WithUnbounded(unbounded bool) *ProgressBar {
	p.Unbounded = unbounded
	return p
}

// Percentage returns progress in [0, 100]. An unbounded or non-positive
// target reports 0.
func (p *ProgressBar) Percentage() float64 {
	if p.Unbounded || !p.Target.IsPositive() || p.Current.IsNegative() {
		return 0
	}
	pct, _ := p.Current.Div(p.Target).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

// IsComplete reports whether the balance has reached the target.
func (p *ProgressBar) IsComplete() bool {
	return !p.Unbounded && p.Target.IsPositive() && p.Current.GreaterThanOrEqual(p.Target)
}

// Render returns the styled bar with percentage and amounts.
func (p *ProgressBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		content.WriteString(tuistyles.MetricLabelStyle.Render(p.Label))
		content.WriteString(" ")
	}

	filled := int(float64(p.Width) * p.Percentage() / 100)
	if filled > p.Width {
		filled = p.Width
	}
	barColor := tuistyles.ColorPrimary
	if p.IsComplete() {
		barColor = tuistyles.ColorSuccess
	}

	content.WriteString("[")
	if filled > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)))
	}
	if empty := p.Width - filled; empty > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", empty)))
	}
	content.WriteString("] ")

	if p.Unbounded {
		content.WriteString(tuistyles.MetricNegativeStyle.Render("target unbounded"))
		return content.String()
	}

	pct := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).
		Render(fmt.Sprintf("%.1f%%", p.Percentage()))
	amounts := tuistyles.SubtitleStyle.
		Render(fmt.Sprintf("%s / %s", money.FormatCompact(p.Current), money.FormatCompact(p.Target)))
	content.WriteString(pct + " " + amounts)
	return content.String()
}
