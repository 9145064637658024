package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rgehrsitz/firecalc/internal/tui/tuistyles"
)

// ParameterSlider displays an adjustable input with a visual track.
type ParameterSlider struct {
	Label     string
	Value     float64
	Min       float64
	Max       float64
	Step      float64
	BigStep   float64
	Prefix    string // e.g. "$"
	Unit      string // e.g. "%", " yrs"
	Precision int
	Width     int
	IsFocused bool
}

// NewParameterSlider creates a slider with the value clamped into range.
// BigStep defaults to ten steps.
func NewParameterSlider(label string, value, min, max, step float64) *ParameterSlider {
	s := &ParameterSlider{
		Label:   label,
		Min:     min,
		Max:     max,
		Step:    step,
		BigStep: step * 10,
		Width:   24,
	}
	s.SetValue(value)
	return s
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithPrefix sets the value prefix
func (p *ParameterSlider) WithPrefix(prefix string) *ParameterSlider {
	p.Prefix = prefix
	return p
}

// WithPrecision sets the number of decimals shown
func (p *ParameterSlider) WithPrecision(decimals int) *ParameterSlider {
	p.Precision = decimals
	return p
}

// WithBigStep sets the coarse adjustment step
func (p *ParameterSlider) WithBigStep(step float64) *ParameterSlider {
	p.BigStep = step
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment moves the value up by one step and reports whether it changed.
func (p *ParameterSlider) Increment() bool {
	return p.move(p.Step)
}

// Decrement moves the value down by one step and reports whether it changed.
func (p *ParameterSlider) Decrement() bool {
	return p.move(-p.Step)
}

// IncrementBig moves the value up by BigStep.
func (p *ParameterSlider) IncrementBig() bool {
	return p.move(p.BigStep)
}

// DecrementBig moves the value down by BigStep.
func (p *ParameterSlider) DecrementBig() bool {
	return p.move(-p.BigStep)
}

func (p *ParameterSlider) move(delta float64) bool {
	before := p.Value
	p.SetValue(p.Value + delta)
	return p.Value != before
}

// SetValue sets the value, snapping to the slider precision and clamping to
// min/max.
func (p *ParameterSlider) SetValue(value float64) {
	scale := math.Pow(10, float64(p.Precision))
	value = math.Round(value*scale) / scale
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Percentage returns the value as a fraction of the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

// FormatValue renders the value with prefix, separators and unit.
func (p *ParameterSlider) FormatValue() string {
	return p.Prefix + humanize.CommafWithDigits(p.Value, p.Precision) + p.Unit
}

// Render returns a single line: label, track and value.
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle.Width(22)
	valueStyle := tuistyles.ParameterValueStyle
	marker := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary).Bold(true)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		marker = lipgloss.NewStyle().Foreground(tuistyles.ColorAccent).Render("▸ ")
	}

	return fmt.Sprintf("%s%s %s %s",
		marker,
		labelStyle.Render(p.Label),
		p.renderSliderBar(),
		valueStyle.Render(p.FormatValue()),
	)
}

// renderSliderBar draws the track with the thumb at the current position.
func (p *ParameterSlider) renderSliderBar() string {
	if p.Width < 1 {
		return ""
	}
	pos := int(math.Round(float64(p.Width-1) * p.Percentage()))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if pos > 0 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", pos)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if rest := p.Width - pos - 1; rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
