package components

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/tui/tuistyles"
)

func TestParameterSlider_Clamps(t *testing.T) {
	s := NewParameterSlider("Rate", 4, 0, 5, 0.5).WithPrecision(1)

	assert.True(t, s.Increment())
	assert.InDelta(t, 4.5, s.Value, 1e-9)
	assert.True(t, s.Increment())
	assert.False(t, s.Increment(), "already at max")
	assert.InDelta(t, 5.0, s.Value, 1e-9)

	assert.True(t, s.DecrementBig())
	assert.InDelta(t, 0.0, s.Value, 1e-9)
	assert.False(t, s.Decrement())

	s.SetValue(99)
	assert.InDelta(t, 5.0, s.Value, 1e-9)
	assert.InDelta(t, 1.0, s.Percentage(), 1e-9)
}

func TestParameterSlider_SnapsToPrecision(t *testing.T) {
	s := NewParameterSlider("Return", 0.1, 0, 1, 0.1).WithPrecision(1)
	s.Increment()
	s.Increment()
	assert.Equal(t, 0.3, s.Value, "float drift is rounded away")
}

func TestParameterSlider_FormatValue(t *testing.T) {
	money := NewParameterSlider("Spend", 4000, 0, 50_000, 100).WithPrefix("$")
	assert.Equal(t, "$4,000", money.FormatValue())

	pct := NewParameterSlider("Rate", 3.5, 0, 10, 0.1).WithPrecision(1).WithUnit("%")
	assert.Equal(t, "3.5%", pct.FormatValue())
}

func TestParameterSlider_Render(t *testing.T) {
	s := NewParameterSlider("Spend", 0, 0, 100, 1).WithWidth(10)
	out := s.Render()
	assert.Contains(t, out, "Spend")
	assert.Contains(t, out, "[●─────────]")

	s.SetValue(100)
	s.SetFocused(true)
	out = s.Render()
	assert.Contains(t, out, "[━━━━━━━━━●]")
	assert.Contains(t, out, "▸")
}

func TestMetricCard_Render(t *testing.T) {
	card := NewMetricCard("Retirement Age", "47").WithTrend(true, "-2 yrs")
	out := card.Render()
	assert.Contains(t, out, "Retirement Age")
	assert.Contains(t, out, "47")
	assert.Contains(t, out, tuistyles.TrendIndicator(true)+" -2 yrs")

	row := MetricRow(NewMetricCard("A", "1"), NewMetricCard("B", "2"))
	lines := strings.Split(row, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, 2, strings.Count(lines[0], "╭"), "cards sit side by side")
}

func TestProgressBar(t *testing.T) {
	bar := NewProgressBar(decimal.NewFromInt(250_000), decimal.NewFromInt(1_000_000)).WithWidth(20)
	assert.InDelta(t, 25.0, bar.Percentage(), 1e-9)
	assert.False(t, bar.IsComplete())
	out := bar.Render()
	assert.Contains(t, out, strings.Repeat("█", 5)+strings.Repeat("░", 15))
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "$250K / $1.0M")

	done := NewProgressBar(decimal.NewFromInt(2_000_000), decimal.NewFromInt(1_000_000))
	assert.InDelta(t, 100.0, done.Percentage(), 1e-9)
	assert.True(t, done.IsComplete())

	unbounded := NewProgressBar(decimal.NewFromInt(10), decimal.Zero).WithUnbounded(true)
	assert.Zero(t, unbounded.Percentage())
	assert.False(t, unbounded.IsComplete())
	assert.Contains(t, unbounded.Render(), "target unbounded")
}

func TestASCIIChart(t *testing.T) {
	empty := NewASCIIChart("Empty")
	assert.Contains(t, empty.Render(), "No data to display")

	chart := NewASCIIChart("Portfolio").
		WithSize(40, 6).
		WithLabels([]string{"30", "31", "32", "33"}).
		AddSeries("Portfolio", []float64{0, 100, 200, 300}, tuistyles.ColorChartLine1, '●').
		AddSeries("Target", []float64{150, 150, 150, 150}, tuistyles.ColorChartLine2, '·')
	out := chart.Render()

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Portfolio", lines[0])
	// Title, six plot rows, axis, labels and legend.
	assert.Len(t, lines, 10)
	assert.Contains(t, lines[1], "$300")
	assert.Contains(t, lines[6], "$0")
	assert.Contains(t, lines[8], "30")
	assert.Contains(t, lines[8], "33")
	assert.Contains(t, lines[9], "● Portfolio")
	assert.Contains(t, lines[9], "· Target")
}

func TestASCIIChart_SinglePoint(t *testing.T) {
	chart := NewASCIIChart("").WithSize(30, 4).
		AddSeries("Portfolio", []float64{500}, tuistyles.ColorChartLine1, '●')
	assert.NotPanics(t, func() { _ = chart.Render() })
	assert.Contains(t, chart.Render(), "●")
}

func TestYearTable_Scroll(t *testing.T) {
	result := &domain.SimulationResult{}
	for age := 40; age < 60; age++ {
		result.Rows = append(result.Rows, domain.YearRow{
			Age:          age,
			PortfolioEnd: decimal.NewFromInt(int64(age) * 1000),
			Retired:      age >= 50,
		})
	}

	table := NewYearTable(72, 5)
	table.SetResult(result)
	assert.Equal(t, 20, table.Rows())

	view := table.View()
	assert.Contains(t, view, "Portfolio")
	assert.Contains(t, view, "$40,000")
	assert.NotContains(t, view, "$45,000")

	table.PageDown()
	assert.Equal(t, 5, table.Offset())
	assert.Contains(t, table.View(), "$45,000")

	table.GotoBottom()
	assert.Equal(t, 15, table.Offset())
	assert.Contains(t, table.View(), "retired")

	table.ScrollDown(10)
	assert.Equal(t, 15, table.Offset(), "clamped at the last page")

	table.ScrollUp(3)
	assert.Equal(t, 12, table.Offset())

	// New results keep the position.
	table.SetResult(result)
	assert.Equal(t, 12, table.Offset())

	table.GotoTop()
	assert.Equal(t, 0, table.Offset())
}

func TestYearTable_MarksDepletion(t *testing.T) {
	result := &domain.SimulationResult{Rows: []domain.YearRow{
		{Age: 80, PortfolioEnd: decimal.NewFromInt(100), Retired: true},
		{Age: 81, PortfolioEnd: decimal.NewFromInt(-50), Retired: true},
	}}
	table := NewYearTable(72, 5)
	table.SetResult(result)
	view := table.View()
	assert.Contains(t, view, "DEPLETED")
	assert.Contains(t, view, "-$50")
}
