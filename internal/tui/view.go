package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/firecalc/internal/tui/components"
	"github.com/rgehrsitz/firecalc/pkg/money"
)

const (
	tableWidth  = 72
	chartHeight = 10
	// wideLayout is the terminal width at which the chart sits beside the
	// sliders instead of under them.
	wideLayout = 130
	// fixedRows counts the title, metric cards, progress line, table
	// header and footer, and the status bar.
	fixedRows   = 2 + 5 + 2 + 2 + 2
	slidersRows = paramCount + 2
	chartRows   = chartHeight + 4
)

// layout sizes the year table to the rows left over by everything else.
func (m *Model) layout() {
	used := fixedRows + slidersRows + chartRows
	if m.width >= wideLayout {
		used = fixedRows + max(slidersRows, chartRows)
	}
	m.table.SetSize(tableWidth, max(3, m.height-used))
}

// View renders the current state of the application
func (m Model) View() string {
	title := m.renderTitleBar()
	status := m.renderStatusBar()

	var body string
	switch {
	case m.err != nil:
		body = m.renderError()
	case m.showHelp:
		body = m.renderHelp()
	default:
		body = m.renderDashboard()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, status)
}

// renderTitleBar shows the scenario name and which preset the inputs match.
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("FIRE Calculator")
	sub := SubtitleStyle.Render(fmt.Sprintf("%s · preset: %s", m.name, m.presetLabel()))
	return lipgloss.JoinVertical(lipgloss.Left, title+" "+sub, "")
}

func (m Model) renderStatusBar() string {
	return StatusBarStyle.Width(max(m.width, 1)).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m Model) renderError() string {
	return BorderStyle.Render(ErrorStyle.Render("Error: "+m.err.Error()) +
		"\n\nPress any key to continue, q to quit.")
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	intro := InfoStyle.Render("Every change reruns the simulation. Presets swap return, inflation,\n" +
		"compounding, withdrawal rate and buffer; your age, savings, spending\n" +
		"and contribution phases stay as they are.")
	return ActiveBorderStyle.Render(intro + "\n\n" + h.View(m.keys) + "\n\nPress ? or esc to close.")
}

func (m Model) renderDashboard() string {
	sections := []string{m.renderMetrics(), m.renderProgress()}

	sliders := m.renderSliders()
	chart := m.renderChart()
	if m.width >= wideLayout {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, sliders, "  ", chart))
	} else {
		sections = append(sections, sliders, chart)
	}
	sections = append(sections, m.table.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMetrics draws the four headline cards. Trends compare against the
// previous run.
func (m Model) renderMetrics() string {
	if m.report == nil {
		return InfoStyle.Render("Simulating...")
	}
	result := m.report.Result

	target := components.NewMetricCard("FI Target", money.FormatCurrency(result.FITarget))
	if result.FITargetUnbounded {
		target = components.NewMetricCard("FI Target", "Unbounded").
			WithNote("0% withdrawal rate").WithAlert(true)
	}

	age := components.NewMetricCard("Retirement Age", result.RetirementAgeLabel()).
		WithAlert(!result.Retired())
	years := components.NewMetricCard("Years to FI", result.YearsToRetirementLabel())
	if m.previous != nil {
		if diff, ok := intDiff(m.previous.Result.RetirementAge, result.RetirementAge); ok && diff != 0 {
			age.WithTrend(diff < 0, signedYears(diff))
			years.WithTrend(diff < 0, signedYears(diff))
		}
	}

	final := components.NewMetricCard("Final Balance", money.FormatCurrency(m.report.Metrics.FinalPortfolio))
	if depleted := m.report.Metrics.DepletionAge; depleted != nil {
		final.WithAlert(true).WithNote("depleted at " + strconv.Itoa(*depleted))
	} else if m.previous != nil {
		change := m.report.Metrics.FinalPortfolio.Sub(m.previous.Metrics.FinalPortfolio)
		if !change.IsZero() {
			final.WithTrend(change.IsPositive(), money.FormatCompact(change.Abs()))
		}
	}

	return components.MetricRow(target, age, years, final)
}

// renderProgress shows the starting balance against the FI target.
func (m Model) renderProgress() string {
	if m.report == nil {
		return ""
	}
	bar := components.NewProgressBar(m.inputs.InitialInvestment, m.report.Result.FITarget).
		WithLabel("Progress to FI").
		WithWidth(30).
		WithUnbounded(m.report.Result.FITargetUnbounded)
	return bar.Render() + "\n"
}

func (m Model) renderSliders() string {
	var b strings.Builder
	for _, s := range m.sliders {
		b.WriteString(s.Render())
		b.WriteString("\n")
	}
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  mode: %s (m) · compounding: %s (c)",
		m.inputs.InflationMode, m.inputs.CompoundingInterval)))
	if m.invalid != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(firstLine(m.invalid.Error())))
	}
	return b.String()
}

// renderChart plots the year-end portfolio and, when bounded, the FI target.
func (m Model) renderChart() string {
	if m.report == nil || len(m.report.Result.Rows) == 0 {
		return ""
	}
	rows := m.report.Result.Rows
	balances := make([]float64, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		balances[i] = r.PortfolioEnd.InexactFloat64()
		labels[i] = strconv.Itoa(r.Age)
	}

	width := 64
	if m.width >= wideLayout {
		width = max(40, m.width-lipgloss.Width(m.sliders[0].Render())-4)
	}
	chart := components.NewASCIIChart("Portfolio by Age").
		WithSize(width, chartHeight).
		WithLabels(labels)
	// The target goes first so the portfolio line draws over it.
	if !m.report.Result.FITargetUnbounded {
		target := make([]float64, len(rows))
		for i := range target {
			target[i] = m.report.Result.FITarget.InexactFloat64()
		}
		chart.AddSeries("FI Target", target, ColorChartLine2, '·')
	}
	chart.AddSeries("Portfolio", balances, ColorChartLine1, '●')
	return chart.Render()
}

// intDiff returns b - a when both ages are known.
func intDiff(a, b *int) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return *b - *a, true
}

func signedYears(diff int) string {
	if diff > 0 {
		return fmt.Sprintf("+%d yrs", diff)
	}
	return fmt.Sprintf("%d yrs", diff)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
