package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/firecalc/internal/tui/tuistyles"
	"github.com/rgehrsitz/firecalc/pkg/money"
)

const yAxisWidth = 9

// DataSeries is one plotted line.
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
	Glyph  rune
}

// ASCIIChart plots series against a shared age axis.
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // x-axis labels, one per point
	Width      int
	Height     int
	ShowLegend bool
}

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     12,
		ShowLegend: true,
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color, glyph rune) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color, Glyph: glyph})
	return c
}

// WithLabels sets the x-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// Render returns the chart, or a notice when there is nothing to plot.
func (c *ASCIIChart) Render() string {
	if !c.hasData() {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(lo, hi))

	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n")
		content.WriteString(c.renderLegend())
	}
	return content.String()
}

func (c *ASCIIChart) hasData() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

// bounds returns the y range across all series, always including zero.
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range c.Series {
		for _, v := range s.Points {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func (c *ASCIIChart) plotWidth() int {
	w := c.Width - yAxisWidth - 3
	if w < 2 {
		return 2
	}
	return w
}

func (c *ASCIIChart) plotHeight() int {
	if c.Height < 2 {
		return 2
	}
	return c.Height
}

// column maps point i of n onto the plot width.
func column(i, n, width int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(i) / float64(n-1) * float64(width-1)))
}

// row maps a value onto the plot height; row 0 is the top.
func row(v, lo, hi float64, height int) int {
	return height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(height-1)))
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	width, height := c.plotWidth(), c.plotHeight()

	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	for _, s := range c.Series {
		style := lipgloss.NewStyle().Foreground(s.Color)
		cell := style.Render(string(s.Glyph))
		prevX, prevY := -1, -1
		for i, v := range s.Points {
			x, y := column(i, len(s.Points), width), row(v, lo, hi, height)
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y, cell)
			}
			plot(grid, x, y, cell)
			prevX, prevY = x, y
		}
	}

	var out strings.Builder
	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for y, cells := range grid {
		label := ""
		if y == 0 || y == height-1 || y == height/2 {
			v := hi - float64(y)/float64(height-1)*(hi-lo)
			label = money.FormatCompact(decimal.NewFromFloat(v))
		}
		out.WriteString(axis.Render(label))
		out.WriteString(" │")
		out.WriteString(strings.Join(cells, ""))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", width))
	if len(c.Labels) > 0 {
		out.WriteString("\n")
		out.WriteString(c.renderXAxisLabels(width))
	}
	return out.String()
}

func plot(grid [][]string, x, y int, cell string) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
		grid[y][x] = cell
	}
}

// drawLine fills the cells between two points (Bresenham), leaving cells
// already drawn alone.
func drawLine(grid [][]string, x0, y0, x1, y1 int, cell string) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	x, y := x0, y0
	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == " " {
			grid[y][x] = cell
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels prints the first, middle and last labels under the axis.
func (c *ASCIIChart) renderXAxisLabels(width int) string {
	line := []rune(strings.Repeat(" ", width))
	n := len(c.Labels)
	for _, i := range []int{0, n / 2, n - 1} {
		label := []rune(c.Labels[i])
		start := column(i, n, width) - len(label)/2
		if start < 0 {
			start = 0
		}
		if start+len(label) > width {
			start = width - len(label)
		}
		if start < 0 {
			continue
		}
		copy(line[start:], label)
	}
	return strings.Repeat(" ", yAxisWidth+2) +
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(string(line))
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(s.Glyph))
		items = append(items, fmt.Sprintf("%s %s", symbol, s.Name))
	}
	return tuistyles.SubtitleStyle.Render(strings.Repeat(" ", yAxisWidth+2) + strings.Join(items, "   "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
