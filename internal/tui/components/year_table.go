package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/internal/tui/tuistyles"
	"github.com/rgehrsitz/firecalc/pkg/money"
)

var yearTableColumns = []struct {
	title string
	width int
}{
	{"Age", 5},
	{"Contribution", 14},
	{"Growth", 14},
	{"Withdrawal", 14},
	{"Portfolio", 16},
	{"Status", 9},
}

// YearTable is a scrolling view of the simulation ledger with a fixed header.
type YearTable struct {
	viewport viewport.Model
	rows     int
}

// NewYearTable creates a table showing height ledger rows at a time.
func NewYearTable(width, height int) *YearTable {
	return &YearTable{viewport: viewport.New(width, height)}
}

// SetSize resizes the visible window.
func (t *YearTable) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

// SetResult replaces the rows, keeping the scroll position where possible.
func (t *YearTable) SetResult(result *domain.SimulationResult) {
	offset := t.viewport.YOffset
	var body strings.Builder
	t.rows = 0
	if result != nil {
		for i, r := range result.Rows {
			if i > 0 {
				body.WriteString("\n")
			}
			body.WriteString(formatYearRow(r))
		}
		t.rows = len(result.Rows)
	}
	t.viewport.SetContent(body.String())
	t.viewport.SetYOffset(offset)
}

// Rows is the number of ledger rows loaded.
func (t *YearTable) Rows() int {
	return t.rows
}

// Offset is the index of the first visible row.
func (t *YearTable) Offset() int {
	return t.viewport.YOffset
}

// ScrollDown moves the window n rows toward the end of the ledger.
func (t *YearTable) ScrollDown(n int) {
	t.viewport.SetYOffset(t.viewport.YOffset + n)
}

// ScrollUp moves the window n rows toward the start of the ledger.
func (t *YearTable) ScrollUp(n int) {
	t.viewport.SetYOffset(t.viewport.YOffset - n)
}

// PageDown scrolls by one window.
func (t *YearTable) PageDown() {
	t.ScrollDown(t.viewport.Height)
}

// PageUp scrolls back by one window.
func (t *YearTable) PageUp() {
	t.ScrollUp(t.viewport.Height)
}

// GotoTop shows the first row.
func (t *YearTable) GotoTop() {
	t.viewport.GotoTop()
}

// GotoBottom shows the last row.
func (t *YearTable) GotoBottom() {
	t.viewport.GotoBottom()
}

// View renders the header, the visible rows and a position footer.
func (t *YearTable) View() string {
	var header strings.Builder
	for _, c := range yearTableColumns {
		header.WriteString(fmt.Sprintf("%*s", c.width, c.title))
	}
	footer := tuistyles.SubtitleStyle.Render(
		fmt.Sprintf("%3.0f%% of %d years  pgup/pgdn to scroll", t.viewport.ScrollPercent()*100, t.rows))
	return tuistyles.TableHeaderStyle.Render(header.String()) + "\n" +
		t.viewport.View() + "\n" + footer
}

func formatYearRow(r domain.YearRow) string {
	status, style := "saving", tuistyles.TableCellStyle
	switch {
	case r.IsDepleted():
		status, style = "DEPLETED", tuistyles.TableDepletedStyle
	case r.Retired:
		status, style = "retired", tuistyles.TableRetiredStyle
	}
	cells := []string{
		fmt.Sprintf("%d", r.Age),
		money.FormatCurrency(r.Contribution),
		money.FormatCurrency(r.Growth),
		money.FormatCurrency(r.Withdrawal),
		money.FormatCurrency(r.PortfolioEnd),
		status,
	}
	var line strings.Builder
	for i, c := range yearTableColumns {
		line.WriteString(fmt.Sprintf("%*s", c.width, cells[i]))
	}
	return style.Render(line.String())
}
