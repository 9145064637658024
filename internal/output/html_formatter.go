package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    money.FormatCurrency,
	"compact": money.FormatCompact,
	"pct":     func(d decimal.Decimal) string { return money.FormatPercent(d, 2) },
	"status":  rowStatus,
	"target":  fiTargetLabel,
	"span":    ageRange,
	"deref":   func(p *int) int { return *p },
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.SimulationReport) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	data := struct {
		*domain.SimulationReport
		Assumptions []string
	}{report, ModelAssumptions(&report.Inputs)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
