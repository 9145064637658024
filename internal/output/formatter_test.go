package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/calculation"
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestReport retires immediately: 1.2M against a 900k target.
func buildTestReport() *domain.SimulationReport {
	inputs := domain.RetirementInputs{
		CurrentAge:                 60,
		LifeExpectancy:             domain.IntPtr(62),
		InitialInvestment:          decimal.NewFromInt(1200000),
		MonthlyRetirementSpend:     decimal.NewFromInt(3000),
		ExpectedYearlyReturn:       decimal.NewFromInt(7),
		InflationRate:              decimal.NewFromInt(3),
		InflationMode:              domain.InflationModeReal,
		CompoundingInterval:        domain.CompoundingYearly,
		SafeWithdrawalRate:         decimal.NewFromInt(4),
		RetirementBufferMultiplier: decimal.NewFromInt(1),
	}
	return domain.NewSimulationReport("Test", inputs, calculation.SimulateRetirement(inputs))
}

func buildNeverReport() *domain.SimulationReport {
	inputs := domain.DefaultInputs()
	inputs.SafeWithdrawalRate = decimal.Zero
	return domain.NewSimulationReport("Zero SWR", inputs, calculation.SimulateRetirement(inputs))
}

func TestFormatterFunc(t *testing.T) {
	called := false
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(r *domain.SimulationReport) ([]byte, error) {
			called = true
			return []byte("test output"), nil
		},
	}

	out, err := formatter.Format(buildTestReport())
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "test output", string(out))
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	formatter := FormatterFunc{ID: "f", F: func(*domain.SimulationReport) ([]byte, error) {
		return []byte("content"), nil
	}}

	filename, err := WriteFormatted(formatter, buildTestReport(), dir, "txt")
	require.NoError(t, err)
	assert.Contains(t, filename, "fire_report_")
	assert.True(t, strings.HasSuffix(filename, ".txt"))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))

	failing := FormatterFunc{ID: "err", F: func(*domain.SimulationReport) ([]byte, error) {
		return nil, fmt.Errorf("formatter error")
	}}
	filename, err = WriteFormatted(failing, buildTestReport(), dir, "txt")
	assert.Error(t, err)
	assert.Empty(t, filename)
}

func TestGetFormatterByName(t *testing.T) {
	tests := map[string]string{
		"console":         "console",
		"  CONSOLE ":      "console",
		"verbose":         "console-verbose",
		"table":           "console-verbose",
		"csv":             "csv",
		"html-report":     "html",
		"json-pretty":     "json",
		"yml":             "yaml",
		"console-verbose": "console-verbose",
	}
	for in, want := range tests {
		f := GetFormatterByName(in)
		require.NotNil(t, f, in)
		assert.Equal(t, want, f.Name(), in)
	}
	assert.Nil(t, GetFormatterByName("pdf"))

	assert.Equal(t, []string{"console", "console-verbose", "csv", "html", "json", "yaml"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "verbose")
}

func TestGenerateReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateReport(&buf, buildTestReport(), "console"))
	assert.Contains(t, buf.String(), "FIRE RETIREMENT PROJECTION: Test")

	err := GenerateReport(&buf, buildTestReport(), "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: pdf")
}

func TestFormatters_RejectEmptyReport(t *testing.T) {
	for _, f := range builtInFormatters {
		_, err := f.Format(nil)
		assert.Error(t, err, f.Name())
		_, err = f.Format(&domain.SimulationReport{Name: "empty"})
		assert.Error(t, err, f.Name())
	}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "FIRE RETIREMENT PROJECTION: Test")
	assert.Contains(t, content, "Current Age:             60 (simulated through 62)")
	assert.Contains(t, content, "Retirement Spend:        $3,000/month ($36,000/year)")
	assert.Contains(t, content, "(real: 4.0% after 3.0% inflation)")
	assert.Contains(t, content, "FI Target:               $900,000")
	assert.Contains(t, content, "Retirement Age:          60")
	assert.Contains(t, content, "Years to Retirement:     0")
	assert.Contains(t, content, "First-Year Withdrawal:   $49,920")
	assert.NotContains(t, content, "DEPLETED")
}

func TestConsoleFormatter_NeverRetires(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildNeverReport())
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "FI Target:               Unbounded (0% withdrawal rate)")
	assert.Contains(t, content, "Retirement Age:          Never")
	assert.Contains(t, content, "Years to Retirement:     ∞")
	assert.NotContains(t, content, "Portfolio at FI")
}

func TestConsoleVerboseFormatter(t *testing.T) {
	report := buildTestReport()
	report.Inputs.WithdrawalOverrides = []domain.WithdrawalOverride{
		{StartAge: 61, WithdrawalRate: decimal.RequireFromString("3.5")},
	}

	out, err := ConsoleVerboseFormatter{}.Format(report)
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "KEY ASSUMPTIONS:")
	assert.Contains(t, content, "CONTRIBUTION PHASES")
	assert.Contains(t, content, "(none)")
	assert.Contains(t, content, "Ages 61+")
	assert.Contains(t, content, "3.50%")
	assert.Contains(t, content, "YEAR-BY-YEAR PROJECTION")
	assert.Contains(t, content, "<- FI")
	assert.Equal(t, 1, strings.Count(content, "<- FI"))
	assert.Equal(t, 3, strings.Count(content, "Retired"))
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Age,Contribution,TotalContributions,Growth,Withdrawal,PortfolioEnd,Retired", lines[0])
	assert.Equal(t, "60,0.00,1200000.00,48000.00,49920.00,1198080.00,true", lines[1])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	var decoded struct {
		Name   string `json:"name"`
		Result struct {
			RetirementAge *int             `json:"retirementAge"`
			FITarget      decimal.Decimal  `json:"fiTarget"`
			Rows          []domain.YearRow `json:"rows"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Test", decoded.Name)
	require.NotNil(t, decoded.Result.RetirementAge)
	assert.Equal(t, 60, *decoded.Result.RetirementAge)
	assert.True(t, decoded.Result.FITarget.Equal(decimal.NewFromInt(900000)))
	assert.Len(t, decoded.Result.Rows, 3)
}

func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "name: Test")
	assert.Contains(t, content, "retirement_age: 60")
	assert.Contains(t, content, "portfolio_end:")
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "<title>FIRE Projection: Test</title>")
	assert.Contains(t, content, "$900,000")
	assert.Contains(t, content, `class="retired fi"`)
	assert.Contains(t, content, "<li>None</li>")
	assert.NotContains(t, content, "Depleted At")

	never, err := HTMLFormatter{}.Format(buildNeverReport())
	require.NoError(t, err)
	assert.Contains(t, string(never), "Never")
}

func TestModelAssumptions(t *testing.T) {
	in := buildTestReport().Inputs
	realNotes := ModelAssumptions(&in)
	assert.Contains(t, strings.Join(realNotes, "\n"), "inflation of 3.0%")

	in.InflationMode = domain.InflationModeNominal
	in.WithdrawalOverrides = []domain.WithdrawalOverride{{StartAge: 60, WithdrawalRate: decimal.NewFromInt(3)}}
	nominal := ModelAssumptions(&in)
	joined := strings.Join(nominal, "\n")
	assert.Contains(t, joined, "nominal")
	assert.Contains(t, joined, "first match wins")
	assert.Len(t, nominal, len(realNotes)+1)
}
