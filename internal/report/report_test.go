package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	assessment "hydropower-calc/internal/assessment/domain"
)

func sampleAssessment(t *testing.T, price float64, omRate float64) assessment.Assessment {
	t.Helper()
	site, err := assessment.NewSiteParameters(assessment.SiteInput{
		HeadM: 50, FlowM3S: 10, TurbineType: "francis",
		Efficiency: 0.9, SiteType: "diversion", CapacityFactor: 0.5,
	})
	require.NoError(t, err)
	econ, err := assessment.NewEconomicParameters(assessment.EconomicInput{
		ElectricityPriceUSDPerMWh: price,
		ProjectLifetimeYears:      30,
		DiscountRate:              0.06,
		CapexUSDPerKW:             3000,
		OMRate:                    omRate,
	})
	require.NoError(t, err)

	meta := assessment.Meta{
		ID:          "asmt-test",
		Name:        "Mill Creek",
		GeneratedAt: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
	a, err := assessment.NewEngine(assessment.DefaultViabilityThresholds()).Run(meta, site, econ)
	require.NoError(t, err)
	return a
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"csv": FormatCSV, ".JSON": FormatJSON, "txt": FormatText, "text": FormatText,
		"PDF": FormatPDF, " xlsx ": FormatXLSX,
	} {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Render(Format("docx"), assessment.Assessment{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileNameAndContentType(t *testing.T) {
	a := sampleAssessment(t, 60, 0.02)
	assert.Equal(t, "hydropower_assessment_20260504_120000.csv", FileName(a, FormatCSV))
	assert.Equal(t, "hydropower_summary_20260504_120000.txt", FileName(a, FormatText))
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}

func TestGrouped(t *testing.T) {
	assert.Equal(t, "1,160,130.60", grouped(1160130.6, 2))
	assert.Equal(t, "-920,412", grouped(-920411.6, 0))
	assert.Equal(t, "999", grouped(999.4, 0))
	assert.Equal(t, "1,000", grouped(999.5, 0))
	assert.Equal(t, "0.0", grouped(-0.01, 1))
	assert.Equal(t, "-$13,243,500", usd(-13243500))
}

func TestJSONRoundTripIsExact(t *testing.T) {
	for _, a := range []assessment.Assessment{
		sampleAssessment(t, 60, 0.02),
		sampleAssessment(t, 20, 0.05),
	} {
		data, err := EncodeJSON(a)
		require.NoError(t, err)

		decoded, err := DecodeJSON(data)
		require.NoError(t, err)
		assert.Equal(t, a, decoded)

		again, err := EncodeJSON(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(data), string(again))
	}
}

func TestDecodeJSONRevalidatesInputs(t *testing.T) {
	data, err := EncodeJSON(sampleAssessment(t, 60, 0.02))
	require.NoError(t, err)

	tampered := strings.Replace(string(data), `"head_m": 50`, `"head_m": 900`, 1)
	require.NotEqual(t, string(data), tampered)
	_, err = DecodeJSON([]byte(tampered))
	assert.ErrorIs(t, err, assessment.ErrInvalidParameter)
}

func TestBuildCSV(t *testing.T) {
	a := sampleAssessment(t, 60, 0.02)
	data, err := BuildCSV(a)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Parameter", "Value", "Unit"}, rows[0])

	values := map[string]string{}
	for _, row := range rows {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "4414.50", values["Actual Power"])
	assert.Equal(t, "13243500.00", values["Total CAPEX"])
	assert.Equal(t, "1160130.60", values["Annual Revenue"])
	assert.Equal(t, "264870.00", values["Annual O&M"])
	assert.Equal(t, "14.79", values["Simple Payback"])
	assert.Equal(t, "Francis", values["Turbine Type"])

	last := rows[len(rows)-1]
	assert.Equal(t, "30", last[0])
	assert.Len(t, rows, 32+31)
}

func TestBuildCSVNeverPayback(t *testing.T) {
	data, err := BuildCSV(sampleAssessment(t, 20, 0.05))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Simple Payback,never,years")
}

func TestBuildSummary(t *testing.T) {
	data, err := BuildSummary(sampleAssessment(t, 60, 0.02))
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Project: Mill Creek")
	assert.Contains(t, text, "Actual Power Output:   4,414.5 kW")
	assert.Contains(t, text, "Total CAPEX:           $13,243,500")
	assert.Contains(t, text, "Simple Payback:        14.8 years")
	assert.Contains(t, text, "Status: MARGINAL - Consider optimization")
	assert.Contains(t, text, "DISCLAIMER")

	never, err := BuildSummary(sampleAssessment(t, 20, 0.05))
	require.NoError(t, err)
	assert.Contains(t, string(never), "Simple Payback:        never")
	assert.Contains(t, string(never), "Note: annual O&M meets or exceeds revenue")
}

func TestCustomSummaryTemplate(t *testing.T) {
	tpl, err := NewSummaryTemplate("{{ .Turbine }} {{ usd .Economic.NPVUSD }}")
	require.NoError(t, err)
	out, err := tpl.Render(sampleAssessment(t, 60, 0.02))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "Francis -$"))

	_, err = NewSummaryTemplate("{{ .Broken ")
	assert.Error(t, err)

	var nilTemplate *SummaryTemplate
	_, err = nilTemplate.Render(assessment.Assessment{})
	assert.Error(t, err)
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(sampleAssessment(t, 60, 0.02))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildXLSX(t *testing.T) {
	a := sampleAssessment(t, 60, 0.02)
	data, err := BuildXLSX(a)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetCashFlow, sheetMonthly}, f.GetSheetList())

	label, err := f.GetCellValue(sheetSummary, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Assessment", label)
	id, err := f.GetCellValue(sheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "asmt-test", id)

	rows, err := f.GetRows(sheetCashFlow)
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(a.Economic.CashFlowSeries))
	assert.Equal(t, "0", rows[1][0])

	months, err := f.GetRows(sheetMonthly)
	require.NoError(t, err)
	assert.Len(t, months, 13)
	assert.Equal(t, "Jan", months[1][0])
}

func TestRenderDispatchesEveryFormat(t *testing.T) {
	a := sampleAssessment(t, 60, 0.02)
	for _, f := range Formats {
		data, err := Render(f, a)
		require.NoError(t, err, f)
		assert.NotEmpty(t, data, f)
	}
}
