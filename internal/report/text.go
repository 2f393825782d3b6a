package report

import (
	"bytes"
	"errors"
	"text/template"
	"time"

	assessment "hydropower-calc/internal/assessment/domain"
)

// DefaultSummaryTemplate lays out the plain-text summary report.
const DefaultSummaryTemplate = `HYDROPOWER GENERATION ANALYSIS REPORT
{{- if .Name }}
Project: {{ .Name }}{{ end }}
Assessment: {{ .ID }}
Generated: {{ .Generated }}

=====================================
SITE PARAMETERS
=====================================
Net Head:              {{ fixed .HeadM 1 }} m
Design Flow Rate:      {{ fixed .FlowM3S 1 }} m3/s
Turbine Type:          {{ .Turbine }}
Overall Efficiency:    {{ pct .Efficiency }}
Site Type:             {{ .SiteType }}
Capacity Factor:       {{ pct .CapacityFactor }}

=====================================
POWER GENERATION ANALYSIS
=====================================
Theoretical Power:     {{ num .Power.TheoreticalPowerKW 1 }} kW
Actual Power Output:   {{ num .Power.PowerKW 1 }} kW
System Losses:         {{ num .Power.SystemLossesKW 1 }} kW
Annual Energy:         {{ num .Power.AnnualEnergyMWh 1 }} MWh/year

=====================================
ECONOMIC ANALYSIS
=====================================
Total CAPEX:           {{ usd .Economic.TotalCapexUSD }}
Unit Cost:             {{ usd .Economic.UnitCostUSDPerKW }}/kW
Annual Revenue:        {{ usd .Economic.AnnualRevenueUSD }}/year
Annual O&M Costs:      {{ usd .Economic.AnnualOMUSD }}/year
LCOE:                  ${{ fixed .Economic.LCOEUSDPerMWh 2 }}/MWh
Simple Payback:        {{ .Payback }}
Net Present Value:     {{ usd .Economic.NPVUSD }}

=====================================
PROJECT VIABILITY
=====================================
Status: {{ .Viability }}
{{- range .Warnings }}
Note: {{ . }}{{ end }}

=====================================
DISCLAIMER
=====================================
This analysis provides preliminary estimates based on simplified calculations.
Detailed engineering studies, environmental assessments, and site-specific
analyses are required for actual project development.
`

// SummaryData provides fields for rendering the summary report.
type SummaryData struct {
	ID             string
	Name           string
	Generated      string
	HeadM          float64
	FlowM3S        float64
	Turbine        string
	Efficiency     float64
	SiteType       string
	CapacityFactor float64
	Power          assessment.PowerResult
	Economic       assessment.EconomicResult
	Payback        string
	Viability      string
	Warnings       []string
}

var summaryFuncs = template.FuncMap{
	"fixed": func(v float64, places int) string { return fixed(v, int32(places)) },
	"num":   func(v float64, places int) string { return grouped(v, int32(places)) },
	"usd":   usd,
	"pct":   func(v float64) string { return fixed(v*100, 1) + "%" },
}

// SummaryTemplate renders plain-text summary reports.
type SummaryTemplate struct {
	tpl *template.Template
}

var defaultSummary = mustSummaryTemplate(DefaultSummaryTemplate)

// NewSummaryTemplate parses a summary template, falling back to
// DefaultSummaryTemplate.
func NewSummaryTemplate(tpl string) (*SummaryTemplate, error) {
	if tpl == "" {
		tpl = DefaultSummaryTemplate
	}
	parsed, err := template.New("assessment-summary").Funcs(summaryFuncs).Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &SummaryTemplate{tpl: parsed}, nil
}

func mustSummaryTemplate(tpl string) *SummaryTemplate {
	t, err := NewSummaryTemplate(tpl)
	if err != nil {
		panic(err)
	}
	return t
}

// Render applies the template to an assessment.
func (t *SummaryTemplate) Render(a assessment.Assessment) ([]byte, error) {
	if t == nil || t.tpl == nil {
		return nil, errors.New("summary template: nil")
	}
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, NewSummaryData(a)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSummary renders the default plain-text summary.
func BuildSummary(a assessment.Assessment) ([]byte, error) {
	return defaultSummary.Render(a)
}

// NewSummaryData flattens an assessment for templates.
func NewSummaryData(a assessment.Assessment) SummaryData {
	payback := "never"
	if years, ok := a.Economic.PaybackYears.Years(); ok {
		payback = fixed(years, 1) + " years"
	}
	return SummaryData{
		ID:             a.ID,
		Name:           a.Name,
		Generated:      a.GeneratedAt.UTC().Format(time.RFC3339),
		HeadM:          a.Site.HeadM(),
		FlowM3S:        a.Site.FlowM3S(),
		Turbine:        a.Site.TurbineType().Label(),
		Efficiency:     a.Site.Efficiency(),
		SiteType:       a.Site.SiteType().Label(),
		CapacityFactor: a.Site.CapacityFactor(),
		Power:          a.Power,
		Economic:       a.Economic,
		Payback:        payback,
		Viability:      a.Insights.Viability.Label(),
		Warnings:       a.Insights.Warnings,
	}
}
