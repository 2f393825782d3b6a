package assessment

import (
	"fmt"
	"time"
)

// Insights are descriptive extras derived from the calculated results.
type Insights struct {
	TypicalTurbineEfficiency float64         `json:"typical_turbine_efficiency"`
	TurbineHeadSpan          string          `json:"turbine_head_span"`
	MonthlyProfile           []MonthlyEnergy `json:"monthly_profile"`
	Viability                Viability       `json:"viability"`
	Warnings                 []string        `json:"warnings,omitempty"`
}

// Analyze derives insights. It never changes the calculated figures.
func Analyze(site SiteParameters, power PowerResult, economic EconomicResult, thresholds ViabilityThresholds) Insights {
	insights := Insights{
		TypicalTurbineEfficiency: TypicalTurbineEfficiency(site.TurbineType(), site.HeadM()),
		MonthlyProfile:           MonthlyProfile(power.AnnualEnergyMWh),
		Viability:                thresholds.Classify(economic),
	}
	if span, ok := TypicalHeadSpan(site.TurbineType()); ok {
		insights.TurbineHeadSpan = span.String()
		if !TurbineSuitable(site.TurbineType(), site.HeadM()) {
			insights.Warnings = append(insights.Warnings, fmt.Sprintf(
				"%s turbines are usually built for heads of %s; site head is %s m",
				site.TurbineType().Label(), span, formatValue(site.HeadM())))
		}
	}
	if economic.PaybackYears.Never() {
		insights.Warnings = append(insights.Warnings, "annual O&M meets or exceeds revenue; the project never pays back")
	} else if economic.PaybackYear != nil && *economic.PaybackYear > len(economic.CashFlowSeries)-1 {
		insights.Warnings = append(insights.Warnings, fmt.Sprintf(
			"payback in year %d falls after the %d-year project lifetime", *economic.PaybackYear, len(economic.CashFlowSeries)-1))
	}
	return insights
}

// Assessment is the complete record of one calculation: the parameter
// echoes, both model results and the insights. Exporters read it; nothing
// mutates it after Aggregate.
type Assessment struct {
	ID          string             `json:"id"`
	Name        string             `json:"name,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	Site        SiteParameters     `json:"site"`
	Economics   EconomicParameters `json:"economics"`
	Power       PowerResult        `json:"power"`
	Economic    EconomicResult     `json:"economic"`
	Insights    Insights           `json:"insights"`
}

// Meta identifies an assessment.
type Meta struct {
	ID          string
	Name        string
	GeneratedAt time.Time
}

// Aggregate packages inputs and results into an Assessment.
func Aggregate(meta Meta, site SiteParameters, economics EconomicParameters, power PowerResult, economic EconomicResult, insights Insights) Assessment {
	return Assessment{
		ID:          meta.ID,
		Name:        meta.Name,
		GeneratedAt: meta.GeneratedAt,
		Site:        site,
		Economics:   economics,
		Power:       power,
		Economic:    economic,
		Insights:    insights,
	}
}
