package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	assessment "hydropower-calc/internal/assessment/domain"
)

// BuildCSV renders a parameter/value/unit table followed by the cash-flow
// series.
func BuildCSV(a assessment.Assessment) ([]byte, error) {
	site := a.Site
	econ := a.Economics
	power := a.Power
	result := a.Economic

	rows := [][]string{
		{"Parameter", "Value", "Unit"},
		{"Head", fixed(site.HeadM(), 2), "m"},
		{"Flow Rate", fixed(site.FlowM3S(), 3), "m3/s"},
		{"Turbine Type", site.TurbineType().Label(), "-"},
		{"Overall Efficiency", fixed(site.Efficiency()*100, 1), "%"},
		{"Site Type", site.SiteType().Label(), "-"},
		{"Capacity Factor", fixed(site.CapacityFactor()*100, 1), "%"},
		{"Electricity Price", fixed(econ.ElectricityPriceUSDPerMWh(), 2), "$/MWh"},
		{"Project Lifetime", strconv.Itoa(econ.ProjectLifetimeYears()), "years"},
		{"Discount Rate", fixed(econ.DiscountRate()*100, 2), "%"},
		{"CAPEX per kW", fixed(econ.CapexUSDPerKW(), 2), "$/kW"},
		{"O&M Rate", fixed(econ.OMRate()*100, 2), "% of CAPEX/year"},
		{"", "", ""},
		{"Power Generation", "", ""},
		{"Theoretical Power", fixed(power.TheoreticalPowerKW, 2), "kW"},
		{"Actual Power", fixed(power.PowerKW, 2), "kW"},
		{"System Losses", fixed(power.SystemLossesKW, 2), "kW"},
		{"Annual Energy", fixed(power.AnnualEnergyMWh, 2), "MWh/year"},
		{"", "", ""},
		{"Economic Metrics", "", ""},
		{"Total CAPEX", fixed(result.TotalCapexUSD, 2), "$"},
		{"Unit Cost", fixed(result.UnitCostUSDPerKW, 2), "$/kW"},
		{"Annual Revenue", fixed(result.AnnualRevenueUSD, 2), "$/year"},
		{"Annual O&M", fixed(result.AnnualOMUSD, 2), "$/year"},
		{"Annual Net Cash Flow", fixed(result.AnnualNetCashFlowUSD, 2), "$/year"},
		{"Lifetime O&M", fixed(result.LifetimeOMUSD, 2), "$"},
		{"LCOE", fixed(result.LCOEUSDPerMWh, 2), "$/MWh"},
		{"Simple Payback", paybackText(result.PaybackYears, 2), "years"},
		{"NPV", fixed(result.NPVUSD, 2), "$"},
		{"Viability", string(a.Insights.Viability), "-"},
		{"", "", ""},
		{"Year", "Cash Flow", "Cumulative Cash Flow"},
	}
	for _, point := range result.CashFlowSeries {
		rows = append(rows, []string{
			strconv.Itoa(point.Year),
			fixed(point.CashFlow, 2),
			fixed(point.Cumulative, 2),
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
