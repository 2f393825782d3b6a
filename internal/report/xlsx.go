package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	assessment "hydropower-calc/internal/assessment/domain"
)

const (
	sheetSummary  = "summary"
	sheetCashFlow = "cash_flow"
	sheetMonthly  = "monthly"
)

// BuildXLSX renders summary, cash-flow and monthly-profile sheets.
func BuildXLSX(a assessment.Assessment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetCashFlow, sheetMonthly} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	site := a.Site
	econ := a.Economics
	summary := [][]any{
		{"Hydropower Site Assessment", ""},
		{"Assessment", a.ID},
		{"Name", a.Name},
		{"Head (m)", site.HeadM()},
		{"Flow (m3/s)", site.FlowM3S()},
		{"Turbine", string(site.TurbineType())},
		{"Efficiency", site.Efficiency()},
		{"Site Type", string(site.SiteType())},
		{"Capacity Factor", site.CapacityFactor()},
		{"Electricity Price ($/MWh)", econ.ElectricityPriceUSDPerMWh()},
		{"Project Lifetime (years)", econ.ProjectLifetimeYears()},
		{"Discount Rate", econ.DiscountRate()},
		{"CAPEX ($/kW)", econ.CapexUSDPerKW()},
		{"O&M Rate", econ.OMRate()},
		{"Power (kW)", a.Power.PowerKW},
		{"Annual Energy (MWh)", a.Power.AnnualEnergyMWh},
		{"Total CAPEX ($)", a.Economic.TotalCapexUSD},
		{"Annual Revenue ($)", a.Economic.AnnualRevenueUSD},
		{"Annual O&M ($)", a.Economic.AnnualOMUSD},
		{"Annual Net Cash Flow ($)", a.Economic.AnnualNetCashFlowUSD},
		{"LCOE ($/MWh)", a.Economic.LCOEUSDPerMWh},
		{"NPV ($)", a.Economic.NPVUSD},
		{"Simple Payback (years)", paybackCell(a.Economic.PaybackYears)},
		{"Viability", string(a.Insights.Viability)},
	}
	for i, row := range summary {
		if err := setRow(f, sheetSummary, i+1, row...); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, sheetCashFlow, 1, "Year", "Cash Flow ($)", "Cumulative ($)"); err != nil {
		return nil, err
	}
	for i, point := range a.Economic.CashFlowSeries {
		if err := setRow(f, sheetCashFlow, i+2, point.Year, point.CashFlow, point.Cumulative); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, sheetMonthly, 1, "Month", "Energy (MWh)"); err != nil {
		return nil, err
	}
	for i, month := range a.Insights.MonthlyProfile {
		if err := setRow(f, sheetMonthly, i+2, month.Month, month.EnergyMWh); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("report: %s row %d: %w", sheet, row, err)
	}
	return nil
}

func paybackCell(p assessment.Payback) any {
	if years, ok := p.Years(); ok {
		return years
	}
	return "never"
}
