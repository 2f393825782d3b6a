package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	assessment "hydropower-calc/internal/assessment/domain"
)

// BuildPDF renders a printable assessment with inputs, results and the
// cash-flow table.
func BuildPDF(a assessment.Assessment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Hydropower Site Assessment", false)
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Hydropower Site Assessment")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	if a.Name != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", a.Name))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Assessment: %s", a.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", a.GeneratedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pairs := func(title string, rows [][2]string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, title)
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		for _, row := range rows {
			pdf.CellFormat(70, 6, row[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 6, row[1], "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	site := a.Site
	econ := a.Economics
	pairs("Site Parameters", [][2]string{
		{"Net head", fixed(site.HeadM(), 1) + " m"},
		{"Design flow", fixed(site.FlowM3S(), 2) + " m3/s"},
		{"Turbine", site.TurbineType().Label()},
		{"Efficiency", fixed(site.Efficiency()*100, 1) + " %"},
		{"Site type", site.SiteType().Label()},
		{"Capacity factor", fixed(site.CapacityFactor()*100, 1) + " %"},
	})
	pairs("Financial Parameters", [][2]string{
		{"Electricity price", fixed(econ.ElectricityPriceUSDPerMWh(), 2) + " $/MWh"},
		{"Project lifetime", strconv.Itoa(econ.ProjectLifetimeYears()) + " years"},
		{"Discount rate", fixed(econ.DiscountRate()*100, 2) + " %"},
		{"CAPEX", fixed(econ.CapexUSDPerKW(), 0) + " $/kW"},
		{"O&M rate", fixed(econ.OMRate()*100, 2) + " % of CAPEX"},
	})
	pairs("Results", [][2]string{
		{"Power output", grouped(a.Power.PowerKW, 1) + " kW"},
		{"Annual energy", grouped(a.Power.AnnualEnergyMWh, 1) + " MWh"},
		{"Total CAPEX", usd(a.Economic.TotalCapexUSD)},
		{"Annual revenue", usd(a.Economic.AnnualRevenueUSD)},
		{"Annual O&M", usd(a.Economic.AnnualOMUSD)},
		{"LCOE", "$" + fixed(a.Economic.LCOEUSDPerMWh, 2) + "/MWh"},
		{"NPV", usd(a.Economic.NPVUSD)},
		{"Simple payback", paybackText(a.Economic.PaybackYears, 1)},
		{"Viability", a.Insights.Viability.Label()},
	})

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Year", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Cash Flow ($)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Cumulative ($)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, point := range a.Economic.CashFlowSeries {
		pdf.CellFormat(30, 6, strconv.Itoa(point.Year), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, grouped(point.CashFlow, 0), "1", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, grouped(point.Cumulative, 0), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
