package assessment

import (
	"encoding/json"
	"math"
	"reflect"
)

// CashFlowPoint is one year of the undiscounted cash-flow projection.
// Year 0 carries the capital outlay.
type CashFlowPoint struct {
	Year       int     `json:"year"`
	CashFlow   float64 `json:"cash_flow_usd"`
	Cumulative float64 `json:"cumulative_cash_flow_usd"`
}

// EconomicResult holds cost, revenue and viability metrics.
type EconomicResult struct {
	TotalCapexUSD         float64         `json:"total_capex_usd"`
	AnnualOMUSD           float64         `json:"annual_om_usd"`
	AnnualRevenueUSD      float64         `json:"annual_revenue_usd"`
	AnnualNetCashFlowUSD  float64         `json:"annual_net_cash_flow_usd"`
	LCOEUSDPerMWh         float64         `json:"lcoe_usd_per_mwh"`
	NPVUSD                float64         `json:"npv_usd"`
	PaybackYears          Payback         `json:"payback_years"`
	PaybackYear           *int            `json:"payback_year"`
	CashFlowSeries        []CashFlowPoint `json:"cash_flow_series"`
	LifetimeOMUSD         float64         `json:"lifetime_om_usd"`
	UnitCostUSDPerKW      float64         `json:"unit_cost_usd_per_kw"`
	PresentValueOMUSD     float64         `json:"present_value_om_usd"`
	PresentValueEnergyMWh float64         `json:"present_value_energy_mwh"`
}

// Payback is a simple payback period in years, or "never" when the project
// does not recover its capital.
type Payback struct {
	years float64
	never bool
}

// NeverPayback is the payback of a project with non-positive net cash flow.
func NeverPayback() Payback { return Payback{never: true} }

// PaybackAfter returns a finite payback period.
func PaybackAfter(years float64) Payback { return Payback{years: years} }

// Never reports whether the capital is never recovered.
func (p Payback) Never() bool { return p.never }

// Years returns the payback period; ok is false for "never".
func (p Payback) Years() (years float64, ok bool) {
	if p.never {
		return 0, false
	}
	return p.years, true
}

const paybackNever = "never"

func (p Payback) String() string {
	if p.never {
		return paybackNever
	}
	return formatValue(p.years)
}

func (p Payback) MarshalJSON() ([]byte, error) {
	if p.never {
		return json.Marshal(paybackNever)
	}
	return json.Marshal(p.years)
}

func (p *Payback) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		if v != paybackNever {
			return &json.UnmarshalTypeError{Value: "string " + v, Type: jsonPaybackType}
		}
		*p = NeverPayback()
	case float64:
		*p = PaybackAfter(v)
	default:
		return &json.UnmarshalTypeError{Value: string(data), Type: jsonPaybackType}
	}
	return nil
}

// breakEvenTolerance is the share of annual revenue below which a positive
// net cash flow is treated as break-even rounding noise.
const breakEvenTolerance = 1e-9

// EconomicModel converts power output and financial parameters into
// viability metrics.
type EconomicModel struct{}

// Evaluate computes the economic result. It fails only when its inputs break
// invariants that validation guarantees.
func (EconomicModel) Evaluate(power PowerResult, params EconomicParameters) (EconomicResult, error) {
	if err := checkEconomicInputs(power, params); err != nil {
		return EconomicResult{}, err
	}

	n := params.ProjectLifetimeYears()
	r := params.DiscountRate()

	capex := params.CapexUSDPerKW() * power.PowerKW
	om := params.OMRate() * capex
	revenue := power.AnnualEnergyMWh * params.ElectricityPriceUSDPerMWh()
	net := revenue - om

	var pvOM, pvEnergy, pvNet float64
	for t := 1; t <= n; t++ {
		factor := math.Pow(1+r, float64(t))
		pvOM += om / factor
		pvEnergy += power.AnnualEnergyMWh / factor
		pvNet += net / factor
	}

	series := cashFlowSeries(capex, net, n)

	result := EconomicResult{
		TotalCapexUSD:         capex,
		AnnualOMUSD:           om,
		AnnualRevenueUSD:      revenue,
		AnnualNetCashFlowUSD:  net,
		LCOEUSDPerMWh:         (capex + pvOM) / pvEnergy,
		NPVUSD:                -capex + pvNet,
		PaybackYears:          NeverPayback(),
		CashFlowSeries:        series,
		LifetimeOMUSD:         om * float64(n),
		UnitCostUSDPerKW:      capex / power.PowerKW,
		PresentValueOMUSD:     pvOM,
		PresentValueEnergyMWh: pvEnergy,
	}
	if net > breakEvenTolerance*revenue {
		result.PaybackYears = PaybackAfter(capex / net)
		year := paybackYear(series, net)
		result.PaybackYear = &year
	}
	return result, nil
}

func checkEconomicInputs(power PowerResult, params EconomicParameters) error {
	if !params.Valid() {
		return &EconomicError{Reason: "unvalidated economic parameters"}
	}
	if err := validateEconomicInput(params.Input()); err != nil {
		return &EconomicError{Reason: err.Error()}
	}
	if !(power.PowerKW > 0) || math.IsInf(power.PowerKW, 0) {
		return &EconomicError{Reason: "non-positive power"}
	}
	if !(power.AnnualEnergyMWh > 0) || math.IsInf(power.AnnualEnergyMWh, 0) {
		return &EconomicError{Reason: "non-positive annual energy"}
	}
	return nil
}

// cashFlowSeries accumulates year by year from -capex at year 0.
func cashFlowSeries(capex, net float64, years int) []CashFlowPoint {
	series := make([]CashFlowPoint, 0, years+1)
	cumulative := -capex
	series = append(series, CashFlowPoint{Year: 0, CashFlow: -capex, Cumulative: cumulative})
	for t := 1; t <= years; t++ {
		cumulative += net
		series = append(series, CashFlowPoint{Year: t, CashFlow: net, Cumulative: cumulative})
	}
	return series
}

// paybackYear returns the first year whose cumulative cash flow is >= 0.
// Within the projection it reads the series; past it, it extrapolates the
// same accumulation.
func paybackYear(series []CashFlowPoint, net float64) int {
	for _, point := range series {
		if point.Cumulative >= 0 {
			return point.Year
		}
	}
	last := series[len(series)-1]
	year := last.Year + int(math.Ceil(-last.Cumulative/net))
	if year <= last.Year {
		year = last.Year + 1
	}
	for year > last.Year+1 && cumulativeAt(last, net, year-1) >= 0 {
		year--
	}
	for cumulativeAt(last, net, year) < 0 {
		year++
	}
	return year
}

func cumulativeAt(from CashFlowPoint, net float64, year int) float64 {
	return from.Cumulative + float64(year-from.Year)*net
}

var jsonPaybackType = reflect.TypeOf(Payback{})
