package assessment

import (
	"fmt"
	"math"
	"strconv"
)

// Range is a closed numeric interval, optionally open at its lower edge.
type Range struct {
	Min          float64
	Max          float64
	MinExclusive bool
}

// Contains reports whether v lies in the range. NaN and infinities never do.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if r.MinExclusive {
		if v <= r.Min {
			return false
		}
	} else if v < r.Min {
		return false
	}
	return v <= r.Max
}

func (r Range) String() string {
	open := "["
	if r.MinExclusive {
		open = "("
	}
	return fmt.Sprintf("%s%s, %s]", open, formatValue(r.Min), formatValue(r.Max))
}

// Input domains.
var (
	HeadRange           = Range{Min: 0, Max: 500, MinExclusive: true}
	FlowRange           = Range{Min: 0, Max: 1000, MinExclusive: true}
	EfficiencyRange     = Range{Min: 0.80, Max: 0.95}
	CapacityFactorRange = Range{Min: 0.30, Max: 0.90}

	ElectricityPriceRange = Range{Min: 20, Max: 200}
	LifetimeRange         = Range{Min: 20, Max: 50}
	DiscountRateRange     = Range{Min: 0.03, Max: 0.10}
	CapexRange            = Range{Min: 1000, Max: 8000}
	OMRateRange           = Range{Min: 0.01, Max: 0.05}
)

// Field names, shared with the JSON contract.
const (
	FieldHeadM                     = "head_m"
	FieldFlowM3S                   = "flow_m3s"
	FieldTurbineType               = "turbine_type"
	FieldEfficiency                = "efficiency"
	FieldSiteType                  = "site_type"
	FieldCapacityFactor            = "capacity_factor"
	FieldElectricityPriceUSDPerMWh = "electricity_price_usd_per_mwh"
	FieldProjectLifetimeYears      = "project_lifetime_years"
	FieldDiscountRate              = "discount_rate"
	FieldCapexUSDPerKW             = "capex_usd_per_kw"
	FieldOMRate                    = "om_rate"
)

type checker struct {
	errs []error
}

func (c *checker) number(field string, v float64, r Range) {
	if !r.Contains(v) {
		c.errs = append(c.errs, &ValidationError{Field: field, Value: formatValue(v), Bound: r.String()})
	}
}

func (c *checker) integer(field string, v int, r Range) {
	if !r.Contains(float64(v)) {
		c.errs = append(c.errs, &ValidationError{Field: field, Value: strconv.Itoa(v), Bound: r.String()})
	}
}

func (c *checker) fail(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}
