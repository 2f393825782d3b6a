package assessment

import (
	"encoding/json"
	"errors"
)

// EconomicInput carries raw financial values.
type EconomicInput struct {
	ElectricityPriceUSDPerMWh float64 `json:"electricity_price_usd_per_mwh" yaml:"electricity_price_usd_per_mwh"`
	ProjectLifetimeYears      int     `json:"project_lifetime_years" yaml:"project_lifetime_years"`
	DiscountRate              float64 `json:"discount_rate" yaml:"discount_rate"`
	CapexUSDPerKW             float64 `json:"capex_usd_per_kw" yaml:"capex_usd_per_kw"`
	OMRate                    float64 `json:"om_rate" yaml:"om_rate"`
}

// EconomicParameters is a validated, immutable set of financial values.
type EconomicParameters struct {
	electricityPrice float64
	lifetimeYears    int
	discountRate     float64
	capexPerKW       float64
	omRate           float64
	valid            bool
}

// NewEconomicParameters validates in and reports every violated field.
func NewEconomicParameters(in EconomicInput) (EconomicParameters, error) {
	if err := validateEconomicInput(in); err != nil {
		return EconomicParameters{}, err
	}
	return EconomicParameters{
		electricityPrice: in.ElectricityPriceUSDPerMWh,
		lifetimeYears:    in.ProjectLifetimeYears,
		discountRate:     in.DiscountRate,
		capexPerKW:       in.CapexUSDPerKW,
		omRate:           in.OMRate,
		valid:            true,
	}, nil
}

func validateEconomicInput(in EconomicInput) error {
	var c checker
	c.number(FieldElectricityPriceUSDPerMWh, in.ElectricityPriceUSDPerMWh, ElectricityPriceRange)
	c.integer(FieldProjectLifetimeYears, in.ProjectLifetimeYears, LifetimeRange)
	c.number(FieldDiscountRate, in.DiscountRate, DiscountRateRange)
	c.number(FieldCapexUSDPerKW, in.CapexUSDPerKW, CapexRange)
	c.number(FieldOMRate, in.OMRate, OMRateRange)
	return errors.Join(c.errs...)
}

func (p EconomicParameters) ElectricityPriceUSDPerMWh() float64 { return p.electricityPrice }
func (p EconomicParameters) ProjectLifetimeYears() int          { return p.lifetimeYears }
func (p EconomicParameters) DiscountRate() float64              { return p.discountRate }
func (p EconomicParameters) CapexUSDPerKW() float64             { return p.capexPerKW }
func (p EconomicParameters) OMRate() float64                    { return p.omRate }

// Valid is false only for the zero value.
func (p EconomicParameters) Valid() bool { return p.valid }

// Input returns the raw form of p.
func (p EconomicParameters) Input() EconomicInput {
	return EconomicInput{
		ElectricityPriceUSDPerMWh: p.electricityPrice,
		ProjectLifetimeYears:      p.lifetimeYears,
		DiscountRate:              p.discountRate,
		CapexUSDPerKW:             p.capexPerKW,
		OMRate:                    p.omRate,
	}
}

func (p EconomicParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Input())
}

func (p *EconomicParameters) UnmarshalJSON(data []byte) error {
	var in EconomicInput
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	parsed, err := NewEconomicParameters(in)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
