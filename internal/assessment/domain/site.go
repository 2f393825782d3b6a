package assessment

import (
	"encoding/json"
	"errors"
)

// SiteInput carries raw hydraulic site values as they arrive from a form,
// a request body or CLI flags.
type SiteInput struct {
	HeadM          float64 `json:"head_m" yaml:"head_m"`
	FlowM3S        float64 `json:"flow_m3s" yaml:"flow_m3s"`
	TurbineType    string  `json:"turbine_type" yaml:"turbine_type"`
	Efficiency     float64 `json:"efficiency" yaml:"efficiency"`
	SiteType       string  `json:"site_type" yaml:"site_type"`
	CapacityFactor float64 `json:"capacity_factor" yaml:"capacity_factor"`
}

// SiteParameters is a validated, immutable set of site values.
// The only way to obtain a usable value is NewSiteParameters.
type SiteParameters struct {
	headM          float64
	flowM3S        float64
	turbineType    TurbineType
	efficiency     float64
	siteType       SiteType
	capacityFactor float64
	valid          bool
}

// NewSiteParameters validates in. Every violated field is reported; values
// are never clamped.
func NewSiteParameters(in SiteInput) (SiteParameters, error) {
	var c checker
	c.number(FieldHeadM, in.HeadM, HeadRange)
	c.number(FieldFlowM3S, in.FlowM3S, FlowRange)
	turbine, err := ParseTurbineType(in.TurbineType)
	c.fail(err)
	c.number(FieldEfficiency, in.Efficiency, EfficiencyRange)
	site, err := ParseSiteType(in.SiteType)
	c.fail(err)
	c.number(FieldCapacityFactor, in.CapacityFactor, CapacityFactorRange)
	if len(c.errs) > 0 {
		return SiteParameters{}, errors.Join(c.errs...)
	}
	return SiteParameters{
		headM:          in.HeadM,
		flowM3S:        in.FlowM3S,
		turbineType:    turbine,
		efficiency:     in.Efficiency,
		siteType:       site,
		capacityFactor: in.CapacityFactor,
		valid:          true,
	}, nil
}

func (p SiteParameters) HeadM() float64           { return p.headM }
func (p SiteParameters) FlowM3S() float64         { return p.flowM3S }
func (p SiteParameters) TurbineType() TurbineType { return p.turbineType }
func (p SiteParameters) Efficiency() float64      { return p.efficiency }
func (p SiteParameters) SiteType() SiteType       { return p.siteType }
func (p SiteParameters) CapacityFactor() float64  { return p.capacityFactor }

// Valid is false only for the zero value.
func (p SiteParameters) Valid() bool { return p.valid }

// Input returns the raw form of p.
func (p SiteParameters) Input() SiteInput {
	return SiteInput{
		HeadM:          p.headM,
		FlowM3S:        p.flowM3S,
		TurbineType:    string(p.turbineType),
		Efficiency:     p.efficiency,
		SiteType:       string(p.siteType),
		CapacityFactor: p.capacityFactor,
	}
}

func (p SiteParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Input())
}

// UnmarshalJSON decodes and re-validates, so a decoded value obeys the same
// invariants as a constructed one.
func (p *SiteParameters) UnmarshalJSON(data []byte) error {
	var in SiteInput
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	parsed, err := NewSiteParameters(in)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
