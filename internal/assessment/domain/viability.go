package assessment

// Viability grades a project for screening purposes.
type Viability string

const (
	ViabilityHighlyViable Viability = "highly_viable"
	ViabilityViable       Viability = "viable"
	ViabilityMarginal     Viability = "marginal"
	ViabilityChallenging  Viability = "challenging"
)

// Label returns the report heading for v.
func (v Viability) Label() string {
	switch v {
	case ViabilityHighlyViable:
		return "HIGHLY VIABLE - Excellent economic potential"
	case ViabilityViable:
		return "VIABLE - Good economic potential"
	case ViabilityMarginal:
		return "MARGINAL - Consider optimization"
	default:
		return "CHALLENGING - Detailed study recommended"
	}
}

// ViabilityTier is one grade's limits. A grade applies when LCOE and payback
// are strictly below the limits and, if RequirePositiveNPV is set, NPV > 0.
type ViabilityTier struct {
	MaxLCOE            float64 `yaml:"max_lcoe_usd_per_mwh" json:"max_lcoe_usd_per_mwh"`
	MaxPaybackYears    float64 `yaml:"max_payback_years" json:"max_payback_years"`
	RequirePositiveNPV bool    `yaml:"require_positive_npv" json:"require_positive_npv"`
}

// ViabilityThresholds are checked from the best grade down.
type ViabilityThresholds struct {
	HighlyViable ViabilityTier `yaml:"highly_viable" json:"highly_viable"`
	Viable       ViabilityTier `yaml:"viable" json:"viable"`
	Marginal     ViabilityTier `yaml:"marginal" json:"marginal"`
}

// DefaultViabilityThresholds returns the stock screening grades.
func DefaultViabilityThresholds() ViabilityThresholds {
	return ViabilityThresholds{
		HighlyViable: ViabilityTier{MaxLCOE: 80, MaxPaybackYears: 15, RequirePositiveNPV: true},
		Viable:       ViabilityTier{MaxLCOE: 120, MaxPaybackYears: 20, RequirePositiveNPV: true},
		Marginal:     ViabilityTier{MaxLCOE: 150, MaxPaybackYears: 25},
	}
}

// Classify grades an economic result. A project that never pays back is
// always challenging.
func (t ViabilityThresholds) Classify(result EconomicResult) Viability {
	payback, ok := result.PaybackYears.Years()
	if !ok {
		return ViabilityChallenging
	}
	switch {
	case t.HighlyViable.admits(result, payback):
		return ViabilityHighlyViable
	case t.Viable.admits(result, payback):
		return ViabilityViable
	case t.Marginal.admits(result, payback):
		return ViabilityMarginal
	default:
		return ViabilityChallenging
	}
}

func (tier ViabilityTier) admits(result EconomicResult, payback float64) bool {
	if result.LCOEUSDPerMWh >= tier.MaxLCOE || payback >= tier.MaxPaybackYears {
		return false
	}
	return !tier.RequirePositiveNPV || result.NPVUSD > 0
}
