package assessment

// Engine runs the full calculation for already validated parameters.
type Engine struct {
	Power      PowerModel
	Economic   EconomicModel
	Thresholds ViabilityThresholds
}

// NewEngine builds an engine grading with the given thresholds.
func NewEngine(thresholds ViabilityThresholds) Engine {
	return Engine{Thresholds: thresholds}
}

// Run computes power, economics and insights and aggregates them.
func (e Engine) Run(meta Meta, site SiteParameters, economics EconomicParameters) (Assessment, error) {
	power := e.Power.Calculate(site)
	economic, err := e.Economic.Evaluate(power, economics)
	if err != nil {
		return Assessment{}, err
	}
	insights := Analyze(site, power, economic, e.Thresholds)
	return Aggregate(meta, site, economics, power, economic, insights), nil
}
