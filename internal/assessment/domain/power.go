package assessment

// PowerResult holds rated power and yearly energy for a site.
type PowerResult struct {
	PowerKW            float64 `json:"power_kw"`
	AnnualEnergyMWh    float64 `json:"annual_energy_mwh"`
	TheoreticalPowerKW float64 `json:"theoretical_power_kw"`
	SystemLossesKW     float64 `json:"system_losses_kw"`
}

// PowerModel converts hydraulic site parameters into power and energy.
// Turbine and site type are metadata here; they do not enter the formula.
type PowerModel struct{}

// Calculate applies P = rho * g * Q * H * eta and scales by the capacity factor.
func (PowerModel) Calculate(site SiteParameters) PowerResult {
	hydraulicW := WaterDensityKgM3 * GravityMS2 * site.FlowM3S() * site.HeadM()
	powerKW := hydraulicW * site.Efficiency() / WattsPerKilowatt
	theoreticalKW := hydraulicW / WattsPerKilowatt
	return PowerResult{
		PowerKW:            powerKW,
		AnnualEnergyMWh:    powerKW * HoursPerYear * site.CapacityFactor() / KWhPerMWh,
		TheoreticalPowerKW: theoreticalKW,
		SystemLossesKW:     theoreticalKW - powerKW,
	}
}
