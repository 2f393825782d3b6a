package assessment

// Months in calendar order.
var Months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// seasonalFactors shape generation toward a spring freshet and a late-summer
// low. They are normalized before use.
var seasonalFactors = [12]float64{0.8, 0.9, 1.2, 1.3, 1.1, 0.9, 0.7, 0.6, 0.8, 0.9, 1.0, 0.9}

// MonthlyEnergy is one month of the seasonal profile.
type MonthlyEnergy struct {
	Month     string  `json:"month"`
	EnergyMWh float64 `json:"energy_mwh"`
}

// MonthlyProfile spreads annual energy across the year. The months sum to
// annualEnergyMWh.
func MonthlyProfile(annualEnergyMWh float64) []MonthlyEnergy {
	var total float64
	for _, f := range seasonalFactors {
		total += f
	}
	profile := make([]MonthlyEnergy, len(Months))
	for i, month := range Months {
		profile[i] = MonthlyEnergy{
			Month:     month,
			EnergyMWh: annualEnergyMWh * seasonalFactors[i] / total,
		}
	}
	return profile
}
