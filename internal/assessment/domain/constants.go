package assessment

// Physical constants.
const (
	WaterDensityKgM3 = 1000.0
	GravityMS2       = 9.81
)

// Unit conversions.
const (
	WattsPerKilowatt = 1000.0
	KWhPerMWh        = 1000.0
	HoursPerYear     = 8760.0
)
