package assessment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func referenceSiteInput() SiteInput {
	return SiteInput{
		HeadM:          50,
		FlowM3S:        10,
		TurbineType:    "francis",
		Efficiency:     0.90,
		SiteType:       "diversion",
		CapacityFactor: 0.5,
	}
}

func referenceEconomicInput() EconomicInput {
	return EconomicInput{
		ElectricityPriceUSDPerMWh: 60,
		ProjectLifetimeYears:      30,
		DiscountRate:              0.06,
		CapexUSDPerKW:             3000,
		OMRate:                    0.02,
	}
}

func mustSite(t *testing.T, in SiteInput) SiteParameters {
	t.Helper()
	site, err := NewSiteParameters(in)
	require.NoError(t, err)
	return site
}

func mustEconomics(t *testing.T, in EconomicInput) EconomicParameters {
	t.Helper()
	params, err := NewEconomicParameters(in)
	require.NoError(t, err)
	return params
}

func relClose(t *testing.T, expected, actual float64, msgAndArgs ...any) {
	t.Helper()
	require.InEpsilon(t, expected, actual, 1e-6, msgAndArgs...)
}
