package assessment

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessment_JSONRoundTrip(t *testing.T) {
	engine := NewEngine(DefaultViabilityThresholds())
	meta := Meta{ID: "3f1c", Name: "reference", GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 123, time.UTC)}

	for _, econ := range []EconomicInput{
		referenceEconomicInput(),
		{ElectricityPriceUSDPerMWh: 20, ProjectLifetimeYears: 20, DiscountRate: 0.1, CapexUSDPerKW: 8000, OMRate: 0.05},
	} {
		original, err := engine.Run(meta, mustSite(t, referenceSiteInput()), mustEconomics(t, econ))
		require.NoError(t, err)

		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded Assessment
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, original, decoded)

		again, err := json.Marshal(decoded)
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(again))
	}
}

func TestAssessment_StableFieldNames(t *testing.T) {
	engine := NewEngine(DefaultViabilityThresholds())
	a, err := engine.Run(Meta{ID: "x"}, mustSite(t, referenceSiteInput()), mustEconomics(t, referenceEconomicInput()))
	require.NoError(t, err)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	doc := map[string]map[string]any{}
	for _, key := range []string{"site", "economics", "power", "economic"} {
		var section map[string]any
		require.NoError(t, json.Unmarshal(raw[key], &section))
		doc[key] = section
	}

	for _, field := range []string{"head_m", "flow_m3s", "turbine_type", "efficiency", "site_type", "capacity_factor"} {
		assert.Contains(t, doc["site"], field)
	}
	for _, field := range []string{"electricity_price_usd_per_mwh", "project_lifetime_years", "discount_rate", "capex_usd_per_kw", "om_rate"} {
		assert.Contains(t, doc["economics"], field)
	}
	for _, field := range []string{"power_kw", "annual_energy_mwh"} {
		assert.Contains(t, doc["power"], field)
	}
	for _, field := range []string{
		"total_capex_usd", "annual_om_usd", "annual_revenue_usd", "annual_net_cash_flow_usd",
		"lcoe_usd_per_mwh", "npv_usd", "payback_years", "cash_flow_series",
	} {
		assert.Contains(t, doc["economic"], field)
	}
}

func TestPayback_JSON(t *testing.T) {
	data, err := json.Marshal(NeverPayback())
	require.NoError(t, err)
	assert.Equal(t, `"never"`, string(data))

	var p Payback
	require.NoError(t, json.Unmarshal([]byte(`14.75`), &p))
	years, ok := p.Years()
	require.True(t, ok)
	assert.Equal(t, 14.75, years)

	require.Error(t, json.Unmarshal([]byte(`"soon"`), &p))
}
