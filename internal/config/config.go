package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	assessment "hydropower-calc/internal/assessment/domain"
)

// Preset is a named example site.
type Preset struct {
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description"`
	Site        assessment.SiteInput `yaml:"site" json:"site"`
}

// Config defines calculator service configuration.
type Config struct {
	HTTPAddr  string                         `yaml:"http_addr"`
	JWTSecret string                         `yaml:"jwt_secret"`
	LogLevel  string                         `yaml:"log_level"`
	Viability assessment.ViabilityThresholds `yaml:"viability"`
	Economics assessment.EconomicInput       `yaml:"economics"`
	Presets   []Preset                       `yaml:"presets"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPAddr:  ":8080",
		LogLevel:  "info",
		Viability: assessment.DefaultViabilityThresholds(),
		Economics: assessment.EconomicInput{
			ElectricityPriceUSDPerMWh: 80,
			ProjectLifetimeYears:      30,
			DiscountRate:              0.06,
			CapexUSDPerKW:             3000,
			OMRate:                    0.025,
		},
		Presets: []Preset{
			{
				Name:        "small-run-of-river",
				Description: "Small run-of-river scheme, roughly 800 kW",
				Site: assessment.SiteInput{
					HeadM: 5, FlowM3S: 20, TurbineType: string(assessment.TurbineKaplan),
					Efficiency: 0.85, SiteType: string(assessment.SiteRunOfRiver), CapacityFactor: 0.55,
				},
			},
			{
				Name:        "medium-diversion",
				Description: "Medium diversion scheme, roughly 20 MW",
				Site: assessment.SiteInput{
					HeadM: 50, FlowM3S: 50, TurbineType: string(assessment.TurbineFrancis),
					Efficiency: 0.90, SiteType: string(assessment.SiteDiversion), CapacityFactor: 0.50,
				},
			},
			{
				Name:        "large-impoundment",
				Description: "Large impoundment with dam, roughly 160 MW",
				Site: assessment.SiteInput{
					HeadM: 200, FlowM3S: 100, TurbineType: string(assessment.TurbineFrancis),
					Efficiency: 0.90, SiteType: string(assessment.SiteImpoundment), CapacityFactor: 0.45,
				},
			},
		},
	}
}

// Load builds configuration from defaults, the YAML file named by
// HYDRO_CONFIG (if set), then environment overrides.
func Load() (Config, error) {
	return LoadFile(os.Getenv("HYDRO_CONFIG"))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.HTTPAddr = getenvDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.JWTSecret = getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", cfg.JWTSecret))
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.Economics.ElectricityPriceUSDPerMWh = getenvFloatDefault("DEFAULT_PRICE_USD_PER_MWH", cfg.Economics.ElectricityPriceUSDPerMWh)
	cfg.Economics.ProjectLifetimeYears = getenvIntDefault("DEFAULT_LIFETIME_YEARS", cfg.Economics.ProjectLifetimeYears)
	cfg.Economics.DiscountRate = getenvFloatDefault("DEFAULT_DISCOUNT_RATE", cfg.Economics.DiscountRate)
	cfg.Economics.CapexUSDPerKW = getenvFloatDefault("DEFAULT_CAPEX_USD_PER_KW", cfg.Economics.CapexUSDPerKW)
	cfg.Economics.OMRate = getenvFloatDefault("DEFAULT_OM_RATE", cfg.Economics.OMRate)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that defaults and presets are themselves valid inputs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: http_addr required")
	}
	if _, err := assessment.NewEconomicParameters(c.Economics); err != nil {
		return fmt.Errorf("config: default economics: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Presets))
	for _, preset := range c.Presets {
		if preset.Name == "" {
			return errors.New("config: preset without name")
		}
		if _, dup := seen[preset.Name]; dup {
			return fmt.Errorf("config: duplicate preset %q", preset.Name)
		}
		seen[preset.Name] = struct{}{}
		if _, err := assessment.NewSiteParameters(preset.Site); err != nil {
			return fmt.Errorf("config: preset %q: %w", preset.Name, err)
		}
	}
	return nil
}

// Preset returns the named preset.
func (c Config) Preset(name string) (Preset, bool) {
	for _, preset := range c.Presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return Preset{}, false
}

// AuthEnabled reports whether JWT auth should guard the API.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
