package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	assessmentapp "hydropower-calc/internal/assessment/application"
	assessment "hydropower-calc/internal/assessment/domain"
	"hydropower-calc/internal/auth"
	"hydropower-calc/internal/config"
	"hydropower-calc/internal/observability/logging"
	"hydropower-calc/internal/report"
)

type assessFlags struct {
	name   string
	preset string
	format string
	out    string

	site      assessment.SiteInput
	economics assessment.EconomicInput
}

func assessCmd() *cobra.Command {
	var flags assessFlags

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess one site and print or write a report",
		Long: "Assess one site. Site values come from --preset or the site flags; flags given\n" +
			"explicitly override the preset. Economic values default to the configuration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runAssess(cmd, cfg, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.name, "name", "", "project name shown in reports")
	f.StringVar(&flags.preset, "preset", "", "start from a named preset site")
	f.StringVarP(&flags.format, "format", "f", string(report.FormatText), "output format: csv, json, txt, pdf, xlsx")
	f.StringVarP(&flags.out, "out", "o", "", "output file (default stdout)")

	f.Float64Var(&flags.site.HeadM, "head", 50, "net head in metres")
	f.Float64Var(&flags.site.FlowM3S, "flow", 10, "design flow in m3/s")
	f.StringVar(&flags.site.TurbineType, "turbine", string(assessment.TurbineFrancis), "turbine type")
	f.Float64Var(&flags.site.Efficiency, "efficiency", 0.90, "overall efficiency (0.80-0.95)")
	f.StringVar(&flags.site.SiteType, "site-type", string(assessment.SiteDiversion), "site type")
	f.Float64Var(&flags.site.CapacityFactor, "capacity-factor", 0.50, "capacity factor (0.30-0.90)")

	f.Float64Var(&flags.economics.ElectricityPriceUSDPerMWh, "price", 0, "electricity price in $/MWh")
	f.IntVar(&flags.economics.ProjectLifetimeYears, "lifetime", 0, "project lifetime in years")
	f.Float64Var(&flags.economics.DiscountRate, "discount-rate", 0, "discount rate (0.03-0.10)")
	f.Float64Var(&flags.economics.CapexUSDPerKW, "capex", 0, "capital cost in $/kW")
	f.Float64Var(&flags.economics.OMRate, "om-rate", 0, "annual O&M as a share of CAPEX")
	return cmd
}

// buildRequest merges preset, configured defaults and explicitly set flags.
func buildRequest(cmd *cobra.Command, cfg config.Config, flags assessFlags) (assessmentapp.Request, error) {
	changed := cmd.Flags().Changed
	req := assessmentapp.Request{Name: flags.name, Site: flags.site, Economics: cfg.Economics}

	if flags.preset != "" {
		preset, ok := cfg.Preset(flags.preset)
		if !ok {
			return req, fmt.Errorf("unknown preset %q", flags.preset)
		}
		site := preset.Site
		if changed("head") {
			site.HeadM = flags.site.HeadM
		}
		if changed("flow") {
			site.FlowM3S = flags.site.FlowM3S
		}
		if changed("turbine") {
			site.TurbineType = flags.site.TurbineType
		}
		if changed("efficiency") {
			site.Efficiency = flags.site.Efficiency
		}
		if changed("site-type") {
			site.SiteType = flags.site.SiteType
		}
		if changed("capacity-factor") {
			site.CapacityFactor = flags.site.CapacityFactor
		}
		req.Site = site
		if req.Name == "" {
			req.Name = preset.Name
		}
	}

	if changed("price") {
		req.Economics.ElectricityPriceUSDPerMWh = flags.economics.ElectricityPriceUSDPerMWh
	}
	if changed("lifetime") {
		req.Economics.ProjectLifetimeYears = flags.economics.ProjectLifetimeYears
	}
	if changed("discount-rate") {
		req.Economics.DiscountRate = flags.economics.DiscountRate
	}
	if changed("capex") {
		req.Economics.CapexUSDPerKW = flags.economics.CapexUSDPerKW
	}
	if changed("om-rate") {
		req.Economics.OMRate = flags.economics.OMRate
	}
	return req, nil
}

func runAssess(cmd *cobra.Command, cfg config.Config, flags assessFlags) error {
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	req, err := buildRequest(cmd, cfg, flags)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	service, err := assessmentapp.NewService(cfg.Viability, assessmentapp.WithLogger(logger))
	if err != nil {
		return err
	}
	result, err := service.Assess(cmd.Context(), req)
	if err != nil {
		printViolations(cmd.ErrOrStderr(), err)
		return err
	}
	data, err := report.Render(format, result)
	if err != nil {
		return err
	}

	if flags.out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(flags.out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", flags.out, format)
	return nil
}

func printViolations(w io.Writer, err error) {
	violations := assessment.ValidationErrors(err)
	if len(violations) == 0 {
		return
	}
	fmt.Fprintln(w, "invalid parameters:")
	for _, v := range violations {
		fmt.Fprintf(w, "  %s = %s, allowed %s\n", v.Field, v.Value, v.Bound)
	}
}

func presetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List example sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return writePresets(cmd.OutOrStdout(), cfg.Presets, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print presets as JSON")
	return cmd
}

func writePresets(w io.Writer, presets []config.Preset, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(presets)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tHEAD (m)\tFLOW (m3/s)\tTURBINE\tSITE\tDESCRIPTION")
	for _, p := range presets {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%s\t%s\t%s\n",
			p.Name, p.Site.HeadM, p.Site.FlowM3S, p.Site.TurbineType, p.Site.SiteType, p.Description)
	}
	return tw.Flush()
}

func tokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with the configured JWT secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.AuthEnabled() {
				return errors.New("AUTH_JWT_SECRET or jwt_secret must be set")
			}
			normalized, ok := auth.NormalizeRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}
			token, err := auth.IssueJWT([]byte(cfg.JWTSecret), subject, normalized, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleAnalyst), "role: viewer, analyst or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
