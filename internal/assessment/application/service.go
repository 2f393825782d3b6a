package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	assessment "hydropower-calc/internal/assessment/domain"
	"hydropower-calc/internal/observability/metrics"
)

// MaxScenarios bounds a single comparison request.
const MaxScenarios = 20

var (
	// ErrTooFewScenarios is returned when a comparison has fewer than two scenarios.
	ErrTooFewScenarios = errors.New("assessment service: at least two scenarios required")
	// ErrTooManyScenarios is returned when a comparison exceeds MaxScenarios.
	ErrTooManyScenarios = fmt.Errorf("assessment service: at most %d scenarios allowed", MaxScenarios)
)

// Request carries raw inputs for one assessment.
type Request struct {
	Name      string                   `json:"name,omitempty"`
	Site      assessment.SiteInput     `json:"site"`
	Economics assessment.EconomicInput `json:"economics"`
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator issues assessment identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service validates raw inputs and runs the calculation engine.
type Service struct {
	engine assessment.Engine
	clock  Clock
	ids    IDGenerator
	logger *zap.Logger
}

// NewService constructs the service grading with thresholds.
func NewService(thresholds assessment.ViabilityThresholds, opts ...Option) (*Service, error) {
	if err := validateThresholds(thresholds); err != nil {
		return nil, err
	}
	s := &Service{
		engine: assessment.NewEngine(thresholds),
		clock:  SystemClock{},
		ids:    UUIDGenerator{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Thresholds returns the viability thresholds used for grading.
func (s *Service) Thresholds() assessment.ViabilityThresholds {
	return s.engine.Thresholds
}

// Assess validates req and returns the complete assessment. Validation
// failures of both inputs are reported together.
func (s *Service) Assess(ctx context.Context, req Request) (assessment.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return assessment.Assessment{}, err
	}
	start := time.Now()
	result, err := s.assess(req)
	duration := time.Since(start)

	switch {
	case err == nil:
		metrics.ObserveAssessment(metrics.ResultSuccess, duration)
		metrics.IncViability(string(result.Insights.Viability))
		s.logger.Debug("assessment completed",
			zap.String("id", result.ID),
			zap.String("name", result.Name),
			zap.Float64("power_kw", result.Power.PowerKW),
			zap.Float64("npv_usd", result.Economic.NPVUSD),
			zap.String("viability", string(result.Insights.Viability)),
			zap.Duration("duration", duration))
	case errors.Is(err, assessment.ErrInvalidParameter):
		metrics.ObserveAssessment(metrics.ResultInvalid, duration)
		for _, violation := range assessment.ValidationErrors(err) {
			metrics.IncValidationFailure(violation.Field)
		}
		s.logger.Debug("assessment rejected", zap.String("name", req.Name), zap.Error(err))
	default:
		metrics.ObserveAssessment(metrics.ResultError, duration)
		s.logger.Error("assessment failed", zap.String("name", req.Name), zap.Error(err))
	}
	return result, err
}

func (s *Service) assess(req Request) (assessment.Assessment, error) {
	site, siteErr := assessment.NewSiteParameters(req.Site)
	economics, econErr := assessment.NewEconomicParameters(req.Economics)
	if err := errors.Join(siteErr, econErr); err != nil {
		return assessment.Assessment{}, err
	}
	meta := assessment.Meta{
		ID:          s.ids.NewID(),
		Name:        req.Name,
		GeneratedAt: s.clock.Now().UTC(),
	}
	return s.engine.Run(meta, site, economics)
}

// RankedScenario is one line of a comparison ranking.
type RankedScenario struct {
	Rank          int                  `json:"rank"`
	ID            string               `json:"id"`
	Name          string               `json:"name,omitempty"`
	NPVUSD        float64              `json:"npv_usd"`
	LCOEUSDPerMWh float64              `json:"lcoe_usd_per_mwh"`
	PaybackYears  assessment.Payback   `json:"payback_years"`
	PowerKW       float64              `json:"power_kw"`
	Viability     assessment.Viability `json:"viability"`
	ScenarioIndex int                  `json:"scenario_index"`
}

// Comparison holds every scenario assessment and their ranking by NPV.
type Comparison struct {
	Scenarios []assessment.Assessment `json:"scenarios"`
	Ranking   []RankedScenario        `json:"ranking"`
}

// ScenarioError identifies the scenario that failed in a comparison.
type ScenarioError struct {
	Index int
	Name  string
	Err   error
}

func (e *ScenarioError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("scenario %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("scenario %d: %v", e.Index, e.Err)
}

func (e *ScenarioError) Unwrap() error { return e.Err }

// Compare assesses every request and ranks them by NPV, highest first.
// Ties keep request order. Any failing scenario fails the comparison.
func (s *Service) Compare(ctx context.Context, reqs []Request) (Comparison, error) {
	if len(reqs) < 2 {
		metrics.ObserveComparison(metrics.ResultInvalid, len(reqs))
		return Comparison{}, ErrTooFewScenarios
	}
	if len(reqs) > MaxScenarios {
		metrics.ObserveComparison(metrics.ResultInvalid, len(reqs))
		return Comparison{}, ErrTooManyScenarios
	}

	scenarios := make([]assessment.Assessment, 0, len(reqs))
	var errs []error
	for i, req := range reqs {
		result, err := s.Assess(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Comparison{}, ctxErr
			}
			errs = append(errs, &ScenarioError{Index: i, Name: req.Name, Err: err})
			continue
		}
		scenarios = append(scenarios, result)
	}
	if err := errors.Join(errs...); err != nil {
		outcome := metrics.ResultError
		if errors.Is(err, assessment.ErrInvalidParameter) {
			outcome = metrics.ResultInvalid
		}
		metrics.ObserveComparison(outcome, len(reqs))
		return Comparison{}, err
	}

	metrics.ObserveComparison(metrics.ResultSuccess, len(reqs))
	return Comparison{Scenarios: scenarios, Ranking: rank(scenarios)}, nil
}

func rank(scenarios []assessment.Assessment) []RankedScenario {
	ranking := make([]RankedScenario, len(scenarios))
	for i, a := range scenarios {
		ranking[i] = RankedScenario{
			ID:            a.ID,
			Name:          a.Name,
			NPVUSD:        a.Economic.NPVUSD,
			LCOEUSDPerMWh: a.Economic.LCOEUSDPerMWh,
			PaybackYears:  a.Economic.PaybackYears,
			PowerKW:       a.Power.PowerKW,
			Viability:     a.Insights.Viability,
			ScenarioIndex: i,
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].NPVUSD > ranking[j].NPVUSD
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}
	return ranking
}

func validateThresholds(t assessment.ViabilityThresholds) error {
	tiers := []struct {
		name string
		tier assessment.ViabilityTier
	}{
		{"highly_viable", t.HighlyViable},
		{"viable", t.Viable},
		{"marginal", t.Marginal},
	}
	for _, item := range tiers {
		if item.tier.MaxLCOE <= 0 || item.tier.MaxPaybackYears <= 0 {
			return fmt.Errorf("assessment service: viability tier %s needs positive limits", item.name)
		}
	}
	if t.HighlyViable.MaxLCOE > t.Viable.MaxLCOE || t.Viable.MaxLCOE > t.Marginal.MaxLCOE {
		return errors.New("assessment service: viability LCOE limits must not decrease from highly_viable to marginal")
	}
	return nil
}
