package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	assessmentapp "hydropower-calc/internal/assessment/application"
	assessment "hydropower-calc/internal/assessment/domain"
	"hydropower-calc/internal/audit"
	"hydropower-calc/internal/auth"
	"hydropower-calc/internal/config"
	"hydropower-calc/internal/observability/metrics"
	"hydropower-calc/internal/report"
)

const (
	pathAssessments = "/api/v1/assessments"
	pathExport      = "/api/v1/assessments/export."
	pathCompare     = "/api/v1/scenarios/compare"
	pathPresets     = "/api/v1/presets"

	maxBodyBytes = 1 << 20
)

// Handler provides assessment HTTP endpoints.
type Handler struct {
	service     *assessmentapp.Service
	presets     []config.Preset
	economics   assessment.EconomicInput
	auditLogger audit.Logger
	logger      *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithAuditLogger records successful calculations.
func WithAuditLogger(logger audit.Logger) Option {
	return func(h *Handler) { h.auditLogger = logger }
}

// WithLogger sets the handler logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a handler. Presets and default economics fill in
// request sections the caller leaves out.
func NewHandler(service *assessmentapp.Service, presets []config.Preset, economics assessment.EconomicInput, opts ...Option) (*Handler, error) {
	if service == nil {
		return nil, errors.New("assessment handler: nil service")
	}
	h := &Handler{
		service:   service,
		presets:   presets,
		economics: economics,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle(pathAssessments, h)
	mux.Handle("/api/v1/assessments/", h)
	mux.Handle(pathCompare, h)
	mux.Handle(pathPresets, h)
}

// ServeHTTP handles /api/v1/assessments, /api/v1/assessments/export.{format},
// /api/v1/scenarios/compare and /api/v1/presets.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == pathPresets:
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handlePresets(w)
	case path == pathAssessments:
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleAssess(w, r)
	case strings.HasPrefix(path, pathExport):
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleExport(w, r, strings.TrimPrefix(path, pathExport))
	case path == pathCompare:
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleCompare(w, r)
	default:
		http.NotFound(w, r)
	}
}

// requestBody is the wire form of one assessment request. Site may be
// replaced by a named preset and economics default to configured values.
type requestBody struct {
	Name      string                    `json:"name,omitempty"`
	Preset    string                    `json:"preset,omitempty"`
	Site      *assessment.SiteInput     `json:"site,omitempty"`
	Economics *assessment.EconomicInput `json:"economics,omitempty"`
}

type compareBody struct {
	Scenarios []requestBody `json:"scenarios"`
}

type presetView struct {
	config.Preset
	Economics assessment.EconomicInput `json:"economics"`
}

var errUnknownPreset = errors.New("unknown preset")

func (h *Handler) handlePresets(w http.ResponseWriter) {
	views := make([]presetView, 0, len(h.presets))
	for _, preset := range h.presets {
		views = append(views, presetView{Preset: preset, Economics: h.economics})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleAssess(w http.ResponseWriter, r *http.Request) {
	raw, body, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	req, err := h.resolve(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Assess(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
	h.logAudit(r, "assessment.create", result.ID, raw)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, formatName string) {
	start := time.Now()
	format, err := report.ParseFormat(formatName)
	if err != nil {
		metrics.ObserveExport("unknown", metrics.ResultInvalid, time.Since(start))
		http.Error(w, "unsupported export format", http.StatusNotFound)
		return
	}

	raw, body, ok := h.decodeRequest(w, r)
	if !ok {
		metrics.ObserveExport(string(format), metrics.ResultInvalid, time.Since(start))
		return
	}
	req, err := h.resolve(body)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultInvalid, time.Since(start))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.service.Assess(r.Context(), req)
	if err != nil {
		metrics.ObserveExport(string(format), exportOutcome(err), time.Since(start))
		h.respondError(w, r, err)
		return
	}

	data, err := report.Render(format, result)
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ResultError, time.Since(start))
		h.logger.Error("export render failed", zap.String("format", string(format)), zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(string(format), metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(result, format)))
	w.Header().Set("X-Assessment-ID", result.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, "assessment.export."+string(format), result.ID, raw)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	var body compareBody
	if err := json.Unmarshal(raw, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	reqs := make([]assessmentapp.Request, 0, len(body.Scenarios))
	for i, scenario := range body.Scenarios {
		req, err := h.resolve(scenario)
		if err != nil {
			http.Error(w, fmt.Sprintf("scenario %d: %v", i, err), http.StatusBadRequest)
			return
		}
		reqs = append(reqs, req)
	}

	comparison, err := h.service.Compare(r.Context(), reqs)
	if err != nil {
		if errors.Is(err, assessmentapp.ErrTooFewScenarios) || errors.Is(err, assessmentapp.ErrTooManyScenarios) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)

	ids := make([]string, 0, len(comparison.Scenarios))
	for _, scenario := range comparison.Scenarios {
		ids = append(ids, scenario.ID)
	}
	h.logAudit(r, "scenario.compare", strings.Join(ids, ","), raw)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) ([]byte, requestBody, bool) {
	raw, ok := readBody(w, r)
	if !ok {
		return nil, requestBody{}, false
	}
	var body requestBody
	if err := json.Unmarshal(raw, &body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return nil, requestBody{}, false
	}
	return raw, body, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		http.Error(w, "read body error", http.StatusBadRequest)
		return nil, false
	}
	return raw, true
}

func (h *Handler) resolve(body requestBody) (assessmentapp.Request, error) {
	req := assessmentapp.Request{Name: body.Name, Economics: h.economics}
	if body.Preset != "" {
		preset, ok := h.preset(body.Preset)
		if !ok {
			return assessmentapp.Request{}, fmt.Errorf("%w %q", errUnknownPreset, body.Preset)
		}
		req.Site = preset.Site
		if req.Name == "" {
			req.Name = preset.Name
		}
	}
	if body.Site != nil {
		req.Site = *body.Site
	} else if body.Preset == "" {
		return assessmentapp.Request{}, errors.New("site or preset required")
	}
	if body.Economics != nil {
		req.Economics = *body.Economics
	}
	return req, nil
}

func (h *Handler) preset(name string) (config.Preset, bool) {
	for _, preset := range h.presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return config.Preset{}, false
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, assessment.ErrInvalidParameter):
		writeJSON(w, http.StatusUnprocessableEntity, newViolationResponse(err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		h.logger.Error("assessment failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func exportOutcome(err error) string {
	if errors.Is(err, assessment.ErrInvalidParameter) {
		return metrics.ResultInvalid
	}
	return metrics.ResultError
}

func (h *Handler) logAudit(r *http.Request, action, resourceID string, payload []byte) {
	if h.auditLogger == nil {
		return
	}
	err := h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:         auth.SubjectFromContext(r.Context()),
		Role:          string(auth.RoleFromContext(r.Context())),
		Action:        action,
		ResourceType:  "assessment",
		ResourceID:    resourceID,
		PayloadDigest: audit.DigestJSON(payload),
		IP:            audit.ClientIP(r),
		UserAgent:     r.UserAgent(),
	})
	if err != nil {
		h.logger.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
