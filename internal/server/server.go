package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-payoff/internal/cache"
	"github.com/iwvelando/mortgage-payoff/internal/config"
	"github.com/iwvelando/mortgage-payoff/internal/optimizer"
	"github.com/iwvelando/mortgage-payoff/internal/projection"
	"github.com/iwvelando/mortgage-payoff/pkg/amortization"
	"github.com/iwvelando/mortgage-payoff/pkg/constants"
	"github.com/iwvelando/mortgage-payoff/pkg/datetime"
	"github.com/iwvelando/mortgage-payoff/pkg/output"
	"github.com/iwvelando/mortgage-payoff/pkg/roundup"
	"github.com/iwvelando/mortgage-payoff/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options tune the handler. The zero value serves without a cache, on the
// wall clock, with a private metrics registry.
type Options struct {
	MaxUploadSize int64
	Version       string
	Cache         cache.Cache
	CacheTTL      time.Duration
	Now           func() time.Time
	Registry      *prometheus.Registry
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
	cacheTTL      time.Duration
	now           func() time.Time
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		now:           now,
		metrics:       newMetrics(registry),
	}

	mux := http.NewServeMux()

	// Dashboard stats against the original schedule
	mux.Handle("/api/stats", h.instrument("stats", h.handleStats))

	// Month-by-month schedule, cached by request
	mux.Handle("/api/schedule", h.instrument("schedule", h.handleSchedule))

	// Goal-setting preset comparison
	mux.Handle("/api/scenarios", h.instrument("scenarios", h.handleScenarios))

	// Smallest extra payment meeting a target
	mux.Handle("/api/goal", h.instrument("goal", h.handleGoal))

	// Spare change and surplus pot progress
	mux.Handle("/api/roundups", h.instrument("roundups", h.handleRoundUps))

	// Full report for an uploaded configuration file
	mux.Handle("/api/projection", h.instrument("projection", h.handleProjection))

	// Version endpoint for UI metadata
	mux.Handle("/api/version", h.instrument("version", h.handleVersion))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return withRequestID(mux)
}

type statsRequest struct {
	Mortgage     config.MortgageConfig `json:"mortgage"`
	ExtraPayment float64               `json:"extraPayment"`
}

type statsResponse struct {
	Baseline amortization.Stats `json:"baseline"`
	Plan     amortization.Stats `json:"plan"`
	Warnings []string           `json:"warnings,omitempty"`
}

type scheduleResponse struct {
	Entries []amortization.Entry `json:"entries"`
}

type scenariosRequest struct {
	Mortgage config.MortgageConfig `json:"mortgage"`
	Amounts  []float64             `json:"amounts,omitempty"`
}

type scenariosResponse struct {
	Scenarios []projection.Scenario `json:"scenarios"`
}

type goalRequest struct {
	Mortgage            config.MortgageConfig `json:"mortgage"`
	TargetMonths        int                   `json:"targetMonths,omitempty"`
	TargetInterestSaved float64               `json:"targetInterestSaved,omitempty"`
	Min                 *float64              `json:"min,omitempty"`
	Max                 *float64              `json:"max,omitempty"`
	Tolerance           float64               `json:"tolerance,omitempty"`
}

type roundUpsRequest struct {
	Transactions []roundup.Transaction `json:"transactions"`
	Surplus      float64               `json:"surplus,omitempty"`
	Threshold    float64               `json:"threshold,omitempty"`
}

type roundUpsResponse struct {
	Total    decimal.Decimal   `json:"total"`
	Progress roundup.PotStatus `json:"progress"`
}

// scheduleCacheKey identifies a schedule by its inputs, with the start
// resolved to the full timestamp the entry dates are derived from.
type scheduleCacheKey struct {
	Mortgage     config.MortgageConfig `json:"mortgage"`
	ExtraPayment float64               `json:"extraPayment"`
	Start        string                `json:"start"`
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStats"
	if !h.requireMethod(w, r, http.MethodPost, op) {
		return
	}

	var req statsRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	m, ok := h.mortgage(w, req.Mortgage, op)
	if !ok {
		return
	}
	if err := validation.ValidateExtraPayment(req.ExtraPayment); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	calc := h.calculator()
	baseline, err := calc.Stats(m, 0)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}
	plan, err := calc.Stats(m, req.ExtraPayment)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, statsResponse{Baseline: baseline, Plan: plan, Warnings: plan.Warnings()})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if !h.requireMethod(w, r, http.MethodPost, op) {
		return
	}

	var req statsRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	m, ok := h.mortgage(w, req.Mortgage, op)
	if !ok {
		return
	}
	if err := validation.ValidateExtraPayment(req.ExtraPayment); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	now := h.now()
	key, err := cache.Key("schedule", scheduleCacheKey{
		Mortgage:     req.Mortgage,
		ExtraPayment: req.ExtraPayment,
		Start:        datetime.ResolveStart(m.StartDate, now).Format(time.RFC3339Nano),
	})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	if body, hit := h.cacheGet(r, key, op); hit {
		w.Header().Set("X-Cache", "HIT")
		h.writeRaw(w, http.StatusOK, body)
		return
	}

	calc := amortization.NewCalculator(h.logger, func() time.Time { return now })
	entries, err := calc.Schedule(m, req.ExtraPayment)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	body, err := json.Marshal(scheduleResponse{Entries: entries})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode schedule: %v", err), op)
		return
	}
	body = append(body, '\n')
	h.cacheSet(r, key, body, op)

	w.Header().Set("X-Cache", "MISS")
	h.writeRaw(w, http.StatusOK, body)
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarios"
	if !h.requireMethod(w, r, http.MethodPost, op) {
		return
	}

	var req scenariosRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	m, ok := h.mortgage(w, req.Mortgage, op)
	if !ok {
		return
	}

	amounts := req.Amounts
	if len(amounts) == 0 {
		amounts = (&config.Configuration{}).ScenarioAmounts()
	}
	for _, amount := range amounts {
		if err := validation.ValidateExtraPayment(amount); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	scenarios, err := projection.CompareScenarios(h.calculator(), m, amounts)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, scenariosResponse{Scenarios: scenarios})
}

func (h *handler) handleGoal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGoal"
	if !h.requireMethod(w, r, http.MethodPost, op) {
		return
	}

	var req goalRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	m, ok := h.mortgage(w, req.Mortgage, op)
	if !ok {
		return
	}

	bounds := []struct {
		name  string
		value *float64
	}{{"min", req.Min}, {"max", req.Max}}
	for _, bound := range bounds {
		if bound.value == nil {
			continue
		}
		if err := validation.ValidateExtraPayment(*bound.value); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("%s: %v", bound.name, err), op)
			return
		}
	}

	runner, err := optimizer.NewRunner(h.logger, h.calculator(), m)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to initialize optimizer: %v", err), op)
		return
	}

	summary, err := runner.Solve(optimizer.Goal{
		TargetMonths:        req.TargetMonths,
		TargetInterestSaved: req.TargetInterestSaved,
		Min:                 req.Min,
		Max:                 req.Max,
		Tolerance:           req.Tolerance,
	})
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleRoundUps(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRoundUps"
	if !h.requireMethod(w, r, http.MethodPost, op) {
		return
	}

	var req roundUpsRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	total, err := roundup.AggregateRoundUps(req.Transactions)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	progress, err := roundup.Progress(req.Surplus+total.InexactFloat64(), req.Threshold)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, roundUpsResponse{Total: total, Progress: progress})
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if !h.requireMethod(w, r, http.MethodPost, op) {
		return
	}

	outputFormat := r.URL.Query().Get("format")
	if outputFormat == "" {
		outputFormat = constants.OutputFormatJSON
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}
	if err := checkYAMLMapping(buf.Bytes()); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := cfg.ProcessMortgage(h.logger); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	report, err := projection.GetProjectionWithFixedTime(h.logger, *cfg, h.now())
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.String("requestId", RequestID(r.Context())),
		zap.Int("scenarios", len(report.Scenarios)),
		zap.Int("warnings", len(report.Warnings)),
		zap.Duration("duration", time.Since(start)),
	)

	if outputFormat == constants.OutputFormatJSON {
		h.writeJSON(w, http.StatusOK, report)
		return
	}

	var rendered bytes.Buffer
	if err := output.Write(&rendered, outputFormat, report); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err), op)
		return
	}
	contentType := "text/plain; charset=utf-8"
	if outputFormat == constants.OutputFormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rendered.Bytes()); err != nil {
		h.logger.Error("failed to write response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !h.requireMethod(w, r, http.MethodGet, "server.handleVersion") {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) calculator() *amortization.Calculator {
	return amortization.NewCalculator(h.logger, h.now)
}

// mortgage fills in a missing payment, validates the form ranges and converts
// the request into engine input. It responds with 400 and returns false on
// failure.
func (h *handler) mortgage(w http.ResponseWriter, mc config.MortgageConfig, op string) (amortization.MortgageDetails, bool) {
	cfg := config.Configuration{Mortgage: mc}
	if err := cfg.ProcessMortgage(h.logger); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return amortization.MortgageDetails{}, false
	}
	m, err := cfg.MortgageDetails()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return amortization.MortgageDetails{}, false
	}
	return m, true
}

func (h *handler) requireMethod(w http.ResponseWriter, r *http.Request, method, op string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
	return false
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) cacheGet(r *http.Request, key, op string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	body, found, err := h.cache.Get(r.Context(), key)
	if err != nil {
		h.logger.Warn("cache lookup failed",
			zap.String("op", op),
			zap.String("requestId", RequestID(r.Context())),
			zap.Error(err),
		)
		h.metrics.cache.WithLabelValues("error").Inc()
		return nil, false
	}
	if !found {
		h.metrics.cache.WithLabelValues("miss").Inc()
		return nil, false
	}
	h.metrics.cache.WithLabelValues("hit").Inc()
	return body, true
}

func (h *handler) cacheSet(r *http.Request, key string, body []byte, op string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(r.Context(), key, body, h.cacheTTL); err != nil {
		h.logger.Warn("cache store failed",
			zap.String("op", op),
			zap.String("requestId", RequestID(r.Context())),
			zap.Error(err),
		)
	}
}

// checkYAMLMapping rejects uploads that are not a single YAML mapping before
// they reach the configuration loader.
func checkYAMLMapping(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("configuration is empty")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return err
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return errors.New("configuration must be a YAML mapping")
	}
	return nil
}

func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	var calcErr *amortization.CalculationError
	if errors.As(err, &calcErr) {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("projection request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
