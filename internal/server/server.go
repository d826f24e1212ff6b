// Package server hosts the web UI and the valuation API.
package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"vc-valuation/internal/cache"
	"vc-valuation/internal/config"
	"vc-valuation/internal/solver"
	"vc-valuation/internal/valuation"
	"vc-valuation/pkg/charts"
	"vc-valuation/pkg/constants"
	"vc-valuation/pkg/output"
	"vc-valuation/pkg/report"
	"vc-valuation/pkg/spreadsheet"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	store         cache.Cache
}

type valuationOptions struct {
	Solve bool
}

// NewHandler constructs the HTTP handler that serves the web UI and valuation
// API. A nil store disables response caching.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, store cache.Cache) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, store: store}

	mux := http.NewServeMux()

	// Valuation API endpoint (file upload)
	mux.HandleFunc("/api/valuation", h.handleValuation)

	// Valuation API endpoint for editor-driven updates
	mux.HandleFunc("/api/editor/valuation", h.handleValuationEditor)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	// Result export endpoints
	mux.HandleFunc("/api/export/xlsx", h.handleExportXLSX)
	mux.HandleFunc("/api/export/markdown", h.handleExportMarkdown)

	// Standalone chart page
	mux.HandleFunc("/api/charts", h.handleCharts)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return mux
}

type valuationResponse struct {
	Scenarios     []string               `json:"scenarios"`
	Metrics       []scenarioMetrics      `json:"metrics"`
	Projections   []projectionRow        `json:"projections"`
	InvestorFlows []investorFlowRow      `json:"investorFlows"`
	Sensitivity   []sensitivityRow       `json:"sensitivity"`
	CSV           string                 `json:"csv"`
	Notes         map[string][]string    `json:"notes,omitempty"`
	Warnings      []string               `json:"warnings,omitempty"`
	Duration      string                 `json:"duration"`
	Config        map[string]interface{} `json:"config,omitempty"`
	ConfigYAML    string                 `json:"configYaml,omitempty"`
}

type scenarioMetrics struct {
	Scenario         string           `json:"scenario"`
	Currency         string           `json:"currency"`
	EnterpriseValue  float64          `json:"enterpriseValue"`
	EquityValue      float64          `json:"equityValue"`
	PresentValue     float64          `json:"presentValue"`
	EquityStakeExit  float64          `json:"equityStakeExit"`
	InvestmentAmount float64          `json:"investmentAmount"`
	ExitProceeds     float64          `json:"exitProceeds"`
	InvestorIRR      float64          `json:"investorIRR"`
	CashOnCash       float64          `json:"cashOnCash"`
	Solutions        []solutionMetric `json:"solutions,omitempty"`
}

type solutionMetric struct {
	TargetName string   `json:"targetName"`
	Field      string   `json:"field"`
	Original   float64  `json:"original"`
	Value      float64  `json:"value"`
	Target     float64  `json:"target"`
	Achieved   float64  `json:"achieved"`
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	Notes      []string `json:"notes,omitempty"`
}

type projectionRow struct {
	Scenario        string  `json:"scenario"`
	CalendarYear    int     `json:"calendarYear"`
	CashFlowDate    string  `json:"cashFlowDate"`
	ForecastYear    string  `json:"forecastYear"`
	Revenue         float64 `json:"revenue"`
	EnterpriseValue float64 `json:"enterpriseValue"`
	EquityValue     float64 `json:"equityValue"`
	DiscountFactor  float64 `json:"discountFactor"`
	PresentValue    float64 `json:"presentValue"`
}

type investorFlowRow struct {
	Scenario     string  `json:"scenario"`
	CalendarYear int     `json:"calendarYear"`
	Investment   float64 `json:"investment"`
	ExitProceeds float64 `json:"exitProceeds"`
	NetCashFlow  float64 `json:"netCashFlow"`
	EquityStake  string  `json:"equityStake,omitempty"`
}

type sensitivityRow struct {
	Scenario     string  `json:"scenario"`
	DiscountRate float64 `json:"discountRate"`
	IRR          float64 `json:"irr"`
}

func (h *handler) handleValuation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), "server.handleValuation")
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), "server.handleValuation")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", "server.handleValuation")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && h.logger != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleValuation"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), "server.handleValuation")
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), "server.handleValuation")
		return
	}

	h.runValuation(w, r, configBytes, configMap, start, "server.handleValuation", valuationOptions{})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleValuationEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	configBytes, configMap, options, err := h.decodeEditorPayload(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleValuationEditor")
		return
	}

	h.runValuation(w, r, configBytes, configMap, start, "server.handleValuationEditor", options)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	results, ok := h.computeForExport(w, r, "server.handleExportXLSX")
	if !ok {
		return
	}

	filename := fmt.Sprintf("VC_Valuation_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := spreadsheet.Write(w, results); err != nil && h.logger != nil {
		h.logger.Error("failed to stream workbook",
			zap.String("op", "server.handleExportXLSX"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	results, ok := h.computeForExport(w, r, "server.handleExportMarkdown")
	if !ok {
		return
	}

	text, err := report.Markdown(results, report.Metadata{
		GeneratedAt: time.Now().Format(constants.DateTimeLayout),
	})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build report: %v", err), "server.handleExportMarkdown")
		return
	}

	filename := fmt.Sprintf("VC_Report_%s.md", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.WriteString(w, text); err != nil && h.logger != nil {
		h.logger.Error("failed to write report",
			zap.String("op", "server.handleExportMarkdown"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleCharts(w http.ResponseWriter, r *http.Request) {
	results, ok := h.computeForExport(w, r, "server.handleCharts")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderPage(w, results); err != nil && h.logger != nil {
		h.logger.Error("failed to render charts",
			zap.String("op", "server.handleCharts"),
			zap.Error(err),
		)
	}
}

// computeForExport decodes an editor-style payload and computes the valuations
// for one of the export endpoints. It writes the error response itself and
// reports success through the bool.
func (h *handler) computeForExport(w http.ResponseWriter, r *http.Request, op string) ([]valuation.Valuation, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, false
	}

	configBytes, _, options, err := h.decodeEditorPayload(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}

	_, results, _, err := h.computeResults(configBytes, options)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}

	return results, true
}

func (h *handler) decodeEditorPayload(r *http.Request) ([]byte, map[string]interface{}, valuationOptions, error) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, nil, valuationOptions{}, fmt.Errorf("failed to decode configuration: %v", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return nil, nil, valuationOptions{}, fmt.Errorf("invalid config payload: expected object")
		}
		configPayload = cfgMap
	}

	options := valuationOptions{}
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			return nil, nil, valuationOptions{}, fmt.Errorf("invalid options payload: expected object")
		}
		if solveVal, ok := optsMap["solve"]; ok {
			options.Solve = coerceBool(solveVal)
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return nil, nil, valuationOptions{}, fmt.Errorf("failed to encode configuration: %v", err)
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		return nil, nil, valuationOptions{}, fmt.Errorf("failed to parse configuration: %v", err)
	}

	return configBytes, configMap, options, nil
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "valuation", "investor", "sensitivity", "target", "scenarios"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// computeResults loads the configuration, validates it, runs the solver when
// requested and computes all scenario valuations.
func (h *handler) computeResults(configBytes []byte, opts valuationOptions) (*config.Configuration, []valuation.Valuation, []string, error) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return nil, nil, nil, err
	}

	warnings := cfg.ValidateConfiguration()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	var solverResult *solver.Result
	if opts.Solve {
		runner, err := solver.NewRunner(h.logger, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize solver: %v", err)
		}

		solverResult, err = runner.Run()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("solver execution failed: %v", err)
		}
	}

	results, err := valuation.Compute(h.logger, *cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to compute valuation: %v", err)
	}

	if solverResult != nil && !solverResult.Empty() {
		solverResult.Apply(results)
	}

	return cfg, results, warnings, nil
}

func (h *handler) runValuation(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]interface{}, start time.Time, op string, opts valuationOptions) {
	cacheKey := ""
	if h.store != nil {
		payload := append([]byte(strconv.FormatBool(opts.Solve)+"\n"), configBytes...)
		cacheKey = cache.Key(payload)
		if body, ok := h.store.Get(r.Context(), cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(body); err != nil && h.logger != nil {
				h.logger.Error("failed to write cached response", zap.Error(err))
			}
			return
		}
	}

	_, results, warnings, err := h.computeResults(configBytes, opts)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := valuationResponse{
		Scenarios:     extractScenarioNames(results),
		Metrics:       buildMetrics(results),
		Projections:   buildProjectionRows(results),
		InvestorFlows: buildInvestorFlowRows(results),
		Sensitivity:   buildSensitivityRows(results),
		CSV:           output.CsvString(results),
		Notes:         buildNotes(results),
		Warnings:      warnings,
		Duration:      elapsed.String(),
		Config:        configMap,
		ConfigYAML:    string(configBytes),
	}

	if h.logger != nil {
		h.logger.Info("valuation computed",
			zap.String("op", op),
			zap.Int("scenarios", len(response.Scenarios)),
			zap.Duration("duration", elapsed),
		)
	}

	body, err := json.Marshal(response)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err), op)
		return
	}

	if h.store != nil && cacheKey != "" {
		if err := h.store.Set(r.Context(), cacheKey, body); err != nil && h.logger != nil {
			h.logger.Warn("failed to cache response",
				zap.String("op", op),
				zap.Error(err),
			)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("valuation request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func extractScenarioNames(results []valuation.Valuation) []string {
	names := make([]string, 0, len(results))
	for _, scenario := range results {
		names = append(names, scenario.Scenario)
	}
	return names
}

func buildMetrics(results []valuation.Valuation) []scenarioMetrics {
	metrics := make([]scenarioMetrics, 0, len(results))
	for _, result := range results {
		m := scenarioMetrics{
			Scenario:         result.Scenario,
			Currency:         result.Currency,
			EnterpriseValue:  result.Metrics.EnterpriseValue,
			EquityValue:      result.Metrics.EquityValue,
			PresentValue:     result.Metrics.PresentValue,
			EquityStakeExit:  result.Metrics.EquityStakeExit,
			InvestmentAmount: result.Metrics.InvestmentAmount,
			ExitProceeds:     result.Metrics.ExitProceeds,
			InvestorIRR:      result.Metrics.InvestorIRR,
			CashOnCash:       result.Metrics.CashOnCash,
		}
		for _, summary := range result.Metrics.Solutions {
			m.Solutions = append(m.Solutions, solutionMetric{
				TargetName: summary.TargetName,
				Field:      summary.Field,
				Original:   summary.Original,
				Value:      summary.Value,
				Target:     summary.Target,
				Achieved:   summary.Achieved,
				Iterations: summary.Iterations,
				Converged:  summary.Converged,
				Notes:      append([]string(nil), summary.Notes...),
			})
		}
		metrics = append(metrics, m)
	}
	return metrics
}

func buildProjectionRows(results []valuation.Valuation) []projectionRow {
	var rows []projectionRow
	for _, result := range results {
		for _, row := range result.Projections {
			rows = append(rows, projectionRow{
				Scenario:        result.Scenario,
				CalendarYear:    row.CalendarYear,
				CashFlowDate:    row.CashFlowDate,
				ForecastYear:    row.ForecastYear,
				Revenue:         row.Revenue,
				EnterpriseValue: row.EnterpriseValue,
				EquityValue:     row.EquityValue,
				DiscountFactor:  row.DiscountFactor,
				PresentValue:    row.PresentValue,
			})
		}
	}
	return rows
}

func buildInvestorFlowRows(results []valuation.Valuation) []investorFlowRow {
	var rows []investorFlowRow
	for _, result := range results {
		for _, row := range result.InvestorFlows {
			rows = append(rows, investorFlowRow{
				Scenario:     result.Scenario,
				CalendarYear: row.CalendarYear,
				Investment:   row.Investment,
				ExitProceeds: row.ExitProceeds,
				NetCashFlow:  row.NetCashFlow,
				EquityStake:  row.EquityStake,
			})
		}
	}
	return rows
}

func buildSensitivityRows(results []valuation.Valuation) []sensitivityRow {
	var rows []sensitivityRow
	for _, result := range results {
		for _, point := range result.Sensitivity {
			rows = append(rows, sensitivityRow{
				Scenario:     result.Scenario,
				DiscountRate: point.DiscountRate,
				IRR:          point.IRR,
			})
		}
	}
	return rows
}

func buildNotes(results []valuation.Valuation) map[string][]string {
	notes := make(map[string][]string)
	for _, result := range results {
		if len(result.Notes) > 0 {
			notes[result.Scenario] = normalizeNotes(result.Notes)
		}
	}
	if len(notes) == 0 {
		return nil
	}
	return notes
}

func normalizeNotes(notes []string) []string {
	if len(notes) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(notes))
	for _, note := range notes {
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
