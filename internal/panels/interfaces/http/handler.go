package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"solarfarm/internal/audit"
	"solarfarm/internal/auth"
	"solarfarm/internal/observability/metrics"
	panelapp "solarfarm/internal/panels/application"
	panels "solarfarm/internal/panels/domain"
	"solarfarm/internal/panels/interfaces/report"
)

const basePath = "/solar-panel"

// ReportArchiver stores a copy of generated reports.
type ReportArchiver interface {
	Archive(ctx context.Context, section, format string, data []byte) (string, error)
}

// Handler serves solar panel endpoints.
type Handler struct {
	service     *panelapp.PanelService
	logger      *zap.Logger
	auditLogger audit.Logger
	archiver    ReportArchiver
	now         func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for server-side failures.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithAuditLogger records create, update and delete requests.
func WithAuditLogger(logger audit.Logger) Option {
	return func(h *Handler) {
		h.auditLogger = logger
	}
}

// WithArchiver copies every exported report to archiver.
func WithArchiver(archiver ReportArchiver) Option {
	return func(h *Handler) {
		h.archiver = archiver
	}
}

// NewHandler constructs a Handler.
func NewHandler(service *panelapp.PanelService, opts ...Option) (*Handler, error) {
	if service == nil {
		return nil, errors.New("panel handler: nil service")
	}
	h := &Handler{service: service, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP routes solar panel requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != basePath && !strings.HasPrefix(r.URL.Path, basePath+"/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, basePath), "/")
	var parts []string
	if path != "" {
		parts = strings.Split(path, "/")
	}

	switch {
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleFindBySection(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodPut:
		h.handleUpdate(w, r, parts[0])
	case len(parts) == 2 && r.Method == http.MethodGet && strings.HasPrefix(parts[1], "export."):
		h.handleExport(w, r, parts[0], strings.TrimPrefix(parts[1], "export."))
	case len(parts) == 3 && r.Method == http.MethodGet:
		h.handleFindByKey(w, r, parts)
	case len(parts) == 3 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, parts)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleFindBySection(w http.ResponseWriter, r *http.Request, section string) {
	list, err := h.service.FindBySection(r.Context(), section)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if list == nil {
		list = []panels.SolarPanel{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleFindByKey(w http.ResponseWriter, r *http.Request, parts []string) {
	key, err := parseKey(parts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	panel, err := h.service.FindByKey(r.Context(), key)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if panel == nil {
		writeMessages(w, http.StatusBadRequest, []string{fmt.Sprintf("solar panel %s not found", key)})
		return
	}
	writeJSON(w, http.StatusOK, panel)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var panel panels.SolarPanel
	if err := json.NewDecoder(r.Body).Decode(&panel); err != nil {
		writeMessages(w, http.StatusBadRequest, []string{"invalid json"})
		return
	}
	result, err := h.service.Create(r.Context(), &panel)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !result.Success() {
		writeMessages(w, http.StatusBadRequest, result.Messages)
		return
	}
	writeJSON(w, http.StatusCreated, result.Panel)
	h.logAudit(r, "panel.create", result.Panel)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		http.Error(w, "id must be a positive integer", http.StatusBadRequest)
		return
	}
	var panel panels.SolarPanel
	if err := json.NewDecoder(r.Body).Decode(&panel); err != nil {
		writeMessages(w, http.StatusBadRequest, []string{"invalid json"})
		return
	}
	if panel.ID == 0 {
		panel.ID = id
	}
	if panel.ID != id {
		writeMessages(w, http.StatusBadRequest, []string{fmt.Sprintf("path id %d does not match body id %d", id, panel.ID)})
		return
	}

	result, err := h.service.Update(r.Context(), &panel)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	switch result.Status {
	case panelapp.StatusSuccess:
		w.WriteHeader(http.StatusNoContent)
		h.logAudit(r, "panel.update", result.Panel)
	case panelapp.StatusNotFound:
		writeMessages(w, http.StatusNotFound, result.Messages)
	default:
		writeMessages(w, http.StatusBadRequest, result.Messages)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, parts []string) {
	key, err := parseKey(parts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.service.DeleteByKey(r.Context(), key)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !result.Success() {
		writeMessages(w, http.StatusNotFound, result.Messages)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, "panel.delete", &panels.SolarPanel{Section: key.Section, Row: key.Row, Column: key.Column})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, section, format string) {
	if format != report.FormatXLSX && format != report.FormatPDF {
		http.Error(w, "format must be xlsx or pdf", http.StatusBadRequest)
		return
	}
	start := time.Now()
	list, err := h.service.FindBySection(r.Context(), section)
	if err != nil {
		metrics.ObserveReportExport(format, metrics.ResultError, time.Since(start))
		h.serverError(w, r, err)
		return
	}
	data, err := report.Build(format, section, list, h.now())
	if err != nil {
		metrics.ObserveReportExport(format, metrics.ResultError, time.Since(start))
		h.serverError(w, r, err)
		return
	}
	metrics.ObserveReportExport(format, metrics.ResultSuccess, time.Since(start))

	if h.archiver != nil {
		if key, err := h.archiver.Archive(r.Context(), section, format, data); err != nil {
			h.logger.Warn("report archive failed", zap.String("section", section), zap.String("format", format), zap.Error(err))
		} else {
			h.logger.Info("report archived", zap.String("key", key))
		}
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "section-"+section+"."+format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("panel request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (h *Handler) logAudit(r *http.Request, action string, panel *panels.SolarPanel) {
	if h.auditLogger == nil || panel == nil {
		return
	}
	resourceID := panel.Key().String()
	if panel.ID > 0 {
		resourceID = strconv.Itoa(panel.ID)
	}
	caller := auth.IdentityFromContext(r.Context())
	payload, _ := json.Marshal(panel)
	if err := h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        caller.Subject,
		Role:         string(caller.Role),
		Action:       action,
		ResourceType: "solar_panel",
		ResourceID:   resourceID,
		Section:      panel.Section,
		Metadata:     payload,
		IP:           clientIP(r),
		UserAgent:    r.UserAgent(),
	}); err != nil {
		h.logger.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

// clientIP is the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func parseKey(parts []string) (panels.Key, error) {
	row, err := strconv.Atoi(parts[1])
	if err != nil {
		return panels.Key{}, errors.New("row must be an integer")
	}
	column, err := strconv.Atoi(parts[2])
	if err != nil {
		return panels.Key{}, errors.New("column must be an integer")
	}
	return panels.NewKey(parts[0], row, column), nil
}

func writeMessages(w http.ResponseWriter, status int, messages []string) {
	writeJSON(w, status, map[string][]string{"messages": messages})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
