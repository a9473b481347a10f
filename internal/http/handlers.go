package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports ready once the store can be loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]interface{}{}
	status, code := "ready", http.StatusOK

	if t, err := s.svc.Table(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["store"] = map[string]interface{}{"status": "ok", "rows": t.Len()}
	}
	checks["rate_limiter"] = map[string]interface{}{"active_clients": s.limiter.ActiveClients()}

	writeJSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// handleDashboard renders the summary metrics and the monthly trend.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Dashboard(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, dashboardPage(view))
}

// handleAddForm renders the empty add-expense form.
func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Overview(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, addPage(summary, defaultForm(core.DateOf(s.svc.Now()))))
}

// handleReports renders the full table with per-category totals.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Report(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, reportsPage(view))
}

func (s *Server) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load expenses",
		applog.FieldError, err,
		applog.FieldOperation, applog.OpLoad)
	InternalServerError("Failed to load expenses").Write(w)
}

// render executes the page layout into a buffer so a template failure never
// leaves a half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender,
			"page", data.Page)
		InternalServerError("Failed to render page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderFragment(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
