package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"expensetracker/internal/chart"
	"expensetracker/internal/export"
	applog "expensetracker/internal/log"
)

// handleExportCSV downloads the table in the store's own CSV format.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Table(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	body, err := export.CSV(t)
	if err != nil {
		s.exportFailed(w, r, err)
		return
	}
	writeAttachment(w, export.ContentTypeCSV, export.FilenameCSV, body)
}

// handleExportXLSX downloads the table as an Excel workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Table(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, t); err != nil {
		s.exportFailed(w, r, err)
		return
	}
	writeAttachment(w, export.ContentTypeXLSX, export.FilenameXLSX, buf.Bytes())
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) exportFailed(w http.ResponseWriter, r *http.Request, err error) {
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
		applog.FieldError, err,
		applog.FieldOperation, applog.OpExport)
	InternalServerError("Export failed").Write(w)
}

// handleMonthlyChart serves the dashboard trend line as PNG.
func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Dashboard(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.servePNG(w, r, func(buf *bytes.Buffer) error {
		return chart.MonthlyTrendPNG(buf, view.Trend)
	}, "No data to display chart.")
}

// handleCategoryChart serves the per-category bar chart as PNG.
func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Report(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.servePNG(w, r, func(buf *bytes.Buffer) error {
		return chart.CategoryBarPNG(buf, view.Categories)
	}, "No data to display report.")
}

func (s *Server) servePNG(w http.ResponseWriter, r *http.Request, draw func(*bytes.Buffer) error, emptyMsg string) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			NotFoundError(emptyMsg).Write(w)
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Chart rendering failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender)
		InternalServerError("Chart rendering failed").Write(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
