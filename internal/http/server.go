package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	applog "expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/services"
	appweb "expensetracker/web"
)

// Options tunes the server; the zero value is usable.
type Options struct {
	// WritesPerMinute bounds POST /expenses per client; 0 uses the limiter default.
	WritesPerMinute int
	Templates       fs.FS
	Logger          *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	svc       *services.ExpenseService
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	logger    *applog.Logger
	started   time.Time
}

// NewServer wires routes, middleware and templates into a ready-to-run http.Server.
func NewServer(addr string, svc *services.ExpenseService, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	templatesFS := opts.Templates
	if templatesFS == nil {
		templatesFS = appweb.TemplatesFS
	}

	t, err := parseTemplates(templatesFS)
	if err != nil {
		return nil, err
	}

	resolver := security.NewClientIPResolver()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		templates: t,
		svc:       svc,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.WritesPerMinute}),
		tracer:    trace.NewMiddleware(logger, resolver.ClientIP),
		logger:    logger.WithComponent(applog.ComponentHTTP),
		started:   time.Now(),
	}
	s.Handler = s.routes(resolver)
	return s, nil
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	t, err := template.ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func (s *Server) routes(resolver *security.ClientIPResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(applog.Middleware(s.logger))
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	staticFS, _ := fs.Sub(appweb.StaticFS, "static")
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(security.NoStore)

		r.Get("/", s.handleDashboard)
		r.Get("/add", s.handleAddForm)
		r.Get("/reports", s.handleReports)

		r.With(s.limiter.Middleware(resolver.ClientIP, func(w http.ResponseWriter, r *http.Request) {
			ErrorResponse(http.StatusTooManyRequests, "Too many requests, try again in a minute").Write(w)
		})).Post("/expenses", s.handleCreateExpense)

		r.Get("/export", s.handleExportCSV)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)

		r.Get("/charts/monthly.png", s.handleMonthlyChart)
		r.Get("/charts/categories.png", s.handleCategoryChart)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Page not found").Write(w)
	})

	return r
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
