// Package http exposes the JSON API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/cache"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/middleware/security"
	"spendwise/internal/middleware/trace"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

// Config holds the server's tunables.
type Config struct {
	Addr      string
	CacheSize int
	CacheTTL  time.Duration
}

// Server wires the domain services behind the /api routes. Report responses
// are cached per user and invalidated on any write that could change them.
type Server struct {
	http.Server

	storage    *storage.SQLiteRepository
	expenses   *services.ExpenseService
	categories *services.CategoryService
	payments   *services.PaymentMethodService
	recurring  *services.RecurringService
	reports    *services.ReportService
	activity   *services.ActivityService
	profiles   *services.ProfileService

	summaryCache *cache.LRUCache[services.Summary]
	trendCache   *cache.LRUCache[services.CategoryTrend]
	cacheManager *cache.Manager

	limiter  *ratelimit.Limiter
	detector *security.Detector
	headers  *security.HeadersMiddleware
	tracer   *trace.Middleware
	logs     *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer builds the API server with its full middleware stack. events may
// be nil; the activity trail is then skipped.
func NewServer(cfg Config, repo *storage.SQLiteRepository, events *amqp.Client) *Server {
	if cfg.CacheSize < 1 {
		cfg.CacheSize = 128
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	detector := security.NewDetector()

	s := &Server{
		storage:    repo,
		expenses:   services.NewExpenseService(repo, events),
		categories: services.NewCategoryService(repo, events),
		payments:   services.NewPaymentMethodService(repo, events),
		recurring:  services.NewRecurringService(repo, events),
		reports:    services.NewReportService(repo),
		activity:   services.NewActivityService(repo),
		profiles:   services.NewProfileService(repo),

		summaryCache: cache.NewLRUCache[services.Summary](cfg.CacheSize, cfg.CacheTTL),
		trendCache:   cache.NewLRUCache[services.CategoryTrend](cfg.CacheSize, cfg.CacheTTL),
		cacheManager: cache.NewManager(),

		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: detector,
		headers:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		tracer:   trace.NewMiddleware(detector.ExtractClientIP),
		logs:     applog.NewStructuredLogger(applog.New(applog.DefaultConfig())),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.trendCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:    cfg.Addr,
		Handler: s.middleware(mux),
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.withUser(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withUser(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/export", s.withUser(s.handleExportCSV))
	mux.HandleFunc("GET /api/expenses/{id}", s.withUser(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withUser(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withUser(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/categories", s.withUser(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withUser(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withUser(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withUser(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/payment-methods", s.withUser(s.handleListPaymentMethods))
	mux.HandleFunc("POST /api/payment-methods", s.withUser(s.handleCreatePaymentMethod))
	mux.HandleFunc("DELETE /api/payment-methods/{id}", s.withUser(s.handleDeletePaymentMethod))

	mux.HandleFunc("GET /api/recurring", s.withUser(s.handleListRecurring))
	mux.HandleFunc("POST /api/recurring", s.withUser(s.handleCreateRecurring))
	mux.HandleFunc("GET /api/recurring/pending", s.withUser(s.handlePendingRecurring))
	mux.HandleFunc("GET /api/recurring/{id}", s.withUser(s.handleGetRecurring))
	mux.HandleFunc("PUT /api/recurring/{id}", s.withUser(s.handleUpdateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.withUser(s.handleDeleteRecurring))
	mux.HandleFunc("POST /api/recurring/{id}/confirm", s.withUser(s.handleConfirmRecurring))
	mux.HandleFunc("POST /api/recurring/{id}/skip", s.withUser(s.handleSkipRecurring))
	mux.HandleFunc("POST /api/recurring/{id}/toggle", s.withUser(s.handleToggleRecurring))

	mux.HandleFunc("GET /api/reports/monthly", s.withUser(s.handleMonthlySummary))
	mux.HandleFunc("GET /api/reports/range", s.withUser(s.handleRangeSummary))
	mux.HandleFunc("GET /api/reports/by-spender", s.withUser(s.handleBySpender))
	mux.HandleFunc("GET /api/reports/trend", s.withUser(s.handleCategoryTrend))
	mux.HandleFunc("GET /api/dashboard", s.withUser(s.handleDashboard))

	mux.HandleFunc("GET /api/activity", s.withUser(s.handleListActivity))

	mux.HandleFunc("GET /api/profile", s.withUser(s.handleGetProfile))
	mux.HandleFunc("POST /api/profile", s.handleCreateProfile)
	mux.HandleFunc("PUT /api/profile", s.withUser(s.handleUpdateProfile))
	mux.HandleFunc("DELETE /api/profile", s.withUser(s.handleDeleteProfile))
}

// middleware wraps the mux in the outer stack: security headers, tracing,
// suspicious-request rejection and write rate limiting.
func (s *Server) middleware(next http.Handler) http.Handler {
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Rejected suspicious request",
				"method", r.Method, "path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if r.Method != http.MethodGet && !s.limiter.Allow(s.detector.ExtractClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})

	return s.headers.Middleware(s.tracer.Middleware(limited))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateReports drops every cached report for the user. Called after any
// write that can change aggregates.
func (s *Server) invalidateReports(userID int64) {
	prefix := fmt.Sprintf("u%d:", userID)
	s.summaryCache.DeletePrefix(prefix)
	s.trendCache.DeletePrefix(prefix)
}

// Shutdown stops the HTTP listener and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
