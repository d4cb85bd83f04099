package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/config"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/database"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/export"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/metrics"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/poller"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/schedule"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/service"
)

// HTTPServer exposes the public booking endpoints and the key-guarded
// admin API on one port.
type HTTPServer struct {
	cfg      *config.Config
	bookings *service.BookingService
	leads    *service.LeadService
	parts    *service.PartService
	agg      *schedule.Aggregator
	poll     *poller.Poller
	gate     *poller.SoundGate
	exporter *export.Exporter
	notifier domain.Notifier
	cookies  *CookieSigner
	clk      clock.Clock
	logger   *zerolog.Logger
	server   *http.Server
	auth     *HTTPAuth
}

func NewHTTPServer(
	cfg *config.Config,
	bookings *service.BookingService,
	leads *service.LeadService,
	parts *service.PartService,
	agg *schedule.Aggregator,
	poll *poller.Poller,
	gate *poller.SoundGate,
	exporter *export.Exporter,
	notifier domain.Notifier,
	clk clock.Clock,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		leads:    leads,
		parts:    parts,
		agg:      agg,
		poll:     poll,
		gate:     gate,
		exporter: exporter,
		notifier: notifier,
		cookies:  NewCookieSigner(cfg.Booking.CookieName, cfg.Booking.CookieSecret, clk),
		clk:      clk,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg.Server)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("/api/v1/leads", srv.handleCreateLead)
	mux.HandleFunc("/healthz", srv.handleHealth)

	admin := http.NewServeMux()
	admin.HandleFunc("/api/v1/admin/dashboard", srv.handleDashboard)
	admin.HandleFunc("/api/v1/admin/bookings", srv.handleBookings)
	admin.HandleFunc("/api/v1/admin/bookings/", srv.handleBookingAction)
	admin.HandleFunc("/api/v1/admin/calendar", srv.handleCalendar)
	admin.HandleFunc("/api/v1/admin/leads", srv.handleLeads)
	admin.HandleFunc("/api/v1/admin/parts", srv.handleParts)
	admin.HandleFunc("/api/v1/admin/parts/", srv.handlePartAction)
	admin.HandleFunc("/api/v1/admin/export", srv.handleExport)
	admin.HandleFunc("/api/v1/admin/test-telegram", srv.handleTestTelegram)
	admin.HandleFunc("/api/v1/admin/notifications", srv.handleNotifications)
	admin.HandleFunc("/api/v1/admin/sound/unlock", srv.handleSoundUnlock)
	admin.HandleFunc("/api/v1/admin/sound/test", srv.handleSoundTest)
	mux.Handle("/api/v1/admin/", srv.auth.Wrap(admin))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           loggingMiddleware(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HTTPAuth provides API-key auth and per-key rate limiting for the
// admin surface.
type HTTPAuth struct {
	cfg      config.ServerConfig
	keys     map[string]config.AdminKey
	limiters sync.Map // map[string]*rate.Limiter
}

func NewHTTPAuth(cfg config.ServerConfig) *HTTPAuth {
	m := make(map[string]config.AdminKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, keys: m}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r); err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
		}

		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	header := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if header == "" {
		header = "x-api-key"
	}

	apiKey := strings.TrimSpace(r.Header.Get(header))
	if apiKey == "" {
		return fmt.Errorf("missing api key header")
	}
	if _, ok := a.keys[apiKey]; !ok {
		return fmt.Errorf("invalid api key")
	}
	return nil
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}

	lim := a.getLimiter(a.clientKey(r))
	if !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	header := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if header == "" {
		header = "x-api-key"
	}

	if apiKey := strings.TrimSpace(r.Header.Get(header)); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFutureCompletion):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrDateRequired),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidPart):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
