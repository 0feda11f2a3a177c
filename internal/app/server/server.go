package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"labourhub/internal/domain/attendance"
	"labourhub/internal/domain/audit"
	"labourhub/internal/domain/auth"
	"labourhub/internal/domain/labourer"
	"labourhub/internal/domain/leave"
	"labourhub/internal/domain/notification"
	"labourhub/internal/domain/performance"
	"labourhub/internal/domain/project"
	"labourhub/internal/domain/salary"
	"labourhub/internal/domain/user"
	"labourhub/internal/platform/config"
	"labourhub/internal/platform/db"
	"labourhub/internal/platform/email"
	"labourhub/internal/platform/logging"
	"labourhub/internal/platform/metrics"
	"labourhub/internal/platform/sms"
	"labourhub/internal/transport/http/api"
	attendancehandler "labourhub/internal/transport/http/handlers/attendance"
	audithandler "labourhub/internal/transport/http/handlers/audit"
	authhandler "labourhub/internal/transport/http/handlers/auth"
	labourerhandler "labourhub/internal/transport/http/handlers/labourer"
	leavehandler "labourhub/internal/transport/http/handlers/leave"
	notificationhandler "labourhub/internal/transport/http/handlers/notification"
	performancehandler "labourhub/internal/transport/http/handlers/performance"
	projecthandler "labourhub/internal/transport/http/handlers/project"
	salaryhandler "labourhub/internal/transport/http/handlers/salary"
	userhandler "labourhub/internal/transport/http/handlers/user"
	"labourhub/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects to the database and builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, DB: pool, Router: NewRouter(cfg, pool)}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Info().Str("addr", a.Config.Addr).Msg("labourhub listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logging.Logger.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// UseNumericMoney renders decimal amounts as JSON numbers rather than quoted
// strings. The setting is process-wide in the decimal package.
func UseNumericMoney() {
	decimal.MarshalJSONWithoutQuotes = true
}

// NewRouter wires stores, services and handlers over pool.
func NewRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	UseNumericMoney()
	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userSvc := user.NewService(user.NewStore(pool), authSvc)
	labourerSvc := labourer.NewService(labourer.NewStore(pool))
	projectSvc := project.NewService(project.NewStore(pool))
	attendanceSvc := attendance.NewService(attendance.NewStore(pool))
	notificationSvc := notification.NewService(notification.NewStore(pool), map[string]notification.Sender{
		notification.TypeEmail: email.New(cfg),
		notification.TypeSMS:   sms.New(),
	})
	leaveSvc := leave.NewService(leave.NewStore(pool), notificationSvc)
	performanceSvc := performance.NewService(performance.NewStore(pool))
	salarySvc := salary.NewService(salary.NewStore(pool), cfg.PayslipDir)
	auditSvc := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authSvc))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc, userSvc, cfg.AllowSelfSignup).RegisterRoutes(r)
		userhandler.NewHandler(userSvc, auditSvc).RegisterRoutes(r)
		labourerhandler.NewHandler(labourerSvc).RegisterRoutes(r)
		projecthandler.NewHandler(projectSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, labourerSvc, cfg.ExportMaxRecords).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, labourerSvc, auditSvc).RegisterRoutes(r)
		performancehandler.NewHandler(performanceSvc, labourerSvc).RegisterRoutes(r)
		salaryhandler.NewHandler(salarySvc, labourerSvc, auditSvc).RegisterRoutes(r)
		notificationhandler.NewHandler(notificationSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	return router
}
