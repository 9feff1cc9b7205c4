package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
	"github.com/Shaikat-CSE/goldennicheims/internal/http/apierr"
	"github.com/Shaikat-CSE/goldennicheims/internal/http/metric"
	"github.com/Shaikat-CSE/goldennicheims/internal/http/middleware"
	"github.com/Shaikat-CSE/goldennicheims/internal/http/swagger"
	"github.com/Shaikat-CSE/goldennicheims/internal/service"
	"github.com/Shaikat-CSE/goldennicheims/internal/storage/db"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	stockSvc service.StockService
	checks   map[string]db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

// handlerFunc is an http.HandlerFunc that reports failures instead of
// writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	stockSvc service.StockService,
) *Service {
	registry := prometheus.NewRegistry()
	return &Service{
		cfg:      cfg,
		logger:   log.With(slog.String("service", "http")),
		registry: registry,
		metrics:  metric.New(registry),
		stockSvc: stockSvc,
		checks:   make(map[string]db.HealthChecker),
	}
}

// AddHealthCheck makes /healthz report the dependency under name.
func (s *Service) AddHealthCheck(name string, hc db.HealthChecker) {
	s.checks[name] = hc
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	s.logger.InfoContext(ctx, "http service started", slog.String("addr", lis.Addr().String()))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
		middleware.Actor(),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	products := newProductHandler(s.stockSvc)
	movements := newMovementHandler(s.stockSvc)
	stock := newStockHandler(s.stockSvc, s.cfg.MaxUploadBytes)

	r.Get(middleware.HealthPath, s.handle(newHealthHandler(s.checks).Health))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handle(products.ListProducts))
			r.Post("/", s.handle(products.CreateProduct))
			r.Post("/bootstrap", s.handle(products.BootstrapProducts))
			r.Patch("/{id}", s.handle(products.UpdateProduct))
			r.Delete("/{id}", s.handle(products.DeleteProduct))
			r.Get("/{id}/movements", s.handle(products.ProductHistory))
		})

		r.Get("/movements", s.handle(movements.ListMovements))
		r.Post("/movements", s.handle(movements.RecordMovement))
		r.Get("/activity", s.handle(movements.ListActivity))

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", s.handle(stock.GetStock))
			r.Put("/", s.handle(stock.SyncStock))
			r.Post("/reconcile", s.handle(stock.ReconcileStock))
			r.Get("/summary", s.handle(stock.StockSummary))
			r.Get("/export", s.handle(stock.ExportStock))
			r.Post("/import", s.handle(stock.ImportStock))
			r.Get("/template", s.handle(stock.StockTemplate))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, apierr.ErrorResponse{
			Code:       "routeNotFound",
			Message:    fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
			StatusCode: http.StatusNotFound,
		})
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	s.writeError(w, r, res)
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, res apierr.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
