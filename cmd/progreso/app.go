package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"progreso/internal/electoral/handler"
	"progreso/internal/electoral/metrics"
	"progreso/internal/electoral/service"
	"progreso/internal/electoral/tracer"
	"progreso/internal/platform/config"
	"progreso/internal/platform/health"
	"progreso/pkg/platform/circuit"
	"progreso/pkg/platform/middleware/request"
)

// maxRequestBytes caps inbound consultation bodies.
const maxRequestBytes = 4 << 10

type app struct {
	service *service.Service
	router  http.Handler
}

func newApp(cfg *config.Server, log *slog.Logger, reg *prometheus.Registry) (*app, error) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	lookupBreaker := circuit.New("electoral-lookup")
	registrationBreaker := circuit.New("vote-registration")

	svc, err := service.NewFromConfig(service.Config{
		LookupBaseURL:     cfg.LookupBaseURL,
		RegistrationURL:   cfg.RegistrationURL,
		RegistrationToken: cfg.RegistrationToken,
		Timeout:           cfg.HTTPTimeout,
	},
		service.WithLogger(log),
		service.WithTracer(tracer.NewOTel(nil)),
		service.WithMetrics(metrics.New(reg)),
		service.WithBreakers(lookupBreaker, registrationBreaker),
	)
	if err != nil {
		return nil, err
	}

	healthHandler := health.New(cfg.Env)
	healthHandler.RegisterCheck(lookupBreaker.Name(), lookupBreaker.Check)
	healthHandler.SetFeature("registration", cfg.RegistrationEnabled())
	if cfg.RegistrationEnabled() {
		healthHandler.RegisterAdvisory(registrationBreaker.Name(), registrationBreaker.Check)
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(request.Latency(request.NewMetrics(reg)))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(maxRequestBytes))
		r.Use(request.ContentTypeJSON)
		handler.New(svc, log).Register(r)
	})

	return &app{service: svc, router: r}, nil
}
