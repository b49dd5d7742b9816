package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks LookupClient,Registrar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"progreso/internal/electoral/clients/lookup"
	"progreso/internal/electoral/clients/registration"
	"progreso/internal/electoral/metrics"
	"progreso/internal/electoral/models"
	"progreso/internal/electoral/tracer"
	id "progreso/pkg/domain"
	dErrors "progreso/pkg/domain-errors"
	"progreso/pkg/platform/circuit"
	"progreso/pkg/platform/privacy"
	"progreso/pkg/requestcontext"
)

// LookupClient queries the electoral-lookup service.
type LookupClient interface {
	Lookup(ctx context.Context, nationalID id.NationalID) models.LookupOutcome
}

// Registrar marks a citizen as having voted.
type Registrar interface {
	RegisterVoted(ctx context.Context, nationalID id.NationalID) models.RegistrationOutcome
}

// Config holds the outbound endpoints used by NewFromConfig.
type Config struct {
	LookupBaseURL     string
	RegistrationURL   string
	RegistrationToken string
	Timeout           time.Duration
}

// Validate checks that the lookup endpoint is set and the timeout is usable.
// An empty RegistrationURL is allowed; registration is then reported as unavailable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LookupBaseURL) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "lookup base URL is required")
	}
	if c.Timeout < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "timeout must not be negative")
	}
	return nil
}

// Service runs the validate, lookup, conditional-register workflow.
type Service struct {
	lookup    LookupClient
	registrar Registrar
	logger    *slog.Logger
	tracer    tracer.Tracer
	metrics   *metrics.Metrics

	lookupBreaker       *circuit.Breaker
	registrationBreaker *circuit.Breaker
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for workflow and call spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithMetrics sets the metrics sink. A nil *Metrics disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBreakers sets the failure trackers for each outbound dependency.
// They feed readiness only; calls are never skipped.
func WithBreakers(lookupBreaker, registrationBreaker *circuit.Breaker) Option {
	return func(s *Service) {
		s.lookupBreaker = lookupBreaker
		s.registrationBreaker = registrationBreaker
	}
}

// New creates a Service from explicit collaborators.
func New(lookupClient LookupClient, registrar Registrar, opts ...Option) *Service {
	s := &Service{
		lookup:    lookupClient,
		registrar: registrar,
		logger:    slog.Default(),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registrar == nil {
		s.registrar = registration.Unavailable{}
	}
	return s
}

// NewFromConfig builds the HTTP clients from cfg and wires them into a Service.
func NewFromConfig(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := New(lookup.New(cfg.LookupBaseURL, cfg.Timeout), nil, opts...)
	if strings.TrimSpace(cfg.RegistrationURL) == "" {
		s.logger.Warn("registration endpoint not configured; votes will not be recorded")
		return s, nil
	}
	if cfg.RegistrationToken == "" {
		s.logger.Warn("registration token not configured; requests are sent without credentials")
	}
	s.registrar = registration.New(cfg.RegistrationURL, cfg.RegistrationToken, cfg.Timeout)
	return s, nil
}

// Process runs one workflow for the raw identifier and always returns a result.
//
// Caller cancellation is not propagated to the outbound calls: once a lookup has
// found a record without a vote, registration is attempted and bounded only by the
// per-call timeout.
func (s *Service) Process(ctx context.Context, raw string) *models.WorkflowResult {
	ctx = context.WithoutCancel(ctx)

	nationalID, err := id.ParseNationalID(raw)
	if err != nil {
		result := &models.WorkflowResult{
			IdentifierEcho: strings.ToUpper(strings.TrimSpace(raw)),
			State:          models.StateInvalidInput,
			ErrorKind:      models.KindValidation,
			Detail:         err.Error(),
			Hint:           id.FormatHint,
		}
		s.finish(ctx, result, privacy.MaskIdentifier(raw))
		return result
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanProcess,
		tracer.String(tracer.AttrNationalID, tracer.HashNationalID(nationalID.Digits())),
	)
	result := s.run(ctx, nationalID, span)
	span.SetAttributes(
		tracer.String(tracer.AttrState, string(result.State)),
		tracer.String(tracer.AttrErrorKind, string(result.ErrorKind)),
	)
	span.End(nil)

	s.finish(ctx, result, nationalID.Redacted())
	return result
}

func (s *Service) run(ctx context.Context, nationalID id.NationalID, span tracer.Span) *models.WorkflowResult {
	result := &models.WorkflowResult{IdentifierEcho: nationalID.String()}

	outcome := s.callLookup(ctx, nationalID)
	switch {
	case outcome.Status == models.LookupNotFound:
		result.State = models.StateNotFound
		result.ErrorKind = models.KindNotFound
		result.Detail = "no electoral record exists for this identifier"
		return result
	case outcome.Status == models.LookupServiceError && outcome.Err != nil:
		result.State = models.StateLookupError
		result.ErrorKind = outcome.Err.Kind
		result.Detail = outcome.Err.Describe()
		return result
	case outcome.Status != models.LookupFound || outcome.Record == nil:
		result.State = models.StateLookupError
		result.ErrorKind = models.KindLookupMalformed
		result.Detail = fmt.Sprintf("lookup client returned an incomplete %q outcome", outcome.Status)
		return result
	}

	record := *outcome.Record
	result.Record = &record
	result.IdentifierEcho = record.DisplayIdentifier()
	span.SetAttributes(tracer.Bool(tracer.AttrHasVoted, record.HasVoted))

	if record.HasVoted {
		span.AddEvent(tracer.EventRegistrationSkipped)
		result.State = models.StateAlreadyVoted
		return result
	}

	registered := s.callRegistrar(ctx, nationalID)
	result.Registration = &registered
	if registered.Failed() {
		result.State = models.StateRegistrationFailed
		result.ErrorKind = registered.Kind
		result.Detail = registered.FailureDetail
		return result
	}
	result.State = models.StateRegistered
	return result
}

func (s *Service) callLookup(ctx context.Context, nationalID id.NationalID) models.LookupOutcome {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLookupCall)
	start := time.Now()
	outcome := s.lookup.Lookup(ctx, nationalID)
	s.metrics.ObserveCall(metrics.ServiceLookup, time.Since(start).Seconds())

	span.SetAttributes(tracer.String(tracer.AttrLookupStatus, string(outcome.Status)))
	s.track(ctx, s.lookupBreaker, outcome.Err == nil || !isOutage(outcome.Err.Kind))
	if outcome.Err != nil {
		s.metrics.RecordLookup(string(outcome.Err.Kind))
		if outcome.Err.StatusCode != 0 {
			span.SetAttributes(tracer.Int64(tracer.AttrStatusCode, int64(outcome.Err.StatusCode)))
		}
		span.End(outcome.Err)
		return outcome
	}
	s.metrics.RecordLookup(string(outcome.Status))
	span.End(nil)
	return outcome
}

func (s *Service) callRegistrar(ctx context.Context, nationalID id.NationalID) models.RegistrationOutcome {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegistrationCall)
	start := time.Now()
	outcome := s.registrar.RegisterVoted(ctx, nationalID)
	s.metrics.ObserveCall(metrics.ServiceRegistration, time.Since(start).Seconds())
	s.metrics.RecordRegistration(registrationLabel(outcome))
	if outcome.Kind != models.KindRegistrationUnavailable {
		s.track(ctx, s.registrationBreaker, !isOutage(outcome.Kind))
	}

	span.SetAttributes(tracer.Bool(tracer.AttrAlreadyVoted, outcome.AlreadyRegistered))
	if outcome.StatusCode != 0 {
		span.SetAttributes(tracer.Int64(tracer.AttrStatusCode, int64(outcome.StatusCode)))
	}
	if outcome.Failed() {
		span.End(&models.CallError{
			Kind:       outcome.Kind,
			Service:    "vote-registration",
			StatusCode: outcome.StatusCode,
			Detail:     outcome.FailureDetail,
		})
		return outcome
	}
	span.End(nil)
	return outcome
}

func (s *Service) finish(ctx context.Context, result *models.WorkflowResult, suffix string) {
	s.metrics.RecordResult(string(result.State))

	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"state", string(result.State),
	}
	if suffix != "" {
		attrs = append(attrs, "national_id", suffix)
	}
	if result.ErrorKind != models.KindNone {
		attrs = append(attrs, "error_kind", string(result.ErrorKind))
	}
	if result.Registration != nil && result.Registration.AlreadyRegistered {
		attrs = append(attrs, "already_registered", true)
	}

	switch {
	case result.Succeeded():
		s.logger.InfoContext(ctx, "electoral workflow completed", attrs...)
	case result.State == models.StateInvalidInput || result.State == models.StateNotFound:
		s.logger.InfoContext(ctx, "electoral workflow rejected identifier", attrs...)
	default:
		attrs = append(attrs, "detail", result.Detail)
		s.logger.WarnContext(ctx, "electoral workflow failed", attrs...)
	}
}

func (s *Service) track(ctx context.Context, b *circuit.Breaker, ok bool) {
	if b == nil {
		return
	}
	tr := b.Record(ok)
	switch {
	case tr.Opened:
		s.logger.WarnContext(ctx, "outbound dependency circuit opened", "dependency", b.Name())
	case tr.Closed:
		s.logger.InfoContext(ctx, "outbound dependency circuit closed", "dependency", b.Name())
	}
}

// isOutage reports kinds that point at the remote service rather than the request.
func isOutage(kind models.ErrorKind) bool {
	switch kind {
	case models.KindLookupConnection, models.KindLookupHTTP,
		models.KindRegistrationConnection, models.KindRegistrationHTTP:
		return true
	}
	return false
}

func registrationLabel(outcome models.RegistrationOutcome) string {
	switch {
	case outcome.Succeeded:
		return "registered"
	case outcome.AlreadyRegistered:
		return "already_registered"
	default:
		return string(outcome.Kind)
	}
}
