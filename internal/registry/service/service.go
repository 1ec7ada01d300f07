// Package service orchestrates admission decisions: it resolves the prior
// record and seed status, runs the pure validator, and applies accepted
// transitions. The validator itself stays free of I/O; everything stateful
// happens here.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mintguard/internal/registry/metrics"
	"mintguard/internal/registry/models"
	"mintguard/internal/registry/store/asset"
	"mintguard/internal/registry/validator"
	"mintguard/pkg/domain"
	dErrors "mintguard/pkg/domain-errors"
	"mintguard/pkg/platform/audit"
	"mintguard/pkg/platform/sentinel"
)

type RecordStore interface {
	Get(ctx context.Context, anchor domain.Anchor) (*models.RegistryRecord, error)
	Create(ctx context.Context, anchor domain.Anchor, rec *models.RegistryRecord) error
	Swap(ctx context.Context, anchor domain.Anchor, priorSupply uint64, rec *models.RegistryRecord) error
}

type SeedStore interface {
	Spent(ctx context.Context, ref string) (bool, error)
	Consume(ctx context.Context, ref string) error
}

type AssetStore interface {
	Put(ctx context.Context, def *asset.Definition) error
	Get(ctx context.Context, anchor domain.Anchor) (*asset.Definition, error)
	List(ctx context.Context) ([]*asset.Definition, error)
}

type AuditPublisher interface {
	Publish(ctx context.Context, ev audit.Event) error
}

// Verdict is the outcome of a pure decision. Reject is nil iff Accepted.
type Verdict struct {
	Accepted bool
	Reject   *validator.Error
}

type Service struct {
	assets  AssetStore
	records RecordStore
	seeds   SeedStore
	auditor AuditPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(assets AssetStore, records RecordStore, seeds SeedStore, opts ...Option) (*Service, error) {
	if assets == nil {
		return nil, fmt.Errorf("asset store is required")
	}
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if seeds == nil {
		return nil, fmt.Errorf("seed store is required")
	}
	svc := &Service{
		assets:  assets,
		records: records,
		seeds:   seeds,
		logger:  slog.Default(),
		tracer:  otel.Tracer("mintguard/registry"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// RegisterAsset validates and stores an immutable asset definition. The
// anchor is derived from the token class and the identity's venue/ticker.
func (s *Service) RegisterAsset(ctx context.Context, cfg validator.Config) (*asset.Definition, error) {
	ctx, span := s.tracer.Start(ctx, "registry.RegisterAsset")
	defer span.End()

	if _, err := validator.New(cfg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid asset configuration")
	}
	def := &asset.Definition{
		ID:        domain.NewAssetID(),
		Anchor:    domain.DeriveAnchor(cfg.TokenClass, cfg.Identity.Venue, cfg.Identity.Ticker),
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.assets.Put(ctx, def); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "asset already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store asset definition")
	}
	span.SetAttributes(attribute.String("registry.anchor", string(def.Anchor)))
	if s.metrics != nil {
		s.metrics.AssetsRegistered.Inc()
	}
	s.publishAudit(ctx, audit.Event{
		ID:        uuid.NewString(),
		Category:  audit.CategoryOperations,
		Timestamp: time.Now().UTC(),
		Anchor:    string(def.Anchor),
		Action:    audit.ActionAssetRegistered,
	})
	return def, nil
}

// Decide evaluates a transition without applying it. The request's Prior and
// SeedConsumed fields are resolved here from the stores; callers supply the
// proposed record and the externally observed inputs.
func (s *Service) Decide(ctx context.Context, anchor domain.Anchor, req *models.TransitionRequest) (Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Decide",
		trace.WithAttributes(attribute.String("registry.anchor", string(anchor))))
	defer span.End()

	v, err := s.validatorFor(ctx, anchor)
	if err != nil {
		return Verdict{}, err
	}
	if err := s.resolve(ctx, anchor, v.Config(), req); err != nil {
		return Verdict{}, err
	}
	return s.verdict(ctx, anchor, v, req, false)
}

// Apply evaluates a transition and, when accepted, persists its effects:
// the new record, the consumed seed on initialization, the audit trail.
// Rejections return the validator error unwrapped so callers can inspect
// the code.
func (s *Service) Apply(ctx context.Context, anchor domain.Anchor, req *models.TransitionRequest) (*models.RegistryRecord, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Apply",
		trace.WithAttributes(attribute.String("registry.anchor", string(anchor))))
	defer span.End()

	v, err := s.validatorFor(ctx, anchor)
	if err != nil {
		return nil, err
	}
	if err := s.resolve(ctx, anchor, v.Config(), req); err != nil {
		return nil, err
	}
	verdict, err := s.verdict(ctx, anchor, v, req, true)
	if err != nil {
		return nil, err
	}
	if !verdict.Accepted {
		return nil, verdict.Reject
	}
	if req.Proposed == nil {
		// Exempt transition: accepted, nothing to write.
		return nil, nil
	}

	if req.Prior == nil {
		if err := s.seeds.Consume(ctx, v.Config().SeedRef); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				// Lost a race with another initialization.
				return nil, &validator.Error{Code: validator.CodeSeedNotConsumed, Field: "seed_ref"}
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume seed")
		}
		if err := s.records.Create(ctx, anchor, req.Proposed); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create record")
		}
		if s.metrics != nil {
			s.metrics.RecordsInitialized.Inc()
		}
		s.publishAudit(ctx, audit.Event{
			ID:        uuid.NewString(),
			Category:  audit.CategoryCompliance,
			Timestamp: time.Now().UTC(),
			Anchor:    string(anchor),
			Action:    audit.ActionRecordInitialized,
			Supply:    req.Proposed.Supply,
		})
		return req.Proposed, nil
	}

	if err := s.records.Swap(ctx, anchor, req.Prior.Supply, req.Proposed); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "record changed under the transition")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist record")
	}
	return req.Proposed, nil
}

// List returns every registered asset definition.
func (s *Service) List(ctx context.Context) ([]*asset.Definition, error) {
	defs, err := s.assets.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list asset definitions")
	}
	return defs, nil
}

// Get returns the current record at anchor.
func (s *Service) Get(ctx context.Context, anchor domain.Anchor) (*models.RegistryRecord, error) {
	rec, err := s.records.Get(ctx, anchor)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "record not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load record")
	}
	return rec, nil
}

func (s *Service) validatorFor(ctx context.Context, anchor domain.Anchor) (*validator.Validator, error) {
	def, err := s.assets.Get(ctx, anchor)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "asset not registered")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load asset definition")
	}
	v, err := validator.New(def.Config)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "stored asset configuration is invalid")
	}
	return v, nil
}

// resolve fills the store-derived request fields: the prior record and the
// seed status.
func (s *Service) resolve(ctx context.Context, anchor domain.Anchor, cfg validator.Config, req *models.TransitionRequest) error {
	rec, err := s.records.Get(ctx, anchor)
	switch {
	case err == nil:
		req.Prior = rec
	case errors.Is(err, sentinel.ErrNotFound):
		req.Prior = nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load prior record")
	}

	if req.Prior == nil && req.Proposed != nil {
		spent, err := s.seeds.Spent(ctx, cfg.SeedRef)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check seed")
		}
		req.SeedConsumed = !spent
	}
	return nil
}

// verdict runs the pure validator and records the outcome. apply marks
// whether the caller intends to persist; pure decisions audit as operations,
// applied accepts as compliance.
func (s *Service) verdict(ctx context.Context, anchor domain.Anchor, v *validator.Validator, req *models.TransitionRequest, apply bool) (Verdict, error) {
	err := v.Validate(req)
	if err == nil {
		if s.metrics != nil {
			s.metrics.ObserveAccept()
		}
		if apply && req.Prior != nil && req.Proposed != nil {
			s.publishAudit(ctx, audit.Event{
				ID:          uuid.NewString(),
				Category:    audit.CategoryCompliance,
				Timestamp:   time.Now().UTC(),
				Anchor:      string(anchor),
				Action:      audit.ActionTransitionAccepted,
				MintedDelta: req.MintedDelta,
				Supply:      req.Proposed.Supply,
			})
		}
		return Verdict{Accepted: true}, nil
	}

	ve, ok := validator.As(err)
	if !ok {
		return Verdict{}, dErrors.Wrap(err, dErrors.CodeInternal, "validator failure")
	}
	if s.metrics != nil {
		s.metrics.ObserveReject(string(ve.Code))
	}
	s.logger.Info("transition rejected",
		"anchor", anchor, "code", ve.Code, "field", ve.Field,
		"expected", ve.Expected, "observed", ve.Observed)
	s.publishAudit(ctx, audit.Event{
		ID:          uuid.NewString(),
		Category:    audit.CategorySecurity,
		Timestamp:   time.Now().UTC(),
		Anchor:      string(anchor),
		Action:      audit.ActionTransitionRejected,
		Code:        string(ve.Code),
		Field:       ve.Field,
		Expected:    ve.Expected,
		Observed:    ve.Observed,
		MintedDelta: req.MintedDelta,
	})
	return Verdict{Accepted: false, Reject: ve}, nil
}

func (s *Service) publishAudit(ctx context.Context, ev audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Publish(ctx, ev); err != nil {
		s.logger.Error("audit publish failed", "action", ev.Action, "anchor", ev.Anchor, "error", err)
	}
}
