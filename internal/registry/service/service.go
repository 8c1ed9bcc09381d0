// Package service implements the access and fee gate around the registry
// state: authorization, validation, the fee-transfer side effect, and the
// observability boundary. Any failed check short-circuits with no state
// mutation and no side effect.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"reliefregistry/internal/audit"
	"reliefregistry/internal/identity"
	"reliefregistry/internal/ledger"
	"reliefregistry/internal/registry"
	"reliefregistry/internal/registry/metrics"
	"reliefregistry/internal/registry/store"
	"reliefregistry/pkg/fingerprint"
	"reliefregistry/pkg/platform/sentinel"

	dErrors "reliefregistry/pkg/domain-errors"
)

// Service is the registry's procedural API. Every mutation passes
// authorization and validation before the store commit; the fee transfer
// executes inside the store's transaction boundary so it cannot be observed
// without the matching record (and vice versa).
type Service struct {
	store    store.Store
	identity identity.Provider
	ledger   ledger.FeeLedger
	clock    registry.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    *audit.Publisher
	tracer   trace.Tracer
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

// Option customizes optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func WithAudit(p *audit.Publisher) Option {
	return func(c *serviceConfig) { c.audit = p }
}

func New(st store.Store, idp identity.Provider, fees ledger.FeeLedger, clock registry.Clock, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		identity: idp,
		ledger:   fees,
		clock:    clock,
		logger:   logger,
		metrics:  cfg.metrics,
		audit:    cfg.audit,
		tracer:   otel.Tracer("reliefregistry/registry"),
	}
}

// Submit validates and commits a new need submission. Checks run in fixed
// order: capacity and field validation, registered caller, duplicate
// evidence, configured authority. On success the submission fee moves from
// the caller to the authority atomically with the record commit, and the
// assigned id is returned.
func (s *Service) Submit(ctx context.Context, caller registry.Address, req registry.SubmitRequest) (registry.SubmissionID, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Submit")
	defer span.End()

	id, err := s.submit(ctx, caller, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.metrics.IncrementRejection("submit", string(dErrors.CodeOf(err)))
		return 0, err
	}
	span.SetAttributes(attribute.Int64("submission.id", int64(id)))
	return id, nil
}

func (s *Service) submit(ctx context.Context, caller registry.Address, req registry.SubmitRequest) (registry.SubmissionID, error) {
	cfg, err := s.store.Limits(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "read registry config")
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "read submission count")
	}
	height := s.clock.Height()
	if err := registry.ValidateSubmission(req, count, cfg.MaxSubmissions, height); err != nil {
		return 0, err
	}

	registered, err := s.identity.IsRegistered(ctx, caller)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "identity check failed")
	}
	if !registered {
		return 0, dErrors.New(dErrors.CodeNotAuthorized, "caller is not a registered user")
	}

	fp, err := fingerprint.Parse(req.EvidenceHash)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidEvidence, "evidence hash must be exactly 32 bytes")
	}
	exists, err := s.store.ExistsByFingerprint(ctx, fp)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint lookup failed")
	}
	if exists {
		return 0, dErrors.New(dErrors.CodeDuplicateEvidence, "evidence already backs another submission")
	}

	sub := registry.Submission{
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		NeedType:    req.NeedType,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Urgency:     req.Urgency,
		Description: req.Description,
		Evidence:    fp,
		Category:    req.Category,
		Expiry:      req.Expiry,
		Timestamp:   height,
		Submitter:   caller,
		Active:      true,
	}

	var paidFee uint64
	id, err := s.store.CreateSubmission(ctx, sub, func(fee uint64, authority registry.Address) error {
		if err := s.ledger.Transfer(ctx, fee, caller, authority); err != nil {
			return err
		}
		paidFee = fee
		return nil
	})
	if err != nil {
		return 0, translateCreateErr(err)
	}

	s.metrics.IncrementSubmissions()
	s.metrics.AddCollectedFee(paidFee)
	s.emit(ctx, audit.ActionSubmit, caller, id, string(req.NeedType))
	s.logger.Info("submission committed",
		"id", uint64(id), "submitter", string(caller), "need_type", string(req.NeedType), "fee", paidFee)
	return id, nil
}

func translateCreateErr(err error) error {
	switch {
	case errors.Is(err, store.ErrCapacityExceeded):
		return dErrors.New(dErrors.CodeCapacityExceeded, "submission cap reached")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeDuplicateEvidence, "evidence already backs another submission")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeAuthorityNotSet, "registry authority is not configured")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "submission commit failed")
	}
}

// Amend overwrites quantity, urgency, and description on an existing
// submission. Only the original submitter may amend; a repeated amendment
// replaces the prior amendment record. The evidence index is never touched.
func (s *Service) Amend(ctx context.Context, caller registry.Address, id registry.SubmissionID, quantity int64, urgency int, description string) error {
	ctx, span := s.tracer.Start(ctx, "registry.Amend",
		trace.WithAttributes(attribute.Int64("submission.id", int64(id))))
	defer span.End()

	err := s.amend(ctx, caller, id, quantity, urgency, description)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.metrics.IncrementRejection("amend", string(dErrors.CodeOf(err)))
		return err
	}
	return nil
}

func (s *Service) amend(ctx context.Context, caller registry.Address, id registry.SubmissionID, quantity int64, urgency int, description string) error {
	sub, err := s.store.GetSubmission(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeSubmissionNotFound, "no submission with that id")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "submission lookup failed")
	}
	if sub.Submitter != caller {
		return dErrors.New(dErrors.CodeNotAuthorized, "only the original submitter may amend")
	}
	if err := registry.ValidateAmendment(quantity, urgency, description); err != nil {
		return err
	}

	am := registry.Amendment{
		Quantity:    quantity,
		Urgency:     urgency,
		Description: description,
		Timestamp:   s.clock.Height(),
		Updater:     caller,
	}
	err = s.store.AmendSubmission(ctx, id, caller, am)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeSubmissionNotFound, "no submission with that id")
	case errors.Is(err, store.ErrNotSubmitter):
		return dErrors.New(dErrors.CodeNotAuthorized, "only the original submitter may amend")
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "amendment failed")
	}

	s.metrics.IncrementAmendments()
	s.emit(ctx, audit.ActionAmend, caller, id, "")
	s.logger.Info("submission amended", "id", uint64(id), "submitter", string(caller))
	return nil
}

// Get is a pure lookup. Absence surfaces as CodeSubmissionNotFound.
func (s *Service) Get(ctx context.Context, id registry.SubmissionID) (registry.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return registry.Submission{}, dErrors.New(dErrors.CodeSubmissionNotFound, "no submission with that id")
	}
	if err != nil {
		return registry.Submission{}, dErrors.Wrap(err, dErrors.CodeInternal, "submission lookup failed")
	}
	return sub, nil
}

// GetAmendment returns the last-applied amendment record for a submission.
func (s *Service) GetAmendment(ctx context.Context, id registry.SubmissionID) (registry.Amendment, error) {
	am, err := s.store.GetAmendment(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return registry.Amendment{}, dErrors.New(dErrors.CodeSubmissionNotFound, "no amendment for that id")
	}
	if err != nil {
		return registry.Amendment{}, dErrors.Wrap(err, dErrors.CodeInternal, "amendment lookup failed")
	}
	return am, nil
}

// Count returns the total number of submissions ever created.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "read submission count")
	}
	return count, nil
}

// ExistsByFingerprint reports whether the evidence fingerprint already backs
// a submission.
func (s *Service) ExistsByFingerprint(ctx context.Context, fp fingerprint.Fingerprint) (bool, error) {
	exists, err := s.store.ExistsByFingerprint(ctx, fp)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint lookup failed")
	}
	return exists, nil
}

// SetAuthority configures the write-once fee authority. A second call fails
// with CodeAuthorityAlreadySet and leaves the configured value unchanged.
func (s *Service) SetAuthority(ctx context.Context, addr registry.Address) error {
	err := s.store.SetAuthority(ctx, addr)
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeAuthorityAlreadySet, "registry authority is already configured")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "set authority failed")
	}
	s.emit(ctx, audit.ActionSetAuthority, addr, 0, string(addr))
	s.logger.Info("registry authority configured", "authority", string(addr))
	return nil
}

// SetFee changes the submission fee. Enabled only once an authority is
// configured. The fee value is intentionally unbounded, matching the
// registry's documented behavior.
func (s *Service) SetFee(ctx context.Context, fee uint64) error {
	err := s.store.SetFee(ctx, fee)
	if errors.Is(err, sentinel.ErrInvalidState) {
		return dErrors.New(dErrors.CodeAuthorityNotSet, "registry authority is not configured")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "set fee failed")
	}
	s.emit(ctx, audit.ActionSetFee, "", 0, strconv.FormatUint(fee, 10))
	s.logger.Info("submission fee changed", "fee", fee)
	return nil
}

func (s *Service) emit(ctx context.Context, action audit.Action, actor registry.Address, id registry.SubmissionID, detail string) {
	if s.audit == nil {
		return
	}
	subject := ""
	if action == audit.ActionSubmit || action == audit.ActionAmend {
		subject = strconv.FormatUint(uint64(id), 10)
	}
	s.audit.Emit(ctx, audit.NewEvent(action, string(actor), subject, detail))
}
