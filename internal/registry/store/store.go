// Package store owns the registry state: the submission table, the
// amendment table, the evidence-fingerprint index, and the registry
// configuration. Implementations must mutate the table and the index in the
// same atomic scope so they can never diverge, and must expose each public
// operation as a single indivisible step.
package store

import (
	"context"
	"errors"

	"reliefregistry/internal/registry"
	"reliefregistry/pkg/fingerprint"
)

var (
	// ErrCapacityExceeded is returned when the next-id counter has reached
	// the max-submissions cap.
	ErrCapacityExceeded = errors.New("submission cap reached")

	// ErrNotSubmitter is returned when an amendment caller is not the
	// submission's original submitter.
	ErrNotSubmitter = errors.New("caller is not the submitter")
)

// Config is the registry configuration held alongside the tables. Fee is
// mutable through SetFee; MaxSubmissions is fixed at construction.
type Config struct {
	MaxSubmissions uint64
	Fee            uint64
}

// BeforeCommit runs inside the store's transaction boundary after all store
// checks pass and before the record is written. It receives the current fee
// and the configured authority. Returning an error aborts the creation with
// no state mutation; this is how the fee transfer stays atomic with the
// commit.
type BeforeCommit func(fee uint64, authority registry.Address) error

// Store is the registry state transition surface. Infrastructure failures
// surface as sentinel errors (see pkg/platform/sentinel):
//   - sentinel.ErrNotFound: submission or amendment absent, or authority unset
//   - sentinel.ErrConflict: duplicate evidence fingerprint, or authority already set
//   - sentinel.ErrInvalidState: operation requires a configured authority
type Store interface {
	// CreateSubmission re-checks capacity, fingerprint uniqueness, and
	// authority presence under its own lock or transaction, runs the
	// beforeCommit hook, then assigns the next dense id and writes the
	// record and the fingerprint index entry together.
	CreateSubmission(ctx context.Context, sub registry.Submission, beforeCommit BeforeCommit) (registry.SubmissionID, error)

	// AmendSubmission overwrites quantity, urgency, description, and
	// timestamp on the submission and replaces the single amendment record
	// for that id. The fingerprint index is never touched. Fails with
	// sentinel.ErrNotFound when the submission is absent and ErrNotSubmitter
	// when caller is not the original submitter.
	AmendSubmission(ctx context.Context, id registry.SubmissionID, caller registry.Address, am registry.Amendment) error

	GetSubmission(ctx context.Context, id registry.SubmissionID) (registry.Submission, error)
	GetAmendment(ctx context.Context, id registry.SubmissionID) (registry.Amendment, error)

	// Count returns the next-id counter, which equals the total number of
	// submissions ever created.
	Count(ctx context.Context) (uint64, error)

	ExistsByFingerprint(ctx context.Context, fp fingerprint.Fingerprint) (bool, error)

	// SetAuthority configures the write-once authority address. A second
	// call fails with sentinel.ErrConflict and leaves the value unchanged.
	SetAuthority(ctx context.Context, addr registry.Address) error

	// Authority returns the configured authority, or sentinel.ErrNotFound
	// while unset.
	Authority(ctx context.Context) (registry.Address, error)

	// SetFee changes the submission fee. Enabled only once an authority is
	// configured; fails with sentinel.ErrInvalidState before that. The fee
	// value itself is intentionally unbounded.
	SetFee(ctx context.Context, fee uint64) error

	Fee(ctx context.Context) (uint64, error)

	// Limits returns the current configuration snapshot.
	Limits(ctx context.Context) (Config, error)
}
