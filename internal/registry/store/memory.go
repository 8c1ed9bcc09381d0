package store

import (
	"context"
	"sync"

	"reliefregistry/internal/registry"
	"reliefregistry/pkg/fingerprint"
	"reliefregistry/pkg/platform/sentinel"
)

// MemoryStore keeps the registry state in process memory behind a single
// mutex. One lock guards the submission table, the amendment table, the
// fingerprint index, and the configuration, so no operation can observe a
// partially applied mutation and the index stays in lockstep with the table.
type MemoryStore struct {
	mu           sync.RWMutex
	cfg          Config
	authority    registry.Address
	authoritySet bool
	nextID       uint64
	submissions  map[registry.SubmissionID]registry.Submission
	amendments   map[registry.SubmissionID]registry.Amendment
	byEvidence   map[fingerprint.Fingerprint]registry.SubmissionID
}

func NewMemory(cfg Config) *MemoryStore {
	return &MemoryStore{
		cfg:         cfg,
		submissions: make(map[registry.SubmissionID]registry.Submission),
		amendments:  make(map[registry.SubmissionID]registry.Amendment),
		byEvidence:  make(map[fingerprint.Fingerprint]registry.SubmissionID),
	}
}

func (s *MemoryStore) CreateSubmission(_ context.Context, sub registry.Submission, beforeCommit BeforeCommit) (registry.SubmissionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextID >= s.cfg.MaxSubmissions {
		return 0, ErrCapacityExceeded
	}
	if _, dup := s.byEvidence[sub.Evidence]; dup {
		return 0, sentinel.ErrConflict
	}
	if !s.authoritySet {
		return 0, sentinel.ErrInvalidState
	}

	if beforeCommit != nil {
		if err := beforeCommit(s.cfg.Fee, s.authority); err != nil {
			return 0, err
		}
	}

	id := registry.SubmissionID(s.nextID)
	sub.ID = id
	s.submissions[id] = sub
	s.byEvidence[sub.Evidence] = id
	s.nextID++
	return id, nil
}

func (s *MemoryStore) AmendSubmission(_ context.Context, id registry.SubmissionID, caller registry.Address, am registry.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if sub.Submitter != caller {
		return ErrNotSubmitter
	}

	sub.Quantity = am.Quantity
	sub.Urgency = am.Urgency
	sub.Description = am.Description
	sub.Timestamp = am.Timestamp
	s.submissions[id] = sub
	s.amendments[id] = am
	return nil
}

func (s *MemoryStore) GetSubmission(_ context.Context, id registry.SubmissionID) (registry.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sub, ok := s.submissions[id]; ok {
		return sub, nil
	}
	return registry.Submission{}, sentinel.ErrNotFound
}

func (s *MemoryStore) GetAmendment(_ context.Context, id registry.SubmissionID) (registry.Amendment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if am, ok := s.amendments[id]; ok {
		return am, nil
	}
	return registry.Amendment{}, sentinel.ErrNotFound
}

func (s *MemoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID, nil
}

func (s *MemoryStore) ExistsByFingerprint(_ context.Context, fp fingerprint.Fingerprint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEvidence[fp]
	return ok, nil
}

func (s *MemoryStore) SetAuthority(_ context.Context, addr registry.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authoritySet {
		return sentinel.ErrConflict
	}
	s.authority = addr
	s.authoritySet = true
	return nil
}

func (s *MemoryStore) Authority(_ context.Context) (registry.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authoritySet {
		return "", sentinel.ErrNotFound
	}
	return s.authority, nil
}

func (s *MemoryStore) SetFee(_ context.Context, fee uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authoritySet {
		return sentinel.ErrInvalidState
	}
	s.cfg.Fee = fee
	return nil
}

func (s *MemoryStore) Fee(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Fee, nil
}

func (s *MemoryStore) Limits(_ context.Context) (Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}
