package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"reliefregistry/internal/registry"
	"reliefregistry/pkg/fingerprint"
	"reliefregistry/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// PostgresStore persists the registry state in PostgreSQL. Each mutation runs
// in a single SQL transaction with the configuration row locked FOR UPDATE,
// which serializes writers and keeps the fingerprint index (a unique column
// on the submission table) in lockstep with the table by construction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database, applies the schema, and seeds the
// configuration row when absent. Seeding never overwrites an existing row,
// so caps and fees survive restarts.
func NewPostgres(ctx context.Context, databaseURL string, cfg Config) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx, cfg); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresFromPool wraps an existing pool; used by integration tests.
func NewPostgresFromPool(ctx context.Context, pool *pgxpool.Pool, cfg Config) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context, cfg Config) error {
	schema := `
		CREATE TABLE IF NOT EXISTS registry_config (
			id              smallint PRIMARY KEY CHECK (id = 1),
			next_id         bigint NOT NULL DEFAULT 0,
			max_submissions bigint NOT NULL,
			fee             bigint NOT NULL,
			authority       text
		);
		CREATE TABLE IF NOT EXISTS submissions (
			id            bigint PRIMARY KEY,
			location      text NOT NULL,
			latitude      bigint NOT NULL,
			longitude     bigint NOT NULL,
			need_type     text NOT NULL,
			quantity      bigint NOT NULL,
			unit          text NOT NULL,
			urgency       int NOT NULL,
			description   text NOT NULL,
			evidence_hash bytea NOT NULL UNIQUE,
			category      text NOT NULL,
			expiry        bigint NOT NULL,
			ts            bigint NOT NULL,
			submitter     text NOT NULL,
			active        boolean NOT NULL
		);
		CREATE TABLE IF NOT EXISTS amendments (
			submission_id bigint PRIMARY KEY REFERENCES submissions(id),
			quantity      bigint NOT NULL,
			urgency       int NOT NULL,
			description   text NOT NULL,
			ts            bigint NOT NULL,
			updater       text NOT NULL
		);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO registry_config (id, next_id, max_submissions, fee)
		 VALUES (1, 0, $1, $2)
		 ON CONFLICT (id) DO NOTHING`,
		int64(cfg.MaxSubmissions), int64(cfg.Fee))
	if err != nil {
		return fmt.Errorf("seed config row: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateSubmission(ctx context.Context, sub registry.Submission, beforeCommit BeforeCommit) (registry.SubmissionID, error) {
	var id registry.SubmissionID
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var nextID, maxSubmissions, fee int64
		var authority *string
		err := tx.QueryRow(ctx,
			`SELECT next_id, max_submissions, fee, authority
			 FROM registry_config WHERE id = 1 FOR UPDATE`).
			Scan(&nextID, &maxSubmissions, &fee, &authority)
		if err != nil {
			return fmt.Errorf("lock config row: %w", err)
		}

		if uint64(nextID) >= uint64(maxSubmissions) {
			return ErrCapacityExceeded
		}
		var dup bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM submissions WHERE evidence_hash = $1)`,
			sub.Evidence.Bytes()).Scan(&dup)
		if err != nil {
			return fmt.Errorf("check fingerprint: %w", err)
		}
		if dup {
			return sentinel.ErrConflict
		}
		if authority == nil {
			return sentinel.ErrInvalidState
		}

		if beforeCommit != nil {
			if err := beforeCommit(uint64(fee), registry.Address(*authority)); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO submissions (
				id, location, latitude, longitude, need_type, quantity, unit,
				urgency, description, evidence_hash, category, expiry, ts,
				submitter, active
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			nextID, sub.Location, sub.Latitude, sub.Longitude, string(sub.NeedType),
			sub.Quantity, sub.Unit, sub.Urgency, sub.Description,
			sub.Evidence.Bytes(), string(sub.Category), int64(sub.Expiry),
			int64(sub.Timestamp), string(sub.Submitter), sub.Active)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert submission: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE registry_config SET next_id = next_id + 1 WHERE id = 1`); err != nil {
			return fmt.Errorf("advance next_id: %w", err)
		}
		id = registry.SubmissionID(nextID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) AmendSubmission(ctx context.Context, id registry.SubmissionID, caller registry.Address, am registry.Amendment) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var submitter string
		err := tx.QueryRow(ctx,
			`SELECT submitter FROM submissions WHERE id = $1 FOR UPDATE`,
			int64(id)).Scan(&submitter)
		if errors.Is(err, pgx.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock submission: %w", err)
		}
		if registry.Address(submitter) != caller {
			return ErrNotSubmitter
		}

		_, err = tx.Exec(ctx,
			`UPDATE submissions
			 SET quantity = $2, urgency = $3, description = $4, ts = $5
			 WHERE id = $1`,
			int64(id), am.Quantity, am.Urgency, am.Description, int64(am.Timestamp))
		if err != nil {
			return fmt.Errorf("update submission: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO amendments (submission_id, quantity, urgency, description, ts, updater)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 ON CONFLICT (submission_id) DO UPDATE SET
				quantity = EXCLUDED.quantity,
				urgency = EXCLUDED.urgency,
				description = EXCLUDED.description,
				ts = EXCLUDED.ts,
				updater = EXCLUDED.updater`,
			int64(id), am.Quantity, am.Urgency, am.Description, int64(am.Timestamp), string(am.Updater))
		if err != nil {
			return fmt.Errorf("upsert amendment: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) GetSubmission(ctx context.Context, id registry.SubmissionID) (registry.Submission, error) {
	var sub registry.Submission
	var needType, category, submitter string
	var evidence []byte
	var subID, expiry, ts int64
	err := s.pool.QueryRow(ctx,
		`SELECT id, location, latitude, longitude, need_type, quantity, unit,
		        urgency, description, evidence_hash, category, expiry, ts,
		        submitter, active
		 FROM submissions WHERE id = $1`, int64(id)).
		Scan(&subID, &sub.Location, &sub.Latitude, &sub.Longitude, &needType,
			&sub.Quantity, &sub.Unit, &sub.Urgency, &sub.Description,
			&evidence, &category, &expiry, &ts, &submitter, &sub.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return registry.Submission{}, sentinel.ErrNotFound
	}
	if err != nil {
		return registry.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	fp, err := fingerprint.Parse(evidence)
	if err != nil {
		return registry.Submission{}, fmt.Errorf("stored evidence hash: %w", err)
	}
	sub.ID = registry.SubmissionID(subID)
	sub.NeedType = registry.NeedType(needType)
	sub.Category = registry.Category(category)
	sub.Submitter = registry.Address(submitter)
	sub.Evidence = fp
	sub.Expiry = uint64(expiry)
	sub.Timestamp = uint64(ts)
	return sub, nil
}

func (s *PostgresStore) GetAmendment(ctx context.Context, id registry.SubmissionID) (registry.Amendment, error) {
	var am registry.Amendment
	var ts int64
	var updater string
	err := s.pool.QueryRow(ctx,
		`SELECT quantity, urgency, description, ts, updater
		 FROM amendments WHERE submission_id = $1`, int64(id)).
		Scan(&am.Quantity, &am.Urgency, &am.Description, &ts, &updater)
	if errors.Is(err, pgx.ErrNoRows) {
		return registry.Amendment{}, sentinel.ErrNotFound
	}
	if err != nil {
		return registry.Amendment{}, fmt.Errorf("get amendment: %w", err)
	}
	am.Timestamp = uint64(ts)
	am.Updater = registry.Address(updater)
	return am, nil
}

func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var nextID int64
	err := s.pool.QueryRow(ctx,
		`SELECT next_id FROM registry_config WHERE id = 1`).Scan(&nextID)
	if err != nil {
		return 0, fmt.Errorf("read next_id: %w", err)
	}
	return uint64(nextID), nil
}

func (s *PostgresStore) ExistsByFingerprint(ctx context.Context, fp fingerprint.Fingerprint) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE evidence_hash = $1)`,
		fp.Bytes()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check fingerprint: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) SetAuthority(ctx context.Context, addr registry.Address) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE registry_config SET authority = $1 WHERE id = 1 AND authority IS NULL`,
		string(addr))
	if err != nil {
		return fmt.Errorf("set authority: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Authority(ctx context.Context) (registry.Address, error) {
	var authority *string
	err := s.pool.QueryRow(ctx,
		`SELECT authority FROM registry_config WHERE id = 1`).Scan(&authority)
	if err != nil {
		return "", fmt.Errorf("read authority: %w", err)
	}
	if authority == nil {
		return "", sentinel.ErrNotFound
	}
	return registry.Address(*authority), nil
}

func (s *PostgresStore) SetFee(ctx context.Context, fee uint64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE registry_config SET fee = $1 WHERE id = 1 AND authority IS NOT NULL`,
		int64(fee))
	if err != nil {
		return fmt.Errorf("set fee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) Fee(ctx context.Context) (uint64, error) {
	var fee int64
	err := s.pool.QueryRow(ctx,
		`SELECT fee FROM registry_config WHERE id = 1`).Scan(&fee)
	if err != nil {
		return 0, fmt.Errorf("read fee: %w", err)
	}
	return uint64(fee), nil
}

func (s *PostgresStore) Limits(ctx context.Context) (Config, error) {
	var maxSubmissions, fee int64
	err := s.pool.QueryRow(ctx,
		`SELECT max_submissions, fee FROM registry_config WHERE id = 1`).
		Scan(&maxSubmissions, &fee)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Config{MaxSubmissions: uint64(maxSubmissions), Fee: uint64(fee)}, nil
}
