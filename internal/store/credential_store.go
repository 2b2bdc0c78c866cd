package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/models"
)

// credentialStore is the SQLite-backed implementation of [CredentialStore].
// Values live in a single name/value table; multi-key writes run in one
// transaction.
type credentialStore struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewCredentialStore constructs a [CredentialStore] backed by db.
func NewCredentialStore(db *DB, logger *logger.Logger) CredentialStore {
	logger.Debug().Msg("creating credential store")
	return &credentialStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (s *credentialStore) Load(ctx context.Context) (models.CredentialState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildLoadQuery()
	if err != nil {
		return models.CredentialState{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*credentialStore.Load").Msg("failed to query credential state")
		return models.CredentialState{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var state models.CredentialState
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			log.Err(err).Str("func", "*credentialStore.Load").Msg("failed to scan credential row")
			return models.CredentialState{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		switch name {
		case keySecret:
			state.Secret = value
		case keySessionToken:
			state.SessionToken = value
		case keySubjectID:
			state.SubjectID = value
		case keyTokenExpiresAt:
			expiresAt, err := time.Parse(time.RFC3339Nano, value)
			if err != nil {
				// treated as missing expiry; the session gets purged on restore
				log.Warn().Err(err).Str("func", "*credentialStore.Load").Msg("malformed token expiry")
				continue
			}
			state.ExpiresAt = expiresAt
		}
	}
	if err := rows.Err(); err != nil {
		return models.CredentialState{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return state, nil
}

func (s *credentialStore) SaveSecret(ctx context.Context, secret string) error {
	query, args, err := buildUpsertQuery(s.now().UTC(), kv{keySecret, secret})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*credentialStore.SaveSecret").Msg("failed to save secret")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *credentialStore) SaveSession(ctx context.Context, session models.Session) error {
	query, args, err := buildUpsertQuery(s.now().UTC(),
		kv{keySessionToken, session.Token},
		kv{keySubjectID, session.SubjectID},
		kv{keyTokenExpiresAt, session.ExpiresAt.UTC().Format(time.RFC3339Nano)},
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.inTx(ctx, "*credentialStore.SaveSession", query, args)
}

func (s *credentialStore) SaveCredentials(ctx context.Context, secret string, session models.Session) error {
	query, args, err := buildUpsertQuery(s.now().UTC(),
		kv{keySecret, secret},
		kv{keySessionToken, session.Token},
		kv{keySubjectID, session.SubjectID},
		kv{keyTokenExpiresAt, session.ExpiresAt.UTC().Format(time.RFC3339Nano)},
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.inTx(ctx, "*credentialStore.SaveCredentials", query, args)
}

func (s *credentialStore) ClearSession(ctx context.Context) error {
	query, args, err := buildDeleteQuery(sessionKeys)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.inTx(ctx, "*credentialStore.ClearSession", query, args)
}

func (s *credentialStore) Clear(ctx context.Context) error {
	query, args, err := buildDeleteQuery(allKeys)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return s.inTx(ctx, "*credentialStore.Clear", query, args)
}

// inTx runs a single statement inside a transaction.
func (s *credentialStore) inTx(ctx context.Context, fn, query string, args []any) error {
	log := logger.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Err(rbErr).Str("func", fn).Msg("failed to rollback transaction")
		}
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", fn).Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
