package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"venue-offers/internal/domain/claim"
	"venue-offers/internal/domain/interaction"
	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/partner"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/infra/db"
	"venue-offers/internal/infra/readstore"
	"venue-offers/internal/infra/repository"
	"venue-offers/internal/pkg/errs"
	"venue-offers/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	opportunityRepo shared.OpportunityRepository
	interactionRepo shared.InteractionRepository
	claimRepo       shared.ClaimRepository
	preferencesRepo shared.PreferencesRepository
	sessionRepo     shared.SessionRepository
	commandReads    shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Opportunities() shared.OpportunityRepository {
	if t.opportunityRepo == nil {
		t.opportunityRepo = repository.NewOpportunityRepository()
	}
	return t.opportunityRepo
}

func (t *pgTx) Interactions() shared.InteractionRepository {
	if t.interactionRepo == nil {
		t.interactionRepo = repository.NewInteractionRepository()
	}
	return t.interactionRepo
}

func (t *pgTx) Claims() shared.ClaimRepository {
	if t.claimRepo == nil {
		t.claimRepo = repository.NewClaimRepository()
	}
	return t.claimRepo
}

func (t *pgTx) Preferences() shared.PreferencesRepository {
	if t.preferencesRepo == nil {
		t.preferencesRepo = repository.NewPreferencesRepository()
	}
	return t.preferencesRepo
}

func (t *pgTx) Sessions() shared.SessionRepository {
	if t.sessionRepo == nil {
		t.sessionRepo = repository.NewSessionRepository()
	}
	return t.sessionRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

// commandReads serves point lookups against whatever DBTX it is bound to:
// the pool outside transactions, the live tx inside one.
type commandReads struct {
	dbtx db.DBTX
}

func (r *commandReads) OpportunityByID(ctx context.Context, id uuid.UUID) (*opportunity.Opportunity, error) {
	return readstore.OpportunityByID(ctx, r.dbtx, id)
}

func (r *commandReads) PartnerByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	return readstore.PartnerByID(ctx, r.dbtx, id)
}

func (r *commandReads) SessionByID(ctx context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	return readstore.SessionByID(ctx, r.dbtx, id)
}

func (r *commandReads) PreferencesByUser(ctx context.Context, userID uuid.UUID) (*preferences.Preferences, error) {
	return readstore.PreferencesByUser(ctx, r.dbtx, userID)
}

func (r *commandReads) ClaimByCode(ctx context.Context, code string, partnerID uuid.UUID) (*claim.Claim, error) {
	return readstore.ClaimByCode(ctx, r.dbtx, code, partnerID)
}

func (r *commandReads) InteractionByID(ctx context.Context, id uuid.UUID) (*interaction.Interaction, error) {
	return readstore.InteractionByID(ctx, r.dbtx, id)
}

func (r *commandReads) ActiveOpportunityCount(ctx context.Context, partnerID uuid.UUID) (int32, error) {
	return readstore.ActiveOpportunityCount(ctx, r.dbtx, partnerID)
}
