package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/bookingedit"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// ChangeSetRepo is the MySQL ledger of booking change sets, keyed by
// idempotency key (table booking_change_sets).
type ChangeSetRepo struct{ db *sql.DB }

func NewChangeSetRepo(db *sql.DB) *ChangeSetRepo { return &ChangeSetRepo{db: db} }

const changeSetColumns = `idempotency_key, booking_id, actor, request_hash, status, result, error_message, created_at, updated_at`

func scanChangeSet(row interface{ Scan(...any) error }) (model.ChangeSetRecord, error) {
	var (
		rec    model.ChangeSetRecord
		errMsg sql.NullString
	)
	err := row.Scan(&rec.IdempotencyKey, &rec.BookingID, &rec.Actor, &rec.RequestHash,
		&rec.Status, &rec.Result, &errMsg, &rec.CreatedAt, &rec.UpdatedAt)
	rec.ErrorMessage = errMsg.String
	return rec, err
}

// Begin inserts a pending row or returns the existing one.  The row is
// locked for the duration of the check so two concurrent commits with the
// same key cannot both start.
func (r *ChangeSetRepo) Begin(ctx context.Context, rec model.ChangeSetRecord) (stored model.ChangeSetRecord, created bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ChangeSetRecord{}, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	cur, err := scanChangeSet(tx.QueryRowContext(ctx,
		`SELECT `+changeSetColumns+` FROM booking_change_sets WHERE idempotency_key = ? FOR UPDATE`,
		rec.IdempotencyKey))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO booking_change_sets (idempotency_key, booking_id, actor, request_hash, status)
			 VALUES (?,?,?,?,?)`,
			rec.IdempotencyKey, rec.BookingID, rec.Actor, rec.RequestHash, model.ChangeSetPending)
		if err != nil {
			return model.ChangeSetRecord{}, false, err
		}
	case err != nil:
		return model.ChangeSetRecord{}, false, err
	case cur.Status != model.ChangeSetFailed:
		return cur, false, nil
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE booking_change_sets
			 SET request_hash = ?, actor = ?, status = ?, result = NULL, error_message = NULL, updated_at = UTC_TIMESTAMP()
			 WHERE idempotency_key = ?`,
			rec.RequestHash, rec.Actor, model.ChangeSetPending, rec.IdempotencyKey)
		if err != nil {
			return model.ChangeSetRecord{}, false, err
		}
	}
	rec.Status = model.ChangeSetPending
	return rec, true, nil
}

// Complete stores the result of an applied change set.
func (r *ChangeSetRepo) Complete(ctx context.Context, key string, result []byte) error {
	return r.finish(ctx, key, model.ChangeSetCompleted, result, sql.NullString{})
}

// Fail records why a change set was not applied.
func (r *ChangeSetRepo) Fail(ctx context.Context, key, message string) error {
	return r.finish(ctx, key, model.ChangeSetFailed, nil, sql.NullString{String: message, Valid: true})
}

func (r *ChangeSetRepo) finish(ctx context.Context, key, status string, result []byte, msg sql.NullString) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE booking_change_sets SET status = ?, result = ?, error_message = ?, updated_at = UTC_TIMESTAMP()
		 WHERE idempotency_key = ?`,
		status, result, msg, key)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return bookingedit.ErrLedgerNotFound
	}
	return nil
}

// Find returns the row under key.
func (r *ChangeSetRepo) Find(ctx context.Context, key string) (model.ChangeSetRecord, error) {
	rec, err := scanChangeSet(r.db.QueryRowContext(ctx,
		`SELECT `+changeSetColumns+` FROM booking_change_sets WHERE idempotency_key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ChangeSetRecord{}, bookingedit.ErrLedgerNotFound
	}
	return rec, err
}

// ListByBooking returns the change sets of a booking, newest first.
func (r *ChangeSetRepo) ListByBooking(ctx context.Context, bookingID string, limit int) ([]model.ChangeSetRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+changeSetColumns+` FROM booking_change_sets WHERE booking_id = ? ORDER BY created_at DESC LIMIT ?`,
		bookingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ChangeSetRecord
	for rows.Next() {
		rec, err := scanChangeSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
