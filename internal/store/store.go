// Package store holds the PostgreSQL implementations of the service stores.
// All SQL is hand written for lib/pq.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"

	"github.com/aerayy/fithub-backend/internal/apperr"
)

// Postgres error codes that mean "try again".
const (
	codeSerialization = "40001"
	codeDeadlock      = "40P01"
	codeLockTimeout   = "55P03"
	codeQueryCanceled = "57014"
	codeUniqueViolate = "23505"
	codeFKViolation   = "23503"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapErr classifies a driver error. Errors that already carry a kind pass
// through unchanged.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Conflict("database busy, try again", err)
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		switch string(pe.Code) {
		case codeSerialization, codeDeadlock, codeLockTimeout, codeQueryCanceled:
			return apperr.Conflict("concurrent update, try again", err)
		case codeUniqueViolate:
			return apperr.Conflict("conflicting update", err)
		case codeFKViolation:
			return apperr.NotFound("referenced record not found")
		}
	}
	return apperr.Internal(op, err)
}

// withTx runs fn in a transaction. Any error or panic rolls it back.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return mapErr("tx", err)
	}
	if err = tx.Commit(); err != nil {
		return mapErr("commit", err)
	}
	return nil
}

func isAssigned(ctx context.Context, db *sql.DB, coachID, clientID int64) (bool, error) {
	var ok bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE user_id = $1 AND assigned_coach_id = $2)`,
		clientID, coachID).Scan(&ok)
	if err != nil {
		return false, mapErr("check assignment", err)
	}
	return ok, nil
}

// lockAssignedClient takes the client row lock that serializes activations
// for one client and checks the coach owns the client.
func lockAssignedClient(ctx context.Context, tx *sql.Tx, coachID, clientID int64) error {
	var assigned sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT assigned_coach_id FROM clients WHERE user_id = $1 FOR UPDATE`, clientID).Scan(&assigned)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && (!assigned.Valid || assigned.Int64 != coachID)) {
		return apperr.Forbidden("student not assigned to this coach")
	}
	return err
}

// placeholders numbers $n arguments while a query is assembled.
type placeholders struct {
	args []any
}

func (p *placeholders) add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
