package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const defaultLockTimeoutMs = 3000

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode). Every transaction gets a
// session-local lock_timeout so a writer stuck behind another one fails fast
// instead of queueing; the timeout surfaces to callers as RecursoOcupado.
func runTx(ctx context.Context, db *gorm.DB, lockTimeoutMs int, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	if lockTimeoutMs <= 0 {
		lockTimeoutMs = defaultLockTimeoutMs
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeoutMs)).Error; err != nil {
			return err
		}
		return fn(tx)
	})
	if isLockTimeout(err) {
		return apperr.RecursoOcupado()
	}
	return err
}

// isLockTimeout detects PostgreSQL SQLSTATE 55P03 (lock_not_available).
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}
