package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mediashelf/mediashelf-backend/pkg/logger"
	"gorm.io/gorm"
)

// Engine holds what every mutation needs: the database, the isolation level
// each transaction opens with, and the post-commit notifier.
type Engine struct {
	db       *gorm.DB
	txOpts   *sql.TxOptions
	notifier Notifier
}

func NewEngine(db *gorm.DB, txOpts *sql.TxOptions, notifier Notifier) *Engine {
	if db == nil {
		panic("database connection cannot be nil")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{db: db, txOpts: txOpts, notifier: notifier}
}

// transact runs fn in one transaction. fn returns nil to commit; any error
// rolls back and is returned unchanged.
func (e *Engine) transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if e.txOpts == nil {
		return e.db.WithContext(ctx).Transaction(fn)
	}
	return e.db.WithContext(ctx).Transaction(fn, e.txOpts)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// txError turns what transact returned into the single error the caller
// sees: the translated conflict, a domain error raised inside fn, or
// ErrInternal for anything else.
func txError(op string, err error, result WriteResult) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errRollback):
		return result.Err()
	case ErrorKind(err) != "internal":
		return err
	default:
		return internalError(op, err)
	}
}

// logOutcome logs a failed operation at Error for storage failures and at
// Debug for domain rejections.
func logOutcome(op string, fields map[string]interface{}, err error) {
	entry := logger.WithFields(fields)
	if errors.Is(err, ErrInternal) {
		entry.Error(op, " failed: ", err)
		return
	}
	entry.Debug(op, " rejected: ", ErrorKind(err))
}
