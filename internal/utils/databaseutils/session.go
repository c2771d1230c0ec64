package databaseutils

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type txKey struct{}

// SQLExecutor is the subset of methods shared by *sql.DB and *sql.Tx, so
// queries can run the same way inside and outside a transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Session manages transaction boundaries. The transaction travels in the
// context returned by Context, so query helpers pick it up transparently.
type Session interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Session, error)

	// DoTransactionally runs fn inside a fresh transaction, committing when
	// fn returns nil and rolling back otherwise.
	DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error

	Rollback() error
	Commit() error
	Context() context.Context
}

type sqlSession struct {
	db  *sql.DB
	tx  *sql.Tx
	ctx context.Context
	log *slog.Logger
}

func NewSession(db *sql.DB, log *slog.Logger) Session {
	return &sqlSession{
		db:  db,
		log: log,
	}
}

func (s *sqlSession) BeginTx(ctx context.Context, opts *sql.TxOptions) (Session, error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("session: failed to begin transaction: %w", err)
	}

	return &sqlSession{
		db:  s.db,
		tx:  tx,
		ctx: context.WithValue(ctx, txKey{}, tx),
		log: s.log,
	}, nil
}

func (s *sqlSession) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	session, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = session.Rollback()
			panic(p)
		}

		if err != nil {
			if rollbackErr := session.Rollback(); rollbackErr != nil {
				s.log.Error("session: rollback failed", "error", rollbackErr, "cause", err)
			}
			return
		}

		if commitErr := session.Commit(); commitErr != nil {
			err = fmt.Errorf("session: failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(session.Context())
	return err
}

func (s *sqlSession) Rollback() error {
	if s.tx == nil {
		return fmt.Errorf("session: no active transaction to rollback")
	}
	return s.tx.Rollback()
}

func (s *sqlSession) Commit() error {
	if s.tx == nil {
		return fmt.Errorf("session: no active transaction to commit")
	}
	return s.tx.Commit()
}

func (s *sqlSession) Context() context.Context {
	return s.ctx
}

// GetSQLExecutor returns the transaction carried by ctx, or fallbackDB when
// no transaction is active.
func GetSQLExecutor(ctx context.Context, fallbackDB *sql.DB) SQLExecutor {
	val := ctx.Value(txKey{})
	if val == nil {
		return fallbackDB
	}

	tx, ok := val.(*sql.Tx)
	if !ok {
		panic(fmt.Sprintf("session: value in context for txKey is not a *sql.Tx, but %T", val))
	}
	return tx
}

// DoTransactionally is the value-returning variant of Session.DoTransactionally.
func DoTransactionally[T any](ctx context.Context, session Session, fn func(txCtx context.Context) (T, error)) (T, error) {
	var zero T
	var result T
	err := session.DoTransactionally(ctx, func(txCtx context.Context) error {
		r, err := fn(txCtx)
		result = r
		return err
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}
