// Package pool narrows pgx pools, connections and transactions to interfaces,
// so stores can be written against any of them.
package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Queryer sends SQL.
//
// *pgxpool.Pool, *pgxpool.Conn and pgx.Tx satisfy this.
type Queryer interface {
	// Exec sends a command without result rows.
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)

	// Query sends a command with result rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow sends a command with a single result row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Begin begins a transaction, or a savepoint in a transaction.
type Begin interface {
	Begin(ctx context.Context) (Tx, error)
}

// BeginTx begins a transaction with options.
type BeginTx interface {
	Begin
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (Tx, error)
}

// Tx is a transaction.
//
// pgx.Tx itself is not a Tx, since its Begin returns pgx.Tx.
// Transactions are got from Begin of Pool or Conn.
type Tx interface {
	Queryer
	Begin

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is a connection acquired from Pool. Release it after use.
type Conn interface {
	BeginTx
	Queryer

	Release()
	Ping(ctx context.Context) error
}

// Pool is a connection pool.
type Pool interface {
	BeginTx
	Queryer

	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
}

// Wrap makes *pgxpool.Pool a Pool.
func Wrap(p *pgxpool.Pool) Pool {
	return pool{Pool: p}
}

func wrapTx(t pgx.Tx, err error) (Tx, error) {
	if t == nil {
		return nil, err
	}
	return tx{Tx: t}, err
}

type tx struct{ pgx.Tx }

func (t tx) Begin(ctx context.Context) (Tx, error) {
	return wrapTx(t.Tx.Begin(ctx))
}

type conn struct{ *pgxpool.Conn }

func (c conn) Begin(ctx context.Context) (Tx, error) {
	return wrapTx(c.Conn.Begin(ctx))
}

func (c conn) BeginTx(ctx context.Context, opts pgx.TxOptions) (Tx, error) {
	return wrapTx(c.Conn.BeginTx(ctx, opts))
}

type pool struct{ *pgxpool.Pool }

func (p pool) Begin(ctx context.Context) (Tx, error) {
	return wrapTx(p.Pool.Begin(ctx))
}

func (p pool) BeginTx(ctx context.Context, opts pgx.TxOptions) (Tx, error) {
	return wrapTx(p.Pool.BeginTx(ctx, opts))
}

func (p pool) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.Pool.Acquire(ctx)
	if c == nil {
		return nil, err
	}
	return conn{Conn: c}, err
}

var (
	_ Tx   = tx{}
	_ Conn = conn{}
	_ Pool = pool{}
)
