package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Querier is the statement surface shared by a database and a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB interface {
	Querier

	// WithTx runs fn in a transaction. Inside fn, nested calls join the
	// outer transaction.
	WithTx(ctx context.Context, fn func(DB) error) error
}

var (
	_ DB = (*Client)(nil)
	_ DB = txScope{}
)

// Client owns one open database handle.
type Client struct {
	db *sql.DB
}

func NewClient(sqlDB *sql.DB) *Client {
	return &Client{db: sqlDB}
}

func (c *Client) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

func (c *Client) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, query, args...)
}

func (c *Client) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, query, args...)
}

func (c *Client) Close() error {
	return c.db.Close()
}

// WithTx commits when fn returns nil and rolls back otherwise.
func (c *Client) WithTx(ctx context.Context, fn func(DB) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(txScope{tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type txScope struct {
	*sql.Tx
}

func (s txScope) WithTx(_ context.Context, fn func(DB) error) error {
	return fn(s)
}
