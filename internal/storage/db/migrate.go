package db

import (
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	gooseOnce     sync.Once
	gooseSetupErr error
)

// Migrate applies the embedded schema migrations.
func (c *Client) Migrate() error {
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations)
		goose.SetLogger(goose.NopLogger())
		gooseSetupErr = goose.SetDialect("sqlite3")
	})
	if gooseSetupErr != nil {
		return fmt.Errorf("set goose dialect: %w", gooseSetupErr)
	}

	if err := goose.Up(c.db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
