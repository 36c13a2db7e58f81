// Package database provides connection management for dbwipe.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbwipe/dbwipe/internal/config"
)

// Manager owns the single connection handle the cleaner operates on.
// Cleaning is sequential over one session, so the pool is pinned to a single
// connection: session-scoped settings (FOREIGN_KEY_CHECKS,
// session_replication_role, pragmas) must land on the same session that runs
// the truncates.
type Manager struct {
	DB     *sql.DB
	config *config.DatabaseConfig
}

// NewManager creates a database manager from configuration.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	return &Manager{config: cfg}
}

// Connect opens the database and verifies it with a ping, retrying with
// exponential backoff.
func (m *Manager) Connect(ctx context.Context) error {
	var err error
	m.DB, err = m.connectWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

func (m *Manager) connectWithRetry(ctx context.Context) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 3
	backoff := time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = m.open()
		if err == nil {
			if pingErr := db.PingContext(ctx); pingErr == nil {
				return db, nil
			} else {
				db.Close()
				err = pingErr
			}
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}

func (m *Manager) open() (*sql.DB, error) {
	db, err := sql.Open(m.config.Driver, m.config.DSN)
	if err != nil {
		return nil, err
	}

	maxOpen := m.config.MaxConnections
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)

	maxIdle := m.config.MaxIdleConnections
	if maxIdle <= 0 {
		maxIdle = maxOpen
	}
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// Close closes the connection handle.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return fmt.Errorf("not connected")
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
