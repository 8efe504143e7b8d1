// Package db provides connectivity and migration support for the console's
// SQLite control plane (API keys, audit log, refresh history).
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// Hardening parameters applied to every pool.
const (
	journalMode     = "WAL"
	busyTimeoutMs   = "5000"
	synchronousMode = "NORMAL"

	defaultReadPoolSize = 4
)

// OpenSQLitePair opens the control-plane database twice: a single-connection
// writer pool that serializes all mutations, and a reader pool sized for
// concurrent request handling. readMaxOpen <= 0 falls back to
// defaultReadPoolSize.
//
// Both pools run WAL with busy_timeout=5000ms, synchronous=NORMAL, and
// foreign keys enforced. Only the writer takes _txlock=immediate, so its
// transactions hold the write lock from BEGIN instead of upgrading mid-way.
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = openPool(path, true, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("open write pool: %w", err)
	}

	if readMaxOpen <= 0 {
		readMaxOpen = defaultReadPoolSize
	}
	readDB, err = openPool(path, false, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, fmt.Errorf("open read pool: %w", err)
	}

	return writeDB, readDB, nil
}

func openPool(path string, writer bool, maxOpen int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite3", controlPlaneDSN(path, writer))
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(maxOpen)
	pool.SetMaxIdleConns(maxOpen)
	pool.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return pool, nil
}

// controlPlaneDSN builds the DSN for one pool of the pair.
func controlPlaneDSN(path string, writer bool) string {
	params := url.Values{}
	params.Set("_journal_mode", journalMode)
	params.Set("_busy_timeout", busyTimeoutMs)
	params.Set("_synchronous", synchronousMode)
	params.Set("_foreign_keys", "on")
	if writer {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}
