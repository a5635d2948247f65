// Package testutil builds migrated, seeded in-memory databases for tests.
package testutil

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/db"
	"gorm.io/gorm"
)

// NewDB returns a fresh in-memory SQLite database with the schema migrated
// and roles seeded. The pool is pinned to one connection so every query sees
// the same memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, "file::memory:", nil)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Setup(conn); err != nil {
		t.Fatalf("setup db: %v", err)
	}

	return conn
}

// NewLogger returns a logger that discards output.
func NewLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
