// Package testutil provides an in-memory quiz store for tests.
package testutil

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiz-loader/internal/database"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// NewSQLiteStore opens an in-memory database with the quizzes schema and courses 1..courses.
// It is closed when the test ends.
func NewSQLiteStore(t testing.TB, courses int) *sqlx.DB {
	t.Helper()
	return NewSQLiteStoreAt(t, "sqlite://file::memory:", courses)
}

// NewSQLiteStoreAt is NewSQLiteStore for a caller-chosen sqlite connection string.
func NewSQLiteStoreAt(t testing.TB, rawURL string, courses int) *sqlx.DB {
	t.Helper()
	db, _, err := database.Open(context.Background(), rawURL, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
	}
	for id := 1; id <= courses; id++ {
		if _, err := db.Exec(`INSERT INTO courses (id, title) VALUES (?, ?)`, id, fmt.Sprintf("Cours %d", id)); err != nil {
			t.Fatalf("failed to insert course %d: %v", id, err)
		}
	}
	return db
}

// CountRows returns the number of rows in quizzes.
func CountRows(t testing.TB, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM quizzes`); err != nil {
		t.Fatalf("failed to count quizzes: %v", err)
	}
	return n
}
