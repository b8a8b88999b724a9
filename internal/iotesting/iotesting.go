// Package iotesting provides shared test utilities for integration
// tests. This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/radreactions/rxndb/internal/iodb"
	"github.com/radreactions/rxndb/internal/ioschema"
	"github.com/radreactions/rxndb/pkg/config"
	"github.com/radreactions/rxndb/pkg/rxndb"
)

// TestConfig returns a configuration pointing at a fresh temporary
// database file. The file lives in t.TempDir() so tests never touch a
// real database and cleanup is automatic.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.New()
	cfg.HomeDir = t.TempDir()
	cfg.Database.Path = filepath.Join(cfg.HomeDir, "rxndb_test.sqlite")
	cfg.Log.Destination = "stderr"
	return cfg
}

// OpenTestDB connects an operator to a fresh temporary database with
// the full schema created. The connection is closed via t.Cleanup.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    op, cfg := iotesting.OpenTestDB(t)
//	    // ... run storage operations against op
//	}
func OpenTestDB(t *testing.T) (rxndb.Operator, *config.Config) {
	t.Helper()

	ctx := context.Background()
	cfg := TestConfig(t)

	op := iodb.New()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { op.Close() })

	mgr := ioschema.NewManager(op)
	if err := mgr.Create(ctx, false); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return op, cfg
}
