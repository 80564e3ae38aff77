package database

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/eislab/lab-tracker/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := New(path, true)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestEnsureBootstrapAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	for i := 0; i < 3; i++ {
		if err := EnsureBootstrapAdmin(ctx, testLogger(), db); err != nil {
			t.Fatalf("EnsureBootstrapAdmin() run %d failed: %v", i+1, err)
		}
	}

	var userCount int
	if err := db.Get(&userCount, "SELECT COUNT(*) FROM users WHERE student_id = ?", BootstrapAdminID); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 1 {
		t.Errorf("bootstrap admin user rows = %d, want 1", userCount)
	}

	var credCount int
	if err := db.Get(&credCount, "SELECT COUNT(*) FROM passwords WHERE student_id = ?", BootstrapAdminID); err != nil {
		t.Fatalf("count credentials: %v", err)
	}
	if credCount != 1 {
		t.Errorf("bootstrap admin credential rows = %d, want 1", credCount)
	}
}

func TestMigrate_RerunIsNoOp(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	users := NewUserDAO(testLogger(), db)
	err := users.Insert(ctx, InsertUserDTO{StudentID: 4321, FirstName: "Kay", LastName: "Ng"})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	// The store is already at the latest schema version; re-running must
	// neither fail nor disturb existing rows.
	for i := 0; i < 2; i++ {
		if err := db.Migrate(); err != nil {
			t.Fatalf("Migrate() run %d failed: %v", i+1, err)
		}
	}

	if _, err := users.Get(ctx, 4321); err != nil {
		t.Errorf("Get() after re-migrate failed: %v", err)
	}
}

func TestEnsureBootstrapAdmin_HasAdminTag(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	if err := EnsureBootstrapAdmin(ctx, testLogger(), db); err != nil {
		t.Fatalf("EnsureBootstrapAdmin() failed: %v", err)
	}

	user, err := NewUserDAO(testLogger(), db).Get(ctx, BootstrapAdminID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if !user.Tags.Admin() {
		t.Errorf("bootstrap admin tags = %06b, admin bit not set", user.Tags)
	}
	if user.LoggedIn {
		t.Error("bootstrap admin seeded as logged in")
	}
}

func TestUserDelete_BlockedByLogs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	users := NewUserDAO(testLogger(), db)
	logs := NewLogDAO(testLogger(), db)

	err := users.Insert(ctx, InsertUserDTO{StudentID: 123456, FirstName: "Alice", LastName: "Smith"})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	if _, err := logs.Insert(ctx, InsertLogDTO{User: 123456, TimeIn: 1000}); err != nil {
		t.Fatalf("log Insert() failed: %v", err)
	}

	err = users.Delete(ctx, 123456)
	if !errors.Is(err, model.ErrHasLogs) {
		t.Errorf("Delete() error = %v, want has log entries", err)
	}
}

func TestUserDelete_NoLogs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	users := NewUserDAO(testLogger(), db)

	err := users.Insert(ctx, InsertUserDTO{StudentID: 555, FirstName: "Bob", LastName: "Jones"})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	if err := users.Delete(ctx, 555); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if _, err := users.Get(ctx, 555); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}
}

func TestUserInsert_DuplicateID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	users := NewUserDAO(testLogger(), db)

	dto := InsertUserDTO{StudentID: 123456, FirstName: "Alice", LastName: "Smith"}
	if err := users.Insert(ctx, dto); err != nil {
		t.Fatalf("first Insert() failed: %v", err)
	}

	err := users.Insert(ctx, dto)
	if !errors.Is(err, model.ErrExists) {
		t.Errorf("second Insert() error = %v, want already exists", err)
	}
}

func TestOpenSessionIndex_RejectsSecondOpenRow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	users := NewUserDAO(testLogger(), db)
	logs := NewLogDAO(testLogger(), db)

	err := users.Insert(ctx, InsertUserDTO{StudentID: 777, FirstName: "Cara", LastName: "Lee"})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	if _, err := logs.Insert(ctx, InsertLogDTO{User: 777, TimeIn: 1000}); err != nil {
		t.Fatalf("first log Insert() failed: %v", err)
	}

	_, err = logs.Insert(ctx, InsertLogDTO{User: 777, TimeIn: 2000})
	if !errors.Is(err, model.ErrExists) {
		t.Errorf("second open log Insert() error = %v, want already exists", err)
	}
}
