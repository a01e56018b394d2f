package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/deliverydesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodePersistence))

	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestWithTx_PassesTypedErrorsThrough(t *testing.T) {
	client := &Client{conn: newTestDB(t)}

	want := pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return want
	})
	require.ErrorIs(t, err, want)
}

func TestWithTx_RetriesConflicts(t *testing.T) {
	client := NewFromGorm(newTestDB(t), nil, 3, time.Millisecond)

	attempts := 0
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		if attempts < 3 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return tx.Create(&testModel{Name: "eventually"}).Error
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestWithTx_ConflictAfterRetriesExhausted(t *testing.T) {
	client := NewFromGorm(newTestDB(t), nil, 2, time.Millisecond)

	attempts := 0
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return sqlite3.Error{Code: sqlite3.ErrLocked}
	})
	require.Error(t, err)
	require.Equal(t, 3, attempts)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
	require.True(t, pkgerrors.IsRetryable(err))
}

func TestWithTx_RetriesTypedConflicts(t *testing.T) {
	client := NewFromGorm(newTestDB(t), nil, 1, time.Millisecond)

	attempts := 0
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return pkgerrors.New(pkgerrors.CodeConflict, "stale row")
	})
	require.Equal(t, 2, attempts)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestIsUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&testModel{Name: "dup"}).Error)

	err := db.Create(&testModel{Name: "dup"}).Error
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err, ""))
	require.True(t, IsUniqueViolation(err, "test_models.name"))
	require.False(t, IsUniqueViolation(err, "other_constraint"))
	require.False(t, IsConflict(err))
}

func TestForUpdate_SkipsSQLite(t *testing.T) {
	db := newTestDB(t)
	stmt := ForUpdate(db.Session(&gorm.Session{DryRun: true})).Find(&[]testModel{}).Statement
	require.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	require.Equal(t, "sqlite", client.Dialect())
}
