package orm

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: NewLogger(zerolog.Nop())})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := gdb.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func countWidgets(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(&widget{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestTransactor_Commit(t *testing.T) {
	gdb := openTestDB(t)
	tx := NewTransactor(gdb)

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		return DB(ctx, gdb).Create(&widget{Name: "a"}).Error
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countWidgets(t, gdb); n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestTransactor_RollbackOnError(t *testing.T) {
	gdb := openTestDB(t)
	tx := NewTransactor(gdb)
	boom := errors.New("boom")

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := DB(ctx, gdb).Create(&widget{Name: "a"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := countWidgets(t, gdb); n != 0 {
		t.Errorf("expected rollback, found %d rows", n)
	}
}

func TestTransactor_NestedJoinsOuter(t *testing.T) {
	gdb := openTestDB(t)
	tx := NewTransactor(gdb)
	boom := errors.New("boom")

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := tx.WithinTx(ctx, func(ctx context.Context) error {
			return DB(ctx, gdb).Create(&widget{Name: "inner"}).Error
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := countWidgets(t, gdb); n != 0 {
		t.Errorf("inner write must roll back with the outer unit, found %d rows", n)
	}
}
