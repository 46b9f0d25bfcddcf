package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/medapp/clinic/internal/config"
	"github.com/medapp/clinic/internal/domain/appointment"
	"github.com/medapp/clinic/internal/domain/patient"
	"github.com/medapp/clinic/internal/platform/db"
	"github.com/medapp/clinic/internal/platform/orm"
)

// stores bundles the repositories and unit-of-work for one backend.
type stores struct {
	patients     patient.Repository
	appointments appointment.Repository
	tx           db.Transactor
	probe        db.Probe
	close        func()
}

func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		if err := migrateOnStart(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, err
		}
		return postgresStores(pool), nil

	case config.BackendGorm:
		gdb, err := orm.Open(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, logger)
		if err != nil {
			return nil, err
		}
		return gormStores(gdb)

	default:
		return memoryStores(), nil
	}
}

func memoryStores() *stores {
	return &stores{
		patients:     patient.NewMemoryRepo(),
		appointments: appointment.NewMemoryRepo(),
		tx:           db.NewLocalTransactor(),
		probe:        db.Probe{Backend: config.BackendMemory},
		close:        func() {},
	}
}

func postgresStores(pool *pgxpool.Pool) *stores {
	return &stores{
		patients:     patient.NewRepoPG(pool),
		appointments: appointment.NewRepoPG(pool),
		tx:           db.NewPGTransactor(pool),
		probe:        db.PoolProbe(config.BackendPostgres, pool),
		close:        pool.Close,
	}
}

func gormStores(gdb *gorm.DB) (*stores, error) {
	if err := gdb.AutoMigrate(&patient.Patient{}, &appointment.Appointment{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql handle: %w", err)
	}
	return &stores{
		patients:     patient.NewRepoGorm(gdb),
		appointments: appointment.NewRepoGorm(gdb),
		tx:           orm.NewTransactor(gdb),
		probe: db.Probe{
			Backend: config.BackendGorm,
			Ping:    sqlDB.PingContext,
			Stats:   func() interface{} { return sqlDB.Stats() },
		},
		close: func() { sqlDB.Close() },
	}, nil
}

func migrateOnStart(ctx context.Context, pool *pgxpool.Pool, dir string, logger zerolog.Logger) error {
	n, err := db.NewMigrator(pool, dir).Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info().Int("applied", n).Str("dir", dir).Msg("migrations up to date")
	return nil
}
