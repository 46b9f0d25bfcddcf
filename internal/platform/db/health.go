package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// Probe describes one store backend for the health endpoint. Stats is
// optional and reported as "pool".
type Probe struct {
	Backend string
	Ping    func(ctx context.Context) error
	Stats   func() interface{}
}

// PoolProbe probes a pgx pool.
func PoolProbe(backend string, pool *pgxpool.Pool) Probe {
	return Probe{
		Backend: backend,
		Ping:    pool.Ping,
		Stats:   func() interface{} { return GetPoolStats(pool) },
	}
}

// HealthHandler pings the store. Failures answer 503 without the driver's
// error text.
func HealthHandler(p Probe) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		body := map[string]interface{}{"backend": p.Backend}
		if p.Stats != nil {
			body["pool"] = p.Stats()
		}

		status := http.StatusOK
		body["status"] = "healthy"
		if p.Ping != nil {
			if err := p.Ping(ctx); err != nil {
				c.Logger().Errorf("health check failed: %v", err)
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
			}
		}
		return c.JSON(status, body)
	}
}
