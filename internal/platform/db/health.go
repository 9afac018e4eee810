package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// Health is the payload of GET /health. The clinic frontend polls it to
// decide whether the counter terminal can keep taking sales.
type Health struct {
	Status   string       `json:"status"`
	Error    string       `json:"error,omitempty"`
	Database PoolSnapshot `json:"database"`
}

// PoolSnapshot is a point-in-time view of the connection pool.
type PoolSnapshot struct {
	Reachable     bool  `json:"reachable"`
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func snapshot(pool *pgxpool.Pool, reachable bool) PoolSnapshot {
	stat := pool.Stat()
	return PoolSnapshot{
		Reachable:     reachable,
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
	}
}

// HealthHandler reports service health plus a pool snapshot. The ping
// carries its own short timeout so a stuck database turns into a fast
// "degraded" answer instead of a hanging probe.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, Health{
				Status:   "degraded",
				Error:    err.Error(),
				Database: snapshot(pool, false),
			})
		}
		return c.JSON(http.StatusOK, Health{
			Status:   "ok",
			Database: snapshot(pool, true),
		})
	}
}
