package db

import (
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/messagely/messagely/internal/observability/metrics"
)

func StartPoolMetrics(pool *pgxpool.Pool, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			stats := pool.Stat()
			metrics.DBPoolTotalConns.Set(float64(stats.TotalConns()))
			metrics.DBPoolIdleConns.Set(float64(stats.IdleConns()))
		}
	}()
}

// ObserveQuery records duration and, when err is non-nil, an error count
// for a repository operation.
func ObserveQuery(operation, table string, start time.Time, err error) {
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}
