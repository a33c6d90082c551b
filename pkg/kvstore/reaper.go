package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/gsousaaa/ecommerce-aws/pkg/ctxlog"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Reaper purges expired items on a schedule. Expiry is passive: nothing
// else in the system deletes audit records, readers do not filter on the
// expiry timestamp.
type Reaper struct {
	pool     *pgxpool.Pool
	tables   []string
	interval time.Duration
	logger   *zap.Logger
}

func NewReaper(pool *pgxpool.Pool, tables []string, interval time.Duration, logger *zap.Logger) *Reaper {
	return &Reaper{
		pool:     pool,
		tables:   tables,
		interval: interval,
		logger:   logger,
	}
}

func (r *Reaper) Start(ctx context.Context) {
	ctxlog.Info(ctx, r.logger, "Starting TTL reaper")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ctxlog.Info(ctx, r.logger, "TTL reaper stopping")
			return
		case <-ticker.C:
			if err := r.sweep(ctx); err != nil {
				ctxlog.Error(
					ctx,
					r.logger,
					"Error sweeping expired items",
					zap.Error(err),
				)
			}
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) error {
	for _, table := range r.tables {
		query := fmt.Sprintf(`
			DELETE FROM %s
			WHERE expires_at IS NOT NULL AND expires_at < NOW();
		`, table)

		commandTag, err := r.pool.Exec(ctx, query)
		if err != nil {
			return fmt.Errorf("error sweeping table %s: %w", table, err)
		}

		if commandTag.RowsAffected() > 0 {
			ctxlog.Debug(
				ctx,
				r.logger,
				"Swept expired items",
				zap.String("table", table),
				zap.Int64("count", commandTag.RowsAffected()),
			)
		}
	}

	return nil
}
