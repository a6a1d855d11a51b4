package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartChannelTokenCleaner deletes expired channel tokens on an
// interval until ctx is cancelled.
func StartChannelTokenCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, `
                    DELETE FROM channel_tokens
                     WHERE expires_at < NOW()
                `)
				if err != nil {
					log.Error("failed to clean expired channel tokens", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired channel tokens", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
