package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Restocker tops up every product that fell below its reorder threshold and
// reports how many it touched.
type Restocker interface {
	RestockLowStock(ctx context.Context) (int, error)
}

// StartRestockCron runs r once immediately, then every interval until ctx is
// cancelled. A run that is still going when the next tick fires delays that
// tick; runs never overlap.
func StartRestockCron(ctx context.Context, r Restocker, interval time.Duration) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("restock_cron: started")
		runRestock(ctx, r)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("restock_cron: shutting down")
				return
			case <-ticker.C:
				runRestock(ctx, r)
			}
		}
	}()
	return &wg
}

func runRestock(ctx context.Context, r Restocker) {
	n, err := r.RestockLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("restock_cron: run failed")
		return
	}
	if n > 0 {
		log.Info().Int("restocked", n).Msg("restock_cron: products restocked")
		return
	}
	log.Debug().Msg("restock_cron: nothing below threshold")
}
