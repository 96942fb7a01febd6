package worker

// expiry_cron.go
// Background goroutine that periodically flips inscriptions past their
// expiry date (or out of visits) from active to expired, so reads never
// have to compute expiry on the fly.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"gymops/internal/infra"
	"gymops/internal/repository"
)

const expiryTickInterval = 5 * time.Minute

// StartExpiryCron launches the expiry sweep. It respects the context for
// graceful shutdown and runs one sweep immediately at startup.
func StartExpiryCron(ctx context.Context, repo repository.InscriptionRepository, clock infra.Clock) {
	go func() {
		ticker := time.NewTicker(expiryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("expiry_cron: started")
		sweep(ctx, repo, clock)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiry_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, repo, clock)
			}
		}
	}()
}

func sweep(ctx context.Context, repo repository.InscriptionRepository, clock infra.Clock) {
	n, err := repo.MarkExpired(ctx, clock.Now())
	if err != nil {
		log.Error().Err(err).Msg("expiry_cron: sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("expiry_cron: inscriptions expired")
	}
}
