// Command prefetch warms the dataset snapshots and the per-organization
// dashboard view caches, so the first morning render is served hot.
package main

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tca_dashboard/internal/adapters/observability"
	redisad "tca_dashboard/internal/adapters/redis"
	"tca_dashboard/internal/adapters/snapshot"
	"tca_dashboard/internal/app"
	"tca_dashboard/internal/domain"
	"tca_dashboard/internal/shared"
	s3store "tca_dashboard/internal/storage/s3"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("bucket", cfg.S3Bucket).
		Int("workers", cfg.PrefetchWorkers).
		Strs("organizations", cfg.Organizations).
		Msg("prefetch starting")

	sess, err := session.NewSession(aws.NewConfig().WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("aws session failed")
	}

	loader := s3store.New(sess, cfg.S3Bucket, s3store.Keys{
		Reservations:   cfg.ReservationsKey,
		ClientFeatures: cfg.ClientFeaturesKey,
		ModelFeatures:  cfg.ModelFeaturesKey,
		ModelBundle:    cfg.ModelBundleKey,
	}, cfg.S3RPS)
	cached := app.NewCachedLoader(loader, snapshot.New(cfg.SnapshotTTL, nil))
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	dash := app.NewDashboardService(cached, cache, cfg.ViewCacheTTL)
	report := app.NewModelReportService(cached, cache, cfg.ViewCacheTTL)

	if _, err := report.Report(ctx); err != nil {
		log.Warn().Err(err).Msg("model report warmup failed")
	} else {
		log.Info().Msg("model report warmed")
	}

	sem := semaphore.NewWeighted(int64(cfg.PrefetchWorkers))
	var wg sync.WaitGroup

	for _, org := range cfg.Organizations {
		org := org

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			sel := domain.Selection{
				Organization: org,
				Year:         domain.YearAll,
				Month:        domain.MonthAll,
				ChurnDate:    time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC),
				Window:       domain.WindowOneYear,
			}
			if _, err := dash.Dashboard(ctx, sel); err != nil {
				log.Warn().Str("org", org).Err(err).Msg("dashboard warmup failed")
				return
			}
			if _, err := dash.Selectors(ctx, org, domain.YearAll); err != nil {
				log.Warn().Str("org", org).Err(err).Msg("selectors warmup failed")
				return
			}
			log.Info().Str("org", org).Msg("warmed")
		}()
	}

	wg.Wait()
	log.Info().Msg("prefetch completed")
}
