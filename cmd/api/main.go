package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "tca_dashboard/internal/adapters/http_server"
	"tca_dashboard/internal/adapters/observability"
	redisad "tca_dashboard/internal/adapters/redis"
	"tca_dashboard/internal/adapters/secrets"
	"tca_dashboard/internal/adapters/snapshot"
	"tca_dashboard/internal/app"
	"tca_dashboard/internal/shared"
	s3store "tca_dashboard/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	sess, err := session.NewSession(aws.NewConfig().WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("aws session failed")
	}

	authCfg, err := secrets.New(sess, cfg.SecretName).AuthConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("auth config fetch failed")
	}
	log.Info().Int("users", len(authCfg.Users)).Msg("auth config loaded")

	// deps
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
	auth := app.NewAuthService(authCfg)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Dash: dash, Report: report, Auth: auth})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
