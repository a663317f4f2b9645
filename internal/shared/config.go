package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	AWSRegion  string
	S3Bucket   string
	SecretName string

	ReservationsKey   string
	ClientFeaturesKey string
	ModelFeaturesKey  string
	ModelBundleKey    string
	S3RPS             int

	RedisAddr string
	RedisPass string
	RedisDB   int

	ViewCacheTTL time.Duration
	SnapshotTTL  time.Duration

	Organizations   []string
	PrefetchWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),

		AWSRegion:  env("AWS_REGION", "us-east-1"),
		S3Bucket:   env("S3_BUCKET", "tcadata"),
		SecretName: env("AUTH_SECRET_NAME", "tca-dashboard-auth"),

		ReservationsKey:   env("S3_RESERVATIONS_KEY", "reservaciones_dashboard.csv"),
		ClientFeaturesKey: env("S3_FEATURES_KEY", "features_dashboard.csv"),
		ModelFeaturesKey:  env("S3_MODEL_FEATURES_KEY", "features_model.csv"),
		ModelBundleKey:    env("S3_MODEL_BUNDLE_KEY", "model_data.json"),
		S3RPS:             atoi("S3_RPS", 5),

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),

		ViewCacheTTL: time.Duration(atoi("VIEW_CACHE_TTL_SECONDS", 900)) * time.Second,
		SnapshotTTL:  time.Duration(atoi("SNAPSHOT_TTL_SECONDS", 86400)) * time.Second,

		Organizations:   splitCSV(env("ORGANIZATIONS", "HOTEL 1")),
		PrefetchWorkers: atoi("PREFETCH_WORKERS", 4),
	}
	if c.S3Bucket == "" {
		log.Warn().Msg("S3_BUCKET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
