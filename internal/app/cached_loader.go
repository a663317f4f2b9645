package app

import (
	"context"

	"tca_dashboard/internal/adapters/snapshot"
	"tca_dashboard/internal/domain"
)

// CachedLoader memoizes an upstream DatasetLoader per dataset key. A
// snapshot stays fresh for the cache's TTL (24h in production); concurrent
// renders share one fill and never observe a partially-written entry.
type CachedLoader struct {
	inner domain.DatasetLoader
	snap  *snapshot.Cache
}

func NewCachedLoader(inner domain.DatasetLoader, snap *snapshot.Cache) *CachedLoader {
	return &CachedLoader{inner: inner, snap: snap}
}

func (l *CachedLoader) Reservations(ctx context.Context) ([]domain.ReservationRecord, error) {
	v, err := l.snap.Do("reservations", func() (any, error) { return l.inner.Reservations(ctx) })
	if err != nil {
		return nil, err
	}
	return v.([]domain.ReservationRecord), nil
}

func (l *CachedLoader) ClientFeatures(ctx context.Context) ([]domain.ClientFeatureRecord, error) {
	v, err := l.snap.Do("client-features", func() (any, error) { return l.inner.ClientFeatures(ctx) })
	if err != nil {
		return nil, err
	}
	return v.([]domain.ClientFeatureRecord), nil
}

func (l *CachedLoader) ModelFeatures(ctx context.Context) ([]domain.ModelFeatureRecord, error) {
	v, err := l.snap.Do("model-features", func() (any, error) { return l.inner.ModelFeatures(ctx) })
	if err != nil {
		return nil, err
	}
	return v.([]domain.ModelFeatureRecord), nil
}

func (l *CachedLoader) ModelBundle(ctx context.Context) (domain.ModelBundle, error) {
	v, err := l.snap.Do("model-bundle", func() (any, error) { return l.inner.ModelBundle(ctx) })
	if err != nil {
		return domain.ModelBundle{}, err
	}
	return v.(domain.ModelBundle), nil
}
