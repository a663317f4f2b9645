// Package s3 loads the dashboard's pre-computed snapshots (CSV exports
// and the model bundle JSON) from an S3 bucket.
package s3

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"golang.org/x/time/rate"

	"tca_dashboard/internal/adapters/observability"
	"tca_dashboard/internal/domain"
)

// Keys are the object keys of the four exported artifacts.
type Keys struct {
	Reservations   string
	ClientFeatures string
	ModelFeatures  string
	ModelBundle    string
}

// objectAPI is the slice of the S3 client this loader needs; satisfied
// by *awss3.S3 and by test fakes.
type objectAPI interface {
	GetObjectWithContext(ctx aws.Context, in *awss3.GetObjectInput, opts ...request.Option) (*awss3.GetObjectOutput, error)
}

type Loader struct {
	api    objectAPI
	bucket string
	keys   Keys
	rl     *rate.Limiter
}

func New(sess *session.Session, bucket string, keys Keys, rps int) *Loader {
	return newWith(awss3.New(sess), bucket, keys, rps)
}

func newWith(api objectAPI, bucket string, keys Keys, rps int) *Loader {
	if rps <= 0 {
		rps = 5
	}
	return &Loader{api: api, bucket: bucket, keys: keys, rl: rate.NewLimiter(rate.Limit(rps), rps)}
}

func (l *Loader) Reservations(ctx context.Context) ([]domain.ReservationRecord, error) {
	b, err := l.fetch(ctx, l.keys.Reservations)
	if err != nil {
		return nil, err
	}
	return decodeReservations(b)
}

func (l *Loader) ClientFeatures(ctx context.Context) ([]domain.ClientFeatureRecord, error) {
	b, err := l.fetch(ctx, l.keys.ClientFeatures)
	if err != nil {
		return nil, err
	}
	return decodeClientFeatures(b)
}

func (l *Loader) ModelFeatures(ctx context.Context) ([]domain.ModelFeatureRecord, error) {
	b, err := l.fetch(ctx, l.keys.ModelFeatures)
	if err != nil {
		return nil, err
	}
	return decodeModelFeatures(b)
}

func (l *Loader) ModelBundle(ctx context.Context) (domain.ModelBundle, error) {
	b, err := l.fetch(ctx, l.keys.ModelBundle)
	if err != nil {
		return domain.ModelBundle{}, err
	}
	var bundle domain.ModelBundle
	if err := json.Unmarshal(b, &bundle); err != nil {
		return domain.ModelBundle{}, fmt.Errorf("decode model bundle: %v: %w", err, domain.ErrMalformedDataset)
	}
	if len(bundle.TestLabels) == 0 || len(bundle.Predicted) == 0 ||
		len(bundle.FeatureNames) == 0 || len(bundle.Importances) == 0 {
		return domain.ModelBundle{}, fmt.Errorf("model bundle missing arrays: %w", domain.ErrMalformedDataset)
	}
	return bundle, nil
}

// fetch performs a rate-limited GetObject and reads the whole body.
func (l *Loader) fetch(ctx context.Context, key string) ([]byte, error) {
	if err := l.rl.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := l.api.GetObjectWithContext(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		observability.ObserveExternal("s3", key, 0, time.Since(start))
		return nil, fmt.Errorf("s3 get %s/%s: %w", l.bucket, key, err)
	}
	defer out.Body.Close()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		observability.ObserveExternal("s3", key, 0, time.Since(start))
		return nil, fmt.Errorf("s3 read %s/%s: %w", l.bucket, key, err)
	}
	observability.ObserveExternal("s3", key, 200, time.Since(start))
	return b, nil
}
