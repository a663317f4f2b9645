// Package secrets resolves the dashboard auth configuration from AWS
// Secrets Manager at startup.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"

	"tca_dashboard/internal/adapters/observability"
	"tca_dashboard/internal/domain"
)

type secretAPI interface {
	GetSecretValueWithContext(ctx aws.Context, in *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error)
}

type Store struct {
	api  secretAPI
	name string
}

func New(sess *session.Session, name string) *Store {
	return &Store{api: secretsmanager.New(sess), name: name}
}

// AuthConfig fetches and decodes the secret JSON payload.
func (s *Store) AuthConfig(ctx context.Context) (domain.AuthConfig, error) {
	start := time.Now()
	out, err := s.api.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.name),
	})
	if err != nil {
		observability.ObserveExternal("secretsmanager", s.name, 0, time.Since(start))
		return domain.AuthConfig{}, fmt.Errorf("get secret %s: %w", s.name, err)
	}
	observability.ObserveExternal("secretsmanager", s.name, 200, time.Since(start))

	var cfg domain.AuthConfig
	if err := json.Unmarshal([]byte(aws.StringValue(out.SecretString)), &cfg); err != nil {
		return domain.AuthConfig{}, fmt.Errorf("decode secret %s: %w", s.name, err)
	}
	if cfg.JWTSecret == "" || len(cfg.Users) == 0 {
		return domain.AuthConfig{}, fmt.Errorf("secret %s missing jwt_secret or users", s.name)
	}
	return cfg, nil
}
