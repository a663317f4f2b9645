package app

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"tca_dashboard/internal/domain"
)

// Claims carried by dashboard session tokens.
type Claims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService verifies dashboard logins against the secret-stored
// credential list and issues / validates session tokens.
type AuthService struct {
	cfg domain.AuthConfig
}

func NewAuthService(cfg domain.AuthConfig) *AuthService {
	if cfg.TokenTTLMinutes <= 0 {
		cfg.TokenTTLMinutes = 60
	}
	return &AuthService{cfg: cfg}
}

// Login checks the password against the stored bcrypt hash and returns a
// signed token plus the user's display name.
func (a *AuthService) Login(username, password string) (token, name string, err error) {
	var user *domain.UserCredential
	for i := range a.cfg.Users {
		if a.cfg.Users[i].Username == username {
			user = &a.cfg.Users[i]
			break
		}
	}
	if user == nil {
		return "", "", domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", domain.ErrUnauthorized
	}

	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(a.cfg.TokenTTLMinutes) * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return signed, user.Name, nil
}

// Verify parses and validates a session token.
func (a *AuthService) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
