// Package share issues and verifies the signed tokens behind read-only
// public week links.
package share

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid share token")

type Signer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// Claims bind a token to one (product, week) plan. Slug carries the
// URL-facing {DD-MM-YYYY}--to--{DD-MM-YYYY} form for display.
type Claims struct {
	jwt.RegisteredClaims
	ProductID string `json:"product_id"`
	WeekID    string `json:"week_id"`
	Slug      string `json:"slug"`
}

func (s Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Signer) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return defaultTTL
}

// Expiry reports when a token issued now would stop validating.
func (s Signer) Expiry() time.Time {
	return s.now().Add(s.ttl())
}

// Issue signs a share token for one week plan.
func (s Signer) Issue(productID, weekID, slug string) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("share secret not configured")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   productID + "/" + weekID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl())),
		},
		ProductID: productID,
		WeekID:    weekID,
		Slug:      slug,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify parses and validates a share token.
func (s Signer) Verify(token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, ErrInvalidToken
	}
	if len(s.Secret) == 0 {
		return Claims{}, errors.New("share secret not configured")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.ProductID == "" || claims.WeekID == "" {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
