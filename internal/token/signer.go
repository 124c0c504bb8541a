package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rentflow/rentauth/internal/config"
)

// refreshTokenBytes is the entropy of an opaque refresh-token value.
const refreshTokenBytes = 64

var ErrInvalidToken = errors.New("invalid token")

// Claims is the access-token claim set: sub (user id), jti (per-issuance
// random id), iat, exp, iss and aud.
type Claims struct {
	jwt.RegisteredClaims
}

// Signer issues and verifies HMAC-SHA256 access tokens and generates opaque
// refresh-token values. It is stateless and safe for concurrent use.
type Signer struct {
	secret    []byte
	issuer    string
	audience  string
	accessTTL time.Duration
}

func NewSigner(cfg *config.JWTConfig) *Signer {
	return &Signer{
		secret:    []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		accessTTL: time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute,
	}
}

// IssueAccessToken signs a short-lived access token for the given user id.
func (s *Signer) IssueAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    s.issuer,
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// NewRefreshTokenValue returns a fresh opaque refresh-token value: 64 bytes
// of cryptographic randomness, base64-encoded. It has no persistence side
// effect.
func (s *Signer) NewRefreshTokenValue() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Parse verifies signature, algorithm and all time-based claims. Used for
// normal request authentication where liveness is enforced.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr, false)
}

// ParseExpired verifies signature and algorithm while skipping the lifetime
// check. Refresh is only meaningful once the access token has expired, so
// signature validity, not liveness, is the trust anchor at that call site.
func (s *Signer) ParseExpired(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr, true)
}

func (s *Signer) parse(tokenStr string, allowExpired bool) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if allowExpired {
		options = append(options, jwt.WithoutClaimsValidation())
	} else if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenTTL is the configured access-token lifetime. ExpiresIn values in
// responses are derived from this, never hardcoded.
func (s *Signer) AccessTokenTTL() time.Duration {
	return s.accessTTL
}
