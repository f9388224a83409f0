// Package jwt signs and verifies HMAC JWTs for API clients.
//
//	svc, err := jwt.NewService(cfg)
//	token, err := svc.Generate("ci-uploader")
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned (wrapped) for any token failing validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned (wrapped) for an expired token.
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the claims carried by API tokens.
type Claims struct {
	gojwt.RegisteredClaims
	// Scope is informational; every valid token may submit jobs.
	Scope string `json:"scope,omitempty"`
}

// Service issues and validates tokens.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService applies defaults and validates cfg.
func NewService(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// Generate signs a token for subject valid for the configured TTL.
func (s *Service) Generate(subject string) (string, error) {
	now := s.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
		Scope: "transcribe",
	}
	if s.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{s.cfg.Audience}
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm, expiry and, when configured, issuer
// and audience.
func (s *Service) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken returns the parsed claims as any for generic middleware.
func (s *Service) ValidateToken(token string) (any, error) {
	return s.Parse(token)
}

func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithLeeway(s.cfg.Leeway),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience))
	}
	return opts
}
