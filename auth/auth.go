package auth

import "github.com/kbukum/transcriptiond/auth/jwt"

// Validation errors; test with errors.Is.
var (
	ErrInvalidToken = jwt.ErrInvalidToken
	ErrTokenExpired = jwt.ErrTokenExpired
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts a function to TokenValidator.
type TokenValidatorFunc func(token string) (any, error)

func (f TokenValidatorFunc) ValidateToken(token string) (any, error) { return f(token) }

var _ TokenValidator = (*jwt.Service)(nil)

// NewValidator builds the validator selected by cfg. It returns nil when
// authentication is disabled.
func NewValidator(cfg Config) (TokenValidator, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	svc, err := jwt.NewService(cfg.JWT)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
