package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kidpech/runtime_logviewer/internal/config"
)

// RoleOperator is the only role allowed to read logs and run console commands.
const RoleOperator = "operator"

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid operator token")

// Claims extends JWT registered claims with the operator role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier issues and validates operator tokens.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier builds Verifier.
func NewVerifier(cfg config.OperatorConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.TokenSecret), issuer: cfg.TokenIssuer}
}

// Issue signs a token for subject valid for ttl.
func (v *Verifier) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse validates token and extracts claims.
func (v *Verifier) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
