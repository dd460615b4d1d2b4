package utils // package utils holds token and formatting helpers shared by handlers and middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims are the claims of an Aurora access token.  The backend puts
// the user's authorities in a space separated "scope" claim
// ("ROLE_STAFF PERM_BOOKING_UPDATE"); older tokens carry a single "role".
type AccessClaims struct {
	Scope  string `json:"scope,omitempty"`
	Role   string `json:"role,omitempty"`
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// Roles returns the role names without their ROLE_ prefix.
func (c AccessClaims) Roles() []string {
	var roles []string
	for _, a := range strings.Fields(c.Scope) {
		if r, ok := strings.CutPrefix(a, "ROLE_"); ok && r != "" {
			roles = append(roles, r)
		}
	}
	if len(roles) == 0 && c.Role != "" {
		roles = append(roles, strings.TrimPrefix(c.Role, "ROLE_"))
	}
	return roles
}

// ParseAccessToken verifies an HS-signed access token with secret and
// returns its claims.
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
	var claims AccessClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return AccessClaims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return AccessClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// NewAccessToken signs an HS256 token in the backend's format.  The gateway
// never issues tokens to users; this exists for local development and tests.
func NewAccessToken(secret, subject string, roles []string, ttl time.Duration) (string, error) {
	scope := make([]string, 0, len(roles))
	for _, r := range roles {
		scope = append(scope, "ROLE_"+r)
	}
	now := time.Now().UTC()
	claims := AccessClaims{
		Scope: strings.Join(scope, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// BearerToken returns the token of an "Authorization: Bearer ..." header
// value, or "" when the header has another scheme.
func BearerToken(header string) string {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}
