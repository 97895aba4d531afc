package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/types"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	// ErrTokenExpired is returned when JWT validation fails due to expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for general token validation failures (signature, format).
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMissingClaim is returned if the 'sub' claim is missing.
	ErrTokenMissingClaim = errors.New("token missing required claim")
)

// Validator turns a bearer token into the caller's identity.
type Validator interface {
	Validate(tokenString string) (types.Actor, error)
}

// JWTValidator checks Supabase access tokens signed with the project secret.
type JWTValidator struct {
	secret []byte
	skew   time.Duration
}

var _ Validator = (*JWTValidator)(nil)

// NewJWTValidator creates an HS256 validator.
func NewJWTValidator(secret string) (*JWTValidator, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT validator configuration error: secret is empty")
	}
	return &JWTValidator{secret: []byte(secret), skew: 30 * time.Second}, nil
}

// Validate parses and verifies the token. The actor is built from the sub and
// email claims plus the user_metadata name and avatar.
func (v *JWTValidator) Validate(tokenString string) (types.Actor, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.skew),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return types.Actor{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return types.Actor{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	sub := token.Subject()
	if sub == "" {
		return types.Actor{}, ErrTokenMissingClaim
	}

	actor := types.Actor{UserID: sub}
	if email, ok := token.Get("email"); ok {
		actor.Email, _ = email.(string)
	}
	if raw, ok := token.Get("user_metadata"); ok {
		if meta, ok := raw.(map[string]interface{}); ok {
			actor.DisplayName = firstString(meta, "full_name", "name")
			actor.AvatarURL = firstString(meta, "avatar_url", "picture")
		}
	}
	if actor.DisplayName == "" && actor.Email != "" {
		actor.DisplayName = strings.SplitN(actor.Email, "@", 2)[0]
	}
	return actor, nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
