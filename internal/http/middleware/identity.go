package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"paperflow/internal/auth"
	"paperflow/internal/model"
)

const (
	// ActorLocalKey is the key used to store the resolved actor in Fiber's
	// context locals.
	ActorLocalKey = "actor"
)

// identityClaims is the token shape issued by the identity service.
// Subject carries the numeric user id.
type identityClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identity resolves the acting user from a Bearer token.
//
// Behavior:
// - Reads the Authorization header and verifies an HS256 JWT with secret.
// - On success stores a model.Actor with normalized roles in context locals.
// - On a missing or invalid token stores the zero Actor (ID 0); handlers and
//   the service treat that as unauthenticated rather than failing here, so
//   public endpoints stay reachable.
func Identity(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		c.Locals(ActorLocalKey, actorFromHeader(c.Get(fiber.HeaderAuthorization), key))
		return c.Next()
	}
}

// ActorFromCtx extracts the actor previously stored by Identity.
func ActorFromCtx(c *fiber.Ctx) model.Actor {
	if v := c.Locals(ActorLocalKey); v != nil {
		if a, ok := v.(model.Actor); ok {
			return a
		}
	}
	return model.Actor{}
}

func actorFromHeader(header string, key []byte) model.Actor {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return model.Actor{}
	}

	var claims identityClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return model.Actor{}
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return model.Actor{}
	}

	return model.Actor{
		ID:       id,
		Username: claims.Username,
		Roles:    auth.ParseRoles(claims.Roles),
	}
}
