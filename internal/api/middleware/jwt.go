package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/utils"
)

const identityKey = "identity"

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

// JWTAuth resolves the caller from "Authorization: Bearer <token>" or the
// legacy "x-auth-token" header and aborts with 401 when it cannot.
func JWTAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)

		id, err := tokens.Verify(raw)
		if err != nil {
			_ = c.Error(err)
			msg := "token is not valid"
			if raw == "" {
				msg = "no token, authorization denied"
			}
			c.AbortWithStatusJSON(utils.HTTPStatus(err), apiError{
				Code:    utils.CodeUnauthorized,
				Message: msg,
			})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// bearerToken prefers a Bearer Authorization header. Any other scheme there
// is ignored and the legacy header is used instead.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader("x-auth-token"))
}

// Identity returns the caller resolved by JWTAuth.
func Identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	if !ok || id.UserID.IsZero() {
		return auth.Identity{}, false
	}
	return id, true
}
