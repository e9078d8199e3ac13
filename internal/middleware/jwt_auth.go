package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticator validates bearer tokens and puts user_id, token_id and
// token_expires_at into the gin context.
type Authenticator struct {
	tokens  TokenValidator
	revoked RevocationChecker
}

// NewAuthenticator builds the middleware factory. revoked may be nil.
func NewAuthenticator(tokens TokenValidator, revoked RevocationChecker) *Authenticator {
	return &Authenticator{tokens: tokens, revoked: revoked}
}

// Required rejects requests without a valid token. Websocket upgrades may
// pass the token as ?token= since browsers cannot set headers on them.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, code, msg := bearerToken(c)
		if raw == "" && isWebsocketUpgrade(c) {
			raw = c.Query("token")
		}
		if raw == "" {
			response.Abort(c, http.StatusUnauthorized, code, msg)
			return
		}

		if !a.authenticate(c, raw) {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}
		c.Next()
	}
}

// Optional authenticates when a valid token is present and otherwise lets
// the request through as anonymous (user_id 0).
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, _, _ := bearerToken(c); raw != "" {
			a.authenticate(c, raw)
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, raw string) bool {
	claims, err := a.tokens.ValidateToken(raw)
	if err != nil {
		return false
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// Fail open on Redis errors.
			log.Printf("token_revocation_check_failed request_id=%s error=%q", requestID(c), err)
		} else if revoked {
			return false
		}
	}

	c.Set("user_id", claims.UserID)
	c.Set("token_id", claims.ID)
	if claims.ExpiresAt != nil {
		c.Set("token_expires_at", claims.ExpiresAt.Time)
	}
	return true
}

func bearerToken(c *gin.Context) (token, code, message string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !isTokenScheme(parts[0]) {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Token <token>' or 'Bearer <token>'"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "INVALID_AUTH_FORMAT", "Empty token"
	}
	return token, "", ""
}

func isTokenScheme(s string) bool {
	s = strings.ToLower(s)
	return s == "bearer" || s == "token"
}

func isWebsocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

// TokenRemaining returns how long the current token stays valid.
func TokenRemaining(c *gin.Context) time.Duration {
	v, ok := c.Get("token_expires_at")
	if !ok {
		return 0
	}
	exp, ok := v.(time.Time)
	if !ok {
		return 0
	}
	return time.Until(exp)
}
