package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/service"
	"expense-ledger/internal/store"
	"expense-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Authenticator resolves bearer tokens to active users.
type Authenticator interface {
	ResolveToken(ctx context.Context, token string) (store.Identity, error)
	ActiveUser(ctx context.Context, id store.Identity) (service.ActiveUser, error)
}

// AuthMiddleware checks the bearer token and puts the active user in the context.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Authorization: Bearer xxx
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}

		// 2) ?token=xxx, for file downloads that cannot set headers
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			Unauthorized(c, "Not authenticated")
			return
		}

		id, err := authn.ResolveToken(c.Request.Context(), tokenStr)
		if err != nil {
			abortAuthError(c, err)
			return
		}
		user, err := authn.ActiveUser(c.Request.Context(), id)
		if err != nil {
			abortAuthError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func abortAuthError(c *gin.Context, err error) {
	if errors.Is(err, auth.ErrInvalidCredential) {
		Unauthorized(c, "Could not validate credentials")
		return
	}
	_ = c.Error(err)
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load user")
	c.Abort()
}

// Unauthorized aborts with 401 and a bearer challenge.
func Unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	util.Error(c, http.StatusUnauthorized, util.CodeAuth, msg)
	c.Abort()
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (service.ActiveUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return service.ActiveUser{}, false
	}
	u, ok := v.(service.ActiveUser)
	return u, ok
}
