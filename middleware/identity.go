package middleware

import (
	"errors"
	"net/http"

	"baggr-backend/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// StaffOrReadOnly lets safe methods through without contacting the identity
// service. Every other method needs a staff caller. When the identity
// service cannot answer, the request is refused with 502.
func StaffOrReadOnly(authz identity.AuthorizationProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		requireStaff(c, authz)
	}
}

// StaffOnly is StaffOrReadOnly without the read bypass.
func StaffOnly(authz identity.AuthorizationProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		requireStaff(c, authz)
	}
}

func requireStaff(c *gin.Context, authz identity.AuthorizationProvider) {
	ok, err := authz.IsPrivileged(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		zap.L().Warn("authorization check failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Authorization service unavailable"})
		c.Abort()
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireIdentity admits any authenticated caller and stores its UserInfo
// for CurrentIdentity.
func RequireIdentity(resolver identity.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.CurrentUser(c.Request.Context(), c.GetHeader("Authorization"))
		switch {
		case errors.Is(err, identity.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided or are invalid"})
			c.Abort()
			return
		case err != nil:
			zap.L().Warn("identity lookup failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Authorization service unavailable"})
			c.Abort()
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// CurrentIdentity returns the caller stored by RequireIdentity.
func CurrentIdentity(c *gin.Context) (*identity.UserInfo, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*identity.UserInfo)
	return user, ok
}
