package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devprofile-api/internal/core/auth"
	resp "devprofile-api/internal/transport/http/response"
)

// KeyUserID holds the caller's user id once AuthJWT has passed.
const KeyUserID = "userId"

const HeaderAuthToken = "x-auth-token"

func tokenFrom(c *gin.Context) string {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader(HeaderAuthToken))
}

// AuthJWT accepts "Authorization: Bearer <t>" or "x-auth-token: <t>".
// A non-empty requireRole rejects other roles with 403.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := tokenFrom(c)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "No token, authorization denied"))
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, "Token is not valid"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(http.StatusForbidden, ""))
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Next()
	}
}
