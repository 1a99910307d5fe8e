package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinUserIDKey is where the bridge stores the authenticated user ID in
// the gin context.
const GinUserIDKey = "userID"

// GinRequireAuth adapts the net/http AuthMiddleware to Gin. The chain only
// continues when the gate hands the request on.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			if userID, ok := UserIDFromContext(r.Context()); ok {
				c.Set(GinUserIDKey, userID)
			}
			c.Next()
		})

		auth.RequireAuth(next).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}
