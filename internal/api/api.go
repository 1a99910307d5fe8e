// Package api serves the service's non-auth routes: the greeting
// endpoints, the tests listing and post creation.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sampleapp/internal/logger"
	"sampleapp/internal/middleware"
	"sampleapp/internal/store"
)

type Handler struct {
	port  string
	posts store.PostStore
	tests store.TestStore
	now   func() time.Time
}

func NewHandler(port string, posts store.PostStore, tests store.TestStore) *Handler {
	return &Handler{
		port:  port,
		posts: posts,
		tests: tests,
		now:   time.Now,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Greet)
	r.GET("/test", h.Greet)
	r.GET("/tests", h.ListTests)
	r.POST("/posts", h.CreatePost)
}

// Greet answers on / and /test.
func (h *Handler) Greet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"error":   nil,
		"message": fmt.Sprintf("Success! from %s route of sampleapp on port %s", c.Request.URL.Path, h.port),
	})
}

// ListTests returns every tests record. The gate decides whether the
// caller had to authenticate.
func (h *Handler) ListTests(c *gin.Context) {
	records, err := h.tests.ListTests(c.Request.Context())
	if err != nil {
		internalError(c, "list tests failed", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":   true,
		"message": message,
	})
}

func internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{
		"error":      err.Error(),
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(middleware.RequestIDKey),
	})
	fail(c, http.StatusInternalServerError, "internal server error")
}
