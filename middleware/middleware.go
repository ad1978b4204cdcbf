package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/ariebrainware/patient-registry/registry"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SessionTokenHeader carries the client's session token.
const SessionTokenHeader = "session-token"

const (
	workspaceKey = "workspace"
	userIDKey    = "user_id"
	emailKey     = "email"
)

// CORSMiddleware allows the configured origins, or any origin when none are set.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Requested-With", SessionTokenHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           24 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// WorkspaceMiddleware makes ws available to handlers.
func WorkspaceMiddleware(ws *registry.Workspace) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

// GetWorkspace returns the workspace set by WorkspaceMiddleware, or nil.
func GetWorkspace(c *gin.Context) *registry.Workspace {
	v, ok := c.Get(workspaceKey)
	if !ok {
		return nil
	}
	ws, _ := v.(*registry.Workspace)
	return ws
}

// GetSessionToken returns the session token sent by the client, if any.
func GetSessionToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(SessionTokenHeader))
}

// SetUser records who the request acted for, for the endpoint logger.
func SetUser(c *gin.Context, uid, email string) {
	c.Set(userIDKey, uid)
	c.Set(emailKey, email)
}

// GetUserID returns the user recorded by SetUser.
func GetUserID(c *gin.Context) (string, bool) {
	uid := c.GetString(userIDKey)
	return uid, uid != ""
}

// ClientContext is the request context carrying the caller's IP and user agent.
func ClientContext(c *gin.Context) context.Context {
	return auth.WithClient(c.Request.Context(), auth.ClientInfo{
		IP:    c.ClientIP(),
		Agent: c.Request.UserAgent(),
	})
}
