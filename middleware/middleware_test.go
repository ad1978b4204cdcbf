package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/ariebrainware/patient-registry/registry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// nopCreds is a credential store with no sessions.
type nopCreds struct{ auth.Notifier }

func (*nopCreds) SignIn(_ context.Context, _, _ string) (*auth.Session, error) {
	return nil, &auth.Error{Err: auth.ErrInvalidCredentials}
}
func (*nopCreds) SignUp(_ context.Context, _, _ string) (*auth.Session, error) {
	return nil, &auth.Error{Err: auth.ErrEmailInUse}
}
func (*nopCreds) SignOut(context.Context, string) error { return nil }
func (*nopCreds) Current(context.Context, string) (*auth.Session, error) {
	return nil, nil
}

func TestCORSMiddleware_AllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://registry.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://registry.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", SessionTokenHeader)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://registry.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSMiddleware_AllowsAnyOriginByDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWorkspaceAndSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ws := registry.NewWorkspace(&nopCreds{}, nil, registry.Options{})
	defer ws.Close()

	var gotWS *registry.Workspace
	var gotToken string
	r := gin.New()
	r.Use(WorkspaceMiddleware(ws))
	r.GET("/", func(c *gin.Context) {
		gotWS = GetWorkspace(c)
		gotToken = GetSessionToken(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionTokenHeader, "  tok-1 ")
	r.ServeHTTP(w, req)

	assert.Same(t, ws, gotWS)
	assert.Equal(t, "tok-1", gotToken)
}

func TestGetWorkspaceMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetWorkspace(c))

	_, ok := GetUserID(c)
	assert.False(t, ok)
	SetUser(c, "uid-1", "a@clinic.test")
	uid, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, "uid-1", uid)
}
