package endpoint

import (
	"errors"
	"log"

	"github.com/ariebrainware/patient-registry/middleware"
	"github.com/ariebrainware/patient-registry/registry"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"password123"`
}

type LoginResponse struct {
	Token string        `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	View  registry.View `json:"view"`
}

type authFunc func(c *gin.Context, ws *registry.Workspace, req LoginRequest) (*registry.Client, registry.View, error)

func authenticate(c *gin.Context, okMsg string, fn authFunc) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}

	client, view, err := fn(c, ws, req)
	if err != nil {
		respondView(c, "", view, err)
		return
	}
	if err := middleware.ResetRateLimit(c.Request.Context(), c.ClientIP(), c.Request.URL.Path); err != nil && !errors.Is(err, middleware.ErrNoRedis) {
		log.Printf("Failed to reset rate limit: %v", err)
	}
	c.Header(middleware.SessionTokenHeader, client.Token())
	respondData(c, okMsg, view, LoginResponse{Token: client.Token(), View: view}, nil)
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password and attach a client to the new session
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse{data=ViewResponse} "Login failed"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Router       /login [post]
func Login(c *gin.Context) {
	authenticate(c, "Login successful", func(c *gin.Context, ws *registry.Workspace, req LoginRequest) (*registry.Client, registry.View, error) {
		return ws.SignIn(middleware.ClientContext(c), middleware.GetSessionToken(c), req.Email, req.Password)
	})
}

// Signup godoc
// @Summary      Register
// @Description  Create an account and sign it in. Passwords need at least 6 characters.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Signup credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Signup successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse{data=ViewResponse} "Signup failed"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	authenticate(c, "Signup successful", func(c *gin.Context, ws *registry.Workspace, req LoginRequest) (*registry.Client, registry.View, error) {
		return ws.SignUp(middleware.ClientContext(c), middleware.GetSessionToken(c), req.Email, req.Password)
	})
}

// Logout godoc
// @Summary      Logout
// @Description  End the session. Always answers with the signed-out view.
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=ViewResponse} "Logout successful"
// @Router       /logout [delete]
func Logout(c *gin.Context) {
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	view := ws.SignOut(middleware.ClientContext(c), middleware.GetSessionToken(c))
	respondView(c, "Logout successful", view, nil)
}

// GetSession godoc
// @Summary      Current view
// @Description  Attach to the client behind the session token and render it. Unknown tokens get the signed-out view.
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=ViewResponse} "Session view"
// @Router       /session [get]
func GetSession(c *gin.Context) {
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	view := ws.Open(middleware.ClientContext(c), middleware.GetSessionToken(c)).View()
	respondView(c, "Session retrieved", view, nil)
}
