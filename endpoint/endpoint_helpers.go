package endpoint

import (
	"errors"
	"fmt"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/ariebrainware/patient-registry/middleware"
	"github.com/ariebrainware/patient-registry/registry"
	"github.com/ariebrainware/patient-registry/store"
	"github.com/ariebrainware/patient-registry/util"
	"github.com/gin-gonic/gin"
)

// ViewResponse is the data of every client-facing response.
type ViewResponse struct {
	View registry.View `json:"view"`
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getWorkspaceOrRespond(c *gin.Context) (*registry.Workspace, bool) {
	ws := middleware.GetWorkspace(c)
	if ws == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Workspace not available", Err: fmt.Errorf("workspace is nil")})
		return nil, false
	}
	return ws, true
}

// respondView writes view with the status err maps to.
func respondView(c *gin.Context, msg string, view registry.View, err error) {
	respondData(c, msg, view, ViewResponse{View: view}, err)
}

func respondData(c *gin.Context, msg string, view registry.View, data interface{}, err error) {
	if view.User != nil {
		middleware.SetUser(c, view.User.UserID, view.User.Email)
	}

	var (
		ve *registry.ValidationError
		ae *auth.Error
		se *store.Error
	)
	switch {
	case err == nil:
		util.CallSuccessOK(c, util.APISuccessParams{Msg: msg, Data: data})
	case errors.As(err, &ve):
		util.CallUserError(c, util.APIErrorParams{Msg: ve.Msg, Err: err, Data: data})
	case errors.Is(err, registry.ErrBusy):
		util.CallConflict(c, util.APIErrorParams{Msg: "Patient is still being saved", Err: err, Data: data})
	case errors.Is(err, registry.ErrNotConfirmed):
		util.CallUserError(c, util.APIErrorParams{Msg: registry.DeletePrompt, Err: err, Data: data})
	case errors.As(err, &ae):
		util.LogUnauthorizedAccess(c.ClientIP(), c.Request.URL.Path, ae.Error())
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: unauthorizedMsg(view, ae), Err: err, Data: data})
	case errors.Is(err, registry.ErrRecordNotFound):
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Patient record not found", Err: err, Data: data})
	case errors.As(err, &se):
		util.CallServerError(c, util.APIErrorParams{Msg: se.Message(), Err: err, Data: data})
	default:
		util.CallServerError(c, util.APIErrorParams{Msg: "Internal server error", Err: err, Data: data})
	}
}

func unauthorizedMsg(view registry.View, ae *auth.Error) string {
	if view.AuthStatus != "" {
		return view.AuthStatus
	}
	if errors.Is(ae, auth.ErrNotSignedIn) {
		return "Please login to continue"
	}
	return ae.Error()
}
