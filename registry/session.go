package registry

import (
	"context"

	"github.com/ariebrainware/patient-registry/auth"
)

// SessionController moves a client between signed-in and signed-out.
type SessionController struct {
	List *ListController
}

// HandleSessionChange applies change to st. Signing in loads the user's
// records; the returned error is that load's failure, already reflected in st.
func (s *SessionController) HandleSessionChange(ctx context.Context, st *State, change auth.SessionChange) error {
	if !change.SignedIn() {
		st.User = nil
		st.FormEnabled = false
		st.Busy = false
		st.Records = nil
		st.Visible = nil
		st.SearchTerm = ""
		st.ListStatus = ListIdle
		return nil
	}

	st.User = &Identity{UserID: change.Session.UserID, Email: change.Session.Email}
	st.FormEnabled = true
	st.AuthStatus = ""
	return s.List.Load(ctx, st)
}
