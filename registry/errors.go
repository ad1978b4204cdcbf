package registry

import (
	"errors"

	"github.com/ariebrainware/patient-registry/auth"
	"github.com/ariebrainware/patient-registry/store"
)

var (
	// ErrRecordNotFound is returned for ids outside the user's loaded records.
	ErrRecordNotFound = errors.New("patient record not found")
	// ErrNotConfirmed is returned when a delete was not confirmed.
	ErrNotConfirmed = errors.New("delete not confirmed")
	// ErrBusy is returned for a submit while the previous one is still saving.
	ErrBusy = errors.New("a patient is already being saved")
)

// ValidationError is a missing or invalid form field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func requireIdentity(st *State, op string) (*Identity, error) {
	if st.User == nil {
		return nil, &auth.Error{Op: op, Err: auth.ErrNotSignedIn}
	}
	return st.User, nil
}

func asStoreError(op string, err error) *store.Error {
	var se *store.Error
	if errors.As(err, &se) {
		return se
	}
	return &store.Error{Op: op, Err: err}
}
