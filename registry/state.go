// Package registry holds the per-client view state of the patient registry and
// the controllers that drive it: session handling, the record form and the
// record list.
package registry

import (
	"strings"

	"github.com/ariebrainware/patient-registry/model"
)

// ListStatus is the load state of a client's record list.
type ListStatus string

const (
	ListIdle    ListStatus = "idle"
	ListLoading ListStatus = "loading"
	ListReady   ListStatus = "ready"
	ListFailed  ListStatus = "failed"
)

// Identity is the signed-in user a client acts for.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// FormFields are the values entered in the registration form.
type FormFields struct {
	Name          string            `json:"name" form:"name"`
	IDCardNumber  string            `json:"id_card_number" form:"id_card_number"`
	Address       string            `json:"address" form:"address"`
	ContactNumber string            `json:"contact_number" form:"contact_number"`
	DateOfBirth   string            `json:"date_of_birth" form:"date_of_birth"`
	Nationality   model.Nationality `json:"nationality" form:"nationality"`
}

// EmptyForm is the form as shown after a reset.
func EmptyForm() FormFields {
	return FormFields{Nationality: model.DefaultNationality}
}

func (f FormFields) trimmed() FormFields {
	f.Name = strings.TrimSpace(f.Name)
	f.IDCardNumber = strings.TrimSpace(f.IDCardNumber)
	f.Address = strings.TrimSpace(f.Address)
	f.ContactNumber = strings.TrimSpace(f.ContactNumber)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Nationality = model.Nationality(strings.TrimSpace(string(f.Nationality)))
	if f.Nationality == "" {
		f.Nationality = model.DefaultNationality
	}
	return f
}

// State is everything one client sees. Controllers mutate it; Render reads it.
type State struct {
	User        *Identity
	FormEnabled bool
	Busy        bool
	Form        FormFields
	AuthStatus  string

	// Records is the loaded set, newest first. Visible is the subset matching SearchTerm.
	Records    []model.PatientRecord
	Visible    []model.PatientRecord
	SearchTerm string
	ListStatus ListStatus

	notices *Notices
}

// NewState returns a signed-out state posting banners to notices.
func NewState(notices *Notices) *State {
	return &State{
		Form:       EmptyForm(),
		ListStatus: ListIdle,
		notices:    notices,
	}
}

// Notices returns the banners attached to the state.
func (s *State) Notices() *Notices {
	return s.notices
}

func (s *State) success(text string) {
	s.notices.Post(NoticeSuccess, text)
}

func (s *State) failure(text string) {
	s.notices.Post(NoticeError, text)
}
