package registry

import (
	"github.com/ariebrainware/patient-registry/model"
)

// List placeholders.
const (
	PlaceholderSignedOut = "Please login to view and manage patient records."
	PlaceholderLoading   = "Loading patients..."
	PlaceholderFailed    = "Error loading patients. Please try again."
	PlaceholderEmpty     = "No patient records found."
)

// Submit button labels.
const (
	LabelSave   = "Save Patient"
	LabelLogin  = "Please Login to Save"
	LabelSaving = "Saving..."
)

const addedOnLayout = "02 Jan 2006"

// View is the rendered page of one client.
type View struct {
	SignedIn   bool      `json:"signed_in"`
	User       *Identity `json:"user,omitempty"`
	AuthStatus string    `json:"auth_status"`
	Form       FormView  `json:"form"`
	List       ListView  `json:"list"`
	Messages   []Notice  `json:"messages"`
}

type FormView struct {
	Enabled       bool                `json:"enabled"`
	SubmitLabel   string              `json:"submit_label"`
	Fields        FormFields          `json:"fields"`
	Nationalities []model.Nationality `json:"nationalities"`
}

type ListView struct {
	SearchTerm  string `json:"search_term"`
	Placeholder string `json:"placeholder,omitempty"`
	Cards       []Card `json:"cards"`
}

// Card is one patient as listed.
type Card struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	IDCardNumber  string            `json:"id_card_number"`
	Nationality   model.Nationality `json:"nationality"`
	Age           int               `json:"age"`
	ContactNumber string            `json:"contact_number"`
	DateOfBirth   string            `json:"date_of_birth"`
	Address       string            `json:"address"`
	AddedOn       string            `json:"added_on"`
}

// Render builds the view of st with the given banners. It has no side effects.
func Render(st *State, messages []Notice) View {
	v := View{
		SignedIn:   st.User != nil,
		AuthStatus: st.AuthStatus,
		Form: FormView{
			Enabled:       st.FormEnabled,
			SubmitLabel:   submitLabel(st),
			Fields:        st.Form,
			Nationalities: model.Nationalities,
		},
		List:     ListView{SearchTerm: st.SearchTerm, Cards: []Card{}},
		Messages: messages,
	}
	if v.Messages == nil {
		v.Messages = []Notice{}
	}
	if st.User != nil {
		u := *st.User
		v.User = &u
	}

	switch {
	case st.User == nil:
		v.List.Placeholder = PlaceholderSignedOut
	case st.ListStatus == ListLoading:
		v.List.Placeholder = PlaceholderLoading
	case st.ListStatus == ListFailed:
		v.List.Placeholder = PlaceholderFailed
	case len(st.Visible) == 0:
		v.List.Placeholder = PlaceholderEmpty
	default:
		for _, r := range st.Visible {
			v.List.Cards = append(v.List.Cards, cardOf(r))
		}
	}
	return v
}

func submitLabel(st *State) string {
	switch {
	case !st.FormEnabled:
		return LabelLogin
	case st.Busy:
		return LabelSaving
	default:
		return LabelSave
	}
}

func cardOf(r model.PatientRecord) Card {
	added := "Date not available"
	if r.CreatedAt != nil && !r.CreatedAt.IsZero() {
		added = r.CreatedAt.Format(addedOnLayout)
	}
	return Card{
		ID:            r.ID,
		Name:          r.Name,
		IDCardNumber:  r.IDCardNumber,
		Nationality:   r.Nationality,
		Age:           r.Age,
		ContactNumber: r.ContactNumber,
		DateOfBirth:   r.DateOfBirth,
		Address:       r.Address,
		AddedOn:       "Added on " + added,
	}
}
