package registry

import (
	"context"
	"log"
	"strings"

	"github.com/ariebrainware/patient-registry/model"
	"github.com/ariebrainware/patient-registry/store"
	"github.com/ariebrainware/patient-registry/util"
)

const (
	// DeletePrompt is the question a delete must be confirmed with.
	DeletePrompt = "Are you sure you want to delete this patient record?"

	msgPatientDeleted = "Patient record deleted successfully!"
	msgDeleteFailed   = "Error deleting patient: "
)

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// ListController loads, filters and deletes the signed-in user's records.
type ListController struct {
	Store      store.RecordStore
	Collection string
}

// Load replaces the loaded set with the user's records, newest first, and
// clears the search term. A failed load keeps the previous set but shows the
// error placeholder.
func (l *ListController) Load(ctx context.Context, st *State) error {
	user, err := requireIdentity(st, "load")
	if err != nil {
		return err
	}

	st.ListStatus = ListLoading
	records, err := l.Store.Query(ctx, l.Collection,
		store.Filter{Field: store.FieldCreatedBy, Value: user.UserID},
		store.OrderBy{Field: store.FieldCreatedAt, Descending: true},
	)
	if err != nil {
		st.ListStatus = ListFailed
		st.Visible = nil
		return asStoreError("query", err)
	}

	st.Records = records
	st.SearchTerm = ""
	st.Visible = records
	st.ListStatus = ListReady
	return nil
}

// reload runs after a write. Its failure shows in the list placeholder only.
func (l *ListController) reload(ctx context.Context, st *State) {
	if err := l.Load(ctx, st); err != nil {
		log.Printf("Error loading patients: %v", err)
	}
}

// Search narrows the visible records to those matching term. It never queries
// the store.
func (l *ListController) Search(st *State, term string) {
	st.SearchTerm = strings.TrimSpace(term)
	st.Visible = Match(st.Records, term)
	if st.User != nil && st.ListStatus == ListFailed && st.Records != nil {
		st.ListStatus = ListReady
	}
}

// Match returns the records whose name, ID card number or contact number
// contains term, ignoring case and surrounding spaces. An empty term matches
// everything. Order is preserved.
func Match(records []model.PatientRecord, term string) []model.PatientRecord {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return records
	}
	var out []model.PatientRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.IDCardNumber), needle) ||
			strings.Contains(strings.ToLower(r.ContactNumber), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Delete removes one of the user's loaded records after confirm agrees.
func (l *ListController) Delete(ctx context.Context, st *State, id string, confirm ConfirmFunc) error {
	user, err := requireIdentity(st, "delete")
	if err != nil {
		return err
	}
	if !loaded(st.Records, id) {
		return ErrRecordNotFound
	}
	if confirm == nil || !confirm(DeletePrompt) {
		return ErrNotConfirmed
	}

	if err := l.Store.DeleteByID(ctx, l.Collection, id); err != nil {
		se := asStoreError("delete", err)
		log.Printf("Error deleting patient %s: %v", id, se)
		st.failure(msgDeleteFailed + se.Message())
		return se
	}

	util.LogRecordChange(util.EventRecordDeleted, user.UserID, user.Email, id)
	st.success(msgPatientDeleted)
	l.reload(ctx, st)
	return nil
}

func loaded(records []model.PatientRecord, id string) bool {
	for _, r := range records {
		if r.ID == id {
			return true
		}
	}
	return false
}
