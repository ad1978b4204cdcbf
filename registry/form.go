package registry

import (
	"context"
	"log"
	"time"

	"github.com/ariebrainware/patient-registry/model"
	"github.com/ariebrainware/patient-registry/store"
	"github.com/ariebrainware/patient-registry/util"
)

const (
	msgLoginToSave  = "Please login to save patient records."
	msgPatientSaved = "Patient saved successfully!"
	msgSaveFailed   = "Error saving patient: "
)

// ComputeAge returns the whole years between dob and today. ok is false when
// dob is not a YYYY-MM-DD date. A dob after today yields a negative age.
func ComputeAge(dob string, today time.Time) (age int, ok bool) {
	birth, err := time.Parse(model.DateLayout, dob)
	if err != nil {
		return 0, false
	}
	age = today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// Validate checks the required fields in form order, then the date of birth
// and the nationality.
func Validate(f FormFields, today time.Time) error {
	f = f.trimmed()
	switch {
	case f.Name == "":
		return &ValidationError{Field: "name", Msg: "Name is required"}
	case f.IDCardNumber == "":
		return &ValidationError{Field: "id_card_number", Msg: "ID Card number is required"}
	case f.ContactNumber == "":
		return &ValidationError{Field: "contact_number", Msg: "Contact number is required"}
	case f.DateOfBirth == "":
		return &ValidationError{Field: "date_of_birth", Msg: "Date of Birth is required"}
	}

	age, ok := ComputeAge(f.DateOfBirth, today)
	if !ok {
		return &ValidationError{Field: "date_of_birth", Msg: "Date of Birth is invalid"}
	}
	if age < 0 {
		return &ValidationError{Field: "date_of_birth", Msg: "Age cannot be negative"}
	}
	if !f.Nationality.Valid() {
		return &ValidationError{Field: "nationality", Msg: "Nationality is invalid"}
	}
	return nil
}

// FormController validates and submits new patient records.
type FormController struct {
	Store      store.RecordStore
	Collection string
	List       *ListController
	Now        func() time.Time
}

func (f *FormController) today() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// pendingRecord is a validated record whose insert has not finished.
type pendingRecord struct {
	user *Identity
	rec  model.PatientRecord
}

// Submit stores the entered patient for the signed-in user. The form keeps its
// values on any failure and is cleared after a successful insert.
func (f *FormController) Submit(ctx context.Context, st *State, fields FormFields) error {
	p, err := f.begin(st, fields)
	if err != nil {
		return err
	}
	id, err := f.Store.Insert(ctx, f.Collection, p.rec)
	return f.finish(ctx, st, p, id, err)
}

// begin validates fields and marks the form busy. The caller must run the
// insert and then finish, and may release the state in between.
func (f *FormController) begin(st *State, fields FormFields) (*pendingRecord, error) {
	user, err := requireIdentity(st, "submit")
	if err != nil {
		st.failure(msgLoginToSave)
		return nil, err
	}
	if st.Busy {
		return nil, ErrBusy
	}

	fields = fields.trimmed()
	st.Form = fields

	today := f.today()
	if err := Validate(fields, today); err != nil {
		st.failure(err.Error())
		return nil, err
	}
	age, _ := ComputeAge(fields.DateOfBirth, today)

	st.Busy = true
	return &pendingRecord{
		user: user,
		rec: model.PatientRecord{
			Name:            fields.Name,
			IDCardNumber:    fields.IDCardNumber,
			Address:         fields.Address,
			ContactNumber:   fields.ContactNumber,
			DateOfBirth:     fields.DateOfBirth,
			Age:             age,
			Nationality:     fields.Nationality,
			CreatedByUserID: user.UserID,
			CreatedByEmail:  user.Email,
		},
	}, nil
}

func (f *FormController) finish(ctx context.Context, st *State, p *pendingRecord, id string, err error) error {
	st.Busy = false
	if err != nil {
		se := asStoreError("insert", err)
		log.Printf("Error saving patient for %s: %v", p.user.UserID, se)
		st.failure(msgSaveFailed + se.Message())
		return se
	}

	util.LogRecordChange(util.EventRecordCreated, p.user.UserID, p.user.Email, id)
	st.success(msgPatientSaved)
	// The user may have signed out while the insert ran.
	if st.User == nil || st.User.UserID != p.user.UserID {
		return nil
	}
	st.Form = EmptyForm()
	f.List.reload(ctx, st)
	return nil
}

// Clear resets the form. It is available whether or not a user is signed in.
func (f *FormController) Clear(st *State) {
	st.Form = EmptyForm()
}

// PreviewAge is the age shown next to the date of birth while typing. ok is
// false for unparseable or future dates.
func (f *FormController) PreviewAge(dob string) (int, bool) {
	age, ok := ComputeAge(dob, f.today())
	if !ok || age < 0 {
		return 0, false
	}
	return age, true
}
