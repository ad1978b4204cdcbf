package store

import (
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/ariebrainware/patient-registry/model"
)

// DecodeError reports a stored document that does not match the record schema.
type DecodeError struct {
	ID     string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %s: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("record %s: field %s: %s", e.ID, e.Field, e.Reason)
}

// recordDocument is the stored shape of a record. Pointers distinguish
// missing fields from zero values.
type recordDocument struct {
	Name           *string    `firestore:"name"`
	IDCard         *string    `firestore:"idCard"`
	Address        *string    `firestore:"address"`
	Contact        *string    `firestore:"contact"`
	DOB            *string    `firestore:"dob"`
	Age            *int64     `firestore:"age"`
	Nationality    *string    `firestore:"nationality"`
	CreatedAt      *time.Time `firestore:"createdAt"`
	CreatedBy      *string    `firestore:"createdBy"`
	CreatedByEmail *string    `firestore:"createdByEmail"`
}

func decodeSnapshot(doc *firestore.DocumentSnapshot) (model.PatientRecord, error) {
	var d recordDocument
	if err := doc.DataTo(&d); err != nil {
		return model.PatientRecord{}, &DecodeError{ID: doc.Ref.ID, Reason: err.Error()}
	}
	return decodeDocument(doc.Ref.ID, d)
}

func decodeDocument(id string, d recordDocument) (model.PatientRecord, error) {
	rec := model.PatientRecord{ID: id}

	required := []struct {
		field string
		src   *string
		dst   *string
	}{
		{"name", d.Name, &rec.Name},
		{"idCard", d.IDCard, &rec.IDCardNumber},
		{"contact", d.Contact, &rec.ContactNumber},
		{"dob", d.DOB, &rec.DateOfBirth},
		{"createdBy", d.CreatedBy, &rec.CreatedByUserID},
	}
	for _, r := range required {
		if r.src == nil || *r.src == "" {
			return model.PatientRecord{}, &DecodeError{ID: id, Field: r.field, Reason: "missing"}
		}
		*r.dst = *r.src
	}

	if d.Age == nil {
		return model.PatientRecord{}, &DecodeError{ID: id, Field: "age", Reason: "missing"}
	}
	if *d.Age < 0 {
		return model.PatientRecord{}, &DecodeError{ID: id, Field: "age", Reason: "negative"}
	}
	rec.Age = int(*d.Age)

	if d.Address != nil {
		rec.Address = *d.Address
	}
	if d.Nationality != nil {
		n := model.Nationality(*d.Nationality)
		if !n.Valid() {
			return model.PatientRecord{}, &DecodeError{ID: id, Field: "nationality", Reason: "invalid"}
		}
		rec.Nationality = n
	}
	if d.CreatedByEmail != nil {
		rec.CreatedByEmail = *d.CreatedByEmail
	}
	// A pending server timestamp decodes as absent.
	if d.CreatedAt != nil && !d.CreatedAt.IsZero() {
		t := *d.CreatedAt
		rec.CreatedAt = &t
	}
	return rec, nil
}
