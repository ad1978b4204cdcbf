package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/ariebrainware/patient-registry/model"
)

// FirestoreStore keeps records as documents of a Cloud Firestore collection.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, rec model.PatientRecord) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, encodeDocument(rec))
	if err != nil {
		return "", &Error{Op: "insert", Err: err}
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filter Filter, order OrderBy) ([]model.PatientRecord, error) {
	query := s.client.Collection(collection).Query
	if filter.Field != "" {
		query = query.Where(filter.Field, "==", filter.Value)
	}
	if order.Field != "" {
		dir := firestore.Asc
		if order.Descending {
			dir = firestore.Desc
		}
		query = query.OrderBy(order.Field, dir)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}

	records := make([]model.PatientRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeSnapshot(doc)
		if err != nil {
			return nil, &Error{Op: "query", Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *FirestoreStore) DeleteByID(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return &Error{Op: "delete", Err: err}
	}
	return nil
}

func encodeDocument(rec model.PatientRecord) map[string]interface{} {
	return map[string]interface{}{
		"name":           rec.Name,
		"idCard":         rec.IDCardNumber,
		"address":        rec.Address,
		"contact":        rec.ContactNumber,
		"dob":            rec.DateOfBirth,
		"age":            rec.Age,
		"nationality":    string(rec.Nationality),
		"createdAt":      firestore.ServerTimestamp,
		"createdBy":      rec.CreatedByUserID,
		"createdByEmail": rec.CreatedByEmail,
	}
}
