package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/patient-registry/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var sqlColumns = map[string]string{
	FieldCreatedBy: "created_by_user_id",
	FieldCreatedAt: "created_at",
}

// SQLStore keeps records in the patient_records table through gorm.
type SQLStore struct {
	db    *gorm.DB
	now   func() time.Time
	newID func() string
}

// NewSQLStore returns a store using db. Call Migrate once before use.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now, newID: uuid.NewString}
}

// Migrate creates or updates the patient_records table.
func (s *SQLStore) Migrate() error {
	return s.db.AutoMigrate(&model.PatientRecord{})
}

func (s *SQLStore) Insert(ctx context.Context, collection string, rec model.PatientRecord) (string, error) {
	rec.ID = s.newID()
	rec.Collection = collection
	created := s.now().UTC()
	rec.CreatedAt = &created

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", &Error{Op: "insert", Err: err}
	}
	return rec.ID, nil
}

func (s *SQLStore) Query(ctx context.Context, collection string, filter Filter, order OrderBy) ([]model.PatientRecord, error) {
	query := s.db.WithContext(ctx).Where("collection = ?", collection)

	if filter.Field != "" {
		col, ok := sqlColumns[filter.Field]
		if !ok {
			return nil, &Error{Op: "query", Err: fmt.Errorf("unsupported filter field %q", filter.Field)}
		}
		query = query.Where(fmt.Sprintf("%s = ?", col), filter.Value)
	}

	if order.Field != "" {
		col, ok := sqlColumns[order.Field]
		if !ok {
			return nil, &Error{Op: "query", Err: fmt.Errorf("unsupported order field %q", order.Field)}
		}
		dir := "ASC"
		if order.Descending {
			dir = "DESC"
		}
		query = query.Order(fmt.Sprintf("%s %s", col, dir))
	}

	var records []model.PatientRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, &Error{Op: "query", Err: err}
	}
	return records, nil
}

func (s *SQLStore) DeleteByID(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&model.PatientRecord{}).Error
	if err != nil {
		return &Error{Op: "delete", Err: err}
	}
	return nil
}
