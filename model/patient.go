package model

import "time"

// DateLayout is the calendar-date format used for dates of birth.
const DateLayout = "2006-01-02"

// PatientRecord is a registered patient owned by the account that created it.
// Records are never updated in place.
type PatientRecord struct {
	ID              string      `json:"id" gorm:"primaryKey;size:64" firestore:"-"`
	Collection      string      `json:"-" gorm:"size:64;index" firestore:"-"`
	Name            string      `json:"name" gorm:"size:191" firestore:"name"`
	IDCardNumber    string      `json:"id_card_number" gorm:"size:64" firestore:"idCard"`
	Address         string      `json:"address" gorm:"type:text" firestore:"address"`
	ContactNumber   string      `json:"contact_number" gorm:"size:64" firestore:"contact"`
	DateOfBirth     string      `json:"date_of_birth" gorm:"size:10" firestore:"dob"`
	Age             int         `json:"age" firestore:"age"`
	Nationality     Nationality `json:"nationality" gorm:"size:64" firestore:"nationality"`
	CreatedAt       *time.Time  `json:"created_at" gorm:"index" firestore:"createdAt"`
	CreatedByUserID string      `json:"created_by_user_id" gorm:"size:64;index" firestore:"createdBy"`
	CreatedByEmail  string      `json:"created_by_email" gorm:"size:191" firestore:"createdByEmail"`
}
