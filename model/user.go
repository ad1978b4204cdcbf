package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an account allowed to register patients.
type User struct {
	gorm.Model
	UID            string `json:"uid" gorm:"size:64;uniqueIndex"`
	Email          string `json:"email" gorm:"size:191;uniqueIndex"`
	Password       string `json:"-"`
	PasswordSalt   string `json:"-"`
	FailedAttempts int    `json:"-" gorm:"default:0"`
	LockedUntil    *int64 `json:"-"`
}

// Session is an issued session token.
type Session struct {
	gorm.Model
	SessionToken string    `json:"session_token" gorm:"size:512;index"`
	UserID       uint      `json:"user_id" gorm:"index"`
	UID          string    `json:"uid" gorm:"size:64"`
	Email        string    `json:"email" gorm:"size:191"`
	ExpiresAt    time.Time `json:"expires_at"`
	ClientIP     string    `json:"client_ip" gorm:"size:45"`
	Browser      string    `json:"browser" gorm:"size:512"`
}
