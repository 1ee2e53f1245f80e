package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a course author. Only the id is consulted by the hierarchy; the
// rest belongs to signup and login.
type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"size:100;default:''"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`

	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `json:"-" gorm:"default:false"`
	BlockedUntil        *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login"`
}
