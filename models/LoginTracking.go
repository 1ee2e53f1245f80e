package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records one successful login.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	IPAddress string    `json:"ip_address" gorm:"size:64"`
	Device    string    `json:"device" gorm:"size:255"`
	Timestamp time.Time `json:"timestamp"`
}
