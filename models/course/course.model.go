package course

import "time"

const DefaultCourseTitle = "Untitled Course"

// Course is the root of an ordered hierarchy and the unit of ownership.
type Course struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	Title             string    `json:"title" gorm:"size:200;not null"`
	Description       string    `json:"description" gorm:"type:text"`
	Outcome           string    `json:"outcome" gorm:"type:text;not null"`
	Audience          string    `json:"audience" gorm:"type:text"`
	IntroContent      string    `json:"intro_content" gorm:"type:text"`
	ConclusionContent string    `json:"conclusion_content" gorm:"type:text"`
	ShareToken        string    `json:"share_token" gorm:"<-:create;size:36;uniqueIndex;not null"` // assigned once on create
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Modules []Module `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}
