package course

import "time"

const DefaultModuleTitle = "New Module"

// Module is a section within a course. Position is 1-based and dense per course.
type Module struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_modules_course_position,priority:1"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Position  int       `json:"position" gorm:"not null;uniqueIndex:idx_modules_course_position,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lessons []Lesson `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}
