package course

import "time"

const DefaultLessonTitle = "New Lesson"

// Lesson belongs to a module. Position is 1-based and dense per module.
type Lesson struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ModuleID  uint      `json:"module_id" gorm:"not null;uniqueIndex:idx_lessons_module_position,priority:1"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Position  int       `json:"position" gorm:"not null;uniqueIndex:idx_lessons_module_position,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Blocks []ContentBlock `json:"-" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}
