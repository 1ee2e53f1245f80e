package course

import (
	"time"

	"gorm.io/datatypes"
)

// ContentBlock is a leaf of the hierarchy. Kind is fixed at creation; changing
// it means deleting the block and appending a new one.
type ContentBlock struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	LessonID  uint           `json:"lesson_id" gorm:"not null;uniqueIndex:idx_blocks_lesson_position,priority:1"`
	Kind      BlockKind      `json:"block_type" gorm:"<-:create;size:50;not null"`
	Content   datatypes.JSON `json:"content"`
	Position  int            `json:"position" gorm:"not null;uniqueIndex:idx_blocks_lesson_position,priority:2"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (ContentBlock) TableName() string { return "content_blocks" }
