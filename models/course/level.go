package course

import "strings"

// Level names one tier of the hierarchy.
type Level string

const (
	LevelCourse Level = "course"
	LevelModule Level = "module"
	LevelLesson Level = "lesson"
	LevelBlock  Level = "block"
)

// ParseLevel accepts the item_type values sent by the editor.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelCourse:
		return LevelCourse, true
	case LevelModule:
		return LevelModule, true
	case LevelLesson:
		return LevelLesson, true
	case LevelBlock:
		return LevelBlock, true
	}
	return "", false
}

// Ordered reports whether entities at this level live in a sibling set.
func (l Level) Ordered() bool {
	return l == LevelModule || l == LevelLesson || l == LevelBlock
}

// Parent returns the level that owns this one.
func (l Level) Parent() Level {
	switch l {
	case LevelModule:
		return LevelCourse
	case LevelLesson:
		return LevelModule
	case LevelBlock:
		return LevelLesson
	}
	return ""
}
