package testutil

import (
	"context"
	"fmt"
	"testing"

	"minicourse/models"
	courseModels "minicourse/models/course"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *models.User {
	tb.Helper()
	u := &models.User{
		Name:     "Test Author",
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint) *courseModels.Course {
	tb.Helper()
	c := &courseModels.Course{
		UserID:     userID,
		Title:      "Seeded Course",
		Outcome:    "Learners can do the thing",
		ShareToken: uuid.NewString(),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedModules inserts n modules at positions 1..n.
func SeedModules(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uint, n int) []courseModels.Module {
	tb.Helper()
	out := make([]courseModels.Module, 0, n)
	for i := 1; i <= n; i++ {
		m := courseModels.Module{CourseID: courseID, Title: fmt.Sprintf("M%d", i), Position: i}
		if err := tx.WithContext(ctx).Create(&m).Error; err != nil {
			tb.Fatalf("seed module: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func SeedLessons(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uint, n int) []courseModels.Lesson {
	tb.Helper()
	out := make([]courseModels.Lesson, 0, n)
	for i := 1; i <= n; i++ {
		l := courseModels.Lesson{ModuleID: moduleID, Title: fmt.Sprintf("L%d", i), Position: i}
		if err := tx.WithContext(ctx).Create(&l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
		out = append(out, l)
	}
	return out
}

func SeedBlocks(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uint, n int) []courseModels.ContentBlock {
	tb.Helper()
	out := make([]courseModels.ContentBlock, 0, n)
	for i := 1; i <= n; i++ {
		b := courseModels.ContentBlock{
			LessonID: lessonID,
			Kind:     courseModels.KindText,
			Content:  datatypes.JSON([]byte(fmt.Sprintf(`{"html":"<p>B%d</p>"}`, i))),
			Position: i,
		}
		if err := tx.WithContext(ctx).Create(&b).Error; err != nil {
			tb.Fatalf("seed block: %v", err)
		}
		out = append(out, b)
	}
	return out
}

// Corrupt writes a position directly, bypassing the ordering engine.
func Corrupt(tb testing.TB, tx *gorm.DB, table string, id uint, position int) {
	tb.Helper()
	if err := tx.Exec("UPDATE "+table+" SET position = ? WHERE id = ?", position, id).Error; err != nil {
		tb.Fatalf("corrupt %s %d: %v", table, id, err)
	}
}
