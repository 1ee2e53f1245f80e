// Package repository is the gorm-backed entity store for courses, modules,
// lessons and content blocks. Every method takes an optional transaction;
// a nil tx runs against the store's own handle.
package repository

import (
	"context"
	"errors"
	"time"

	"minicourse/apperr"
	"minicourse/logger"
	courseModels "minicourse/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{db: db, log: baseLog.With("repo", "CourseStore")}
}

// DB exposes the handle transactions are started from.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = s.db
	}
	return tx.WithContext(ctx)
}

func notFound(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.ErrNotFound, op, err)
	}
	return err
}

// ---- courses ----

func (s *Store) CreateCourse(ctx context.Context, tx *gorm.DB, c *courseModels.Course) error {
	return s.conn(ctx, tx).Create(c).Error
}

func (s *Store) GetCourse(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Course, error) {
	var c courseModels.Course
	if err := s.conn(ctx, tx).Where("id = ?", id).Take(&c).Error; err != nil {
		return nil, notFound("repository.GetCourse", err)
	}
	return &c, nil
}

func (s *Store) GetCourseByShareToken(ctx context.Context, tx *gorm.DB, token string) (*courseModels.Course, error) {
	var c courseModels.Course
	if err := s.conn(ctx, tx).Where("share_token = ?", token).Take(&c).Error; err != nil {
		return nil, notFound("repository.GetCourseByShareToken", err)
	}
	return &c, nil
}

func (s *Store) ListCoursesByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]courseModels.Course, error) {
	var out []courseModels.Course
	err := s.conn(ctx, tx).
		Where("user_id = ?", userID).
		Order("updated_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *Store) CountCoursesUpdatedSince(ctx context.Context, tx *gorm.DB, userID uint, since time.Time) (int64, error) {
	var n int64
	err := s.conn(ctx, tx).Model(&courseModels.Course{}).
		Where("user_id = ? AND updated_at >= ?", userID, since).
		Count(&n).Error
	return n, err
}

// UpdateCourseFields applies column updates; share_token is never writable.
func (s *Store) UpdateCourseFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) error {
	delete(fields, "share_token")
	if len(fields) == 0 {
		return nil
	}
	res := s.conn(ctx, tx).Model(&courseModels.Course{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.ErrNotFound, "repository.UpdateCourseFields", "course %d", id)
	}
	return nil
}

// TouchCourse bumps updated_at after a change anywhere below the course.
func (s *Store) TouchCourse(ctx context.Context, tx *gorm.DB, id uint) error {
	return s.conn(ctx, tx).Model(&courseModels.Course{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// ---- modules, lessons, blocks ----

func (s *Store) CreateModule(ctx context.Context, tx *gorm.DB, m *courseModels.Module) error {
	return s.conn(ctx, tx).Create(m).Error
}

func (s *Store) CreateLesson(ctx context.Context, tx *gorm.DB, l *courseModels.Lesson) error {
	return s.conn(ctx, tx).Create(l).Error
}

func (s *Store) CreateBlock(ctx context.Context, tx *gorm.DB, b *courseModels.ContentBlock) error {
	return s.conn(ctx, tx).Create(b).Error
}

func (s *Store) GetModule(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Module, error) {
	var m courseModels.Module
	if err := s.conn(ctx, tx).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, notFound("repository.GetModule", err)
	}
	return &m, nil
}

func (s *Store) GetLesson(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.Lesson, error) {
	var l courseModels.Lesson
	if err := s.conn(ctx, tx).Where("id = ?", id).Take(&l).Error; err != nil {
		return nil, notFound("repository.GetLesson", err)
	}
	return &l, nil
}

func (s *Store) GetBlock(ctx context.Context, tx *gorm.DB, id uint) (*courseModels.ContentBlock, error) {
	var b courseModels.ContentBlock
	if err := s.conn(ctx, tx).Where("id = ?", id).Take(&b).Error; err != nil {
		return nil, notFound("repository.GetBlock", err)
	}
	return &b, nil
}

func (s *Store) ListModules(ctx context.Context, tx *gorm.DB, courseID uint) ([]courseModels.Module, error) {
	var out []courseModels.Module
	err := s.conn(ctx, tx).
		Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (s *Store) ListLessonsByModules(ctx context.Context, tx *gorm.DB, moduleIDs []uint) ([]courseModels.Lesson, error) {
	var out []courseModels.Lesson
	if len(moduleIDs) == 0 {
		return out, nil
	}
	err := s.conn(ctx, tx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, position ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (s *Store) ListBlocksByLessons(ctx context.Context, tx *gorm.DB, lessonIDs []uint) ([]courseModels.ContentBlock, error) {
	var out []courseModels.ContentBlock
	if len(lessonIDs) == 0 {
		return out, nil
	}
	err := s.conn(ctx, tx).
		Where("lesson_id IN ?", lessonIDs).
		Order("lesson_id, position ASC, id ASC").
		Find(&out).Error
	return out, err
}

// UpdateTitle renames a module or lesson. Position is not touched.
func (s *Store) UpdateTitle(ctx context.Context, tx *gorm.DB, level courseModels.Level, id uint, title string) error {
	var model interface{}
	switch level {
	case courseModels.LevelModule:
		model = &courseModels.Module{}
	case courseModels.LevelLesson:
		model = &courseModels.Lesson{}
	default:
		return apperr.Newf(apperr.ErrInvalid, "repository.UpdateTitle", "%s has no title", level)
	}
	res := s.conn(ctx, tx).Model(model).Where("id = ?", id).Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.ErrNotFound, "repository.UpdateTitle", "%s %d", level, id)
	}
	return nil
}

// UpdateBlockContent replaces a block's payload. Kind and position are not touched.
func (s *Store) UpdateBlockContent(ctx context.Context, tx *gorm.DB, id uint, content datatypes.JSON) error {
	res := s.conn(ctx, tx).Model(&courseModels.ContentBlock{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.ErrNotFound, "repository.UpdateBlockContent", "block %d", id)
	}
	return nil
}
