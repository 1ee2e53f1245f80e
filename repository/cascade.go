package repository

import (
	"context"

	"minicourse/apperr"
	courseModels "minicourse/models/course"

	"gorm.io/gorm"
)

// The delete procedures remove children before parents so that they are
// correct with or without store-enforced ON DELETE CASCADE. Renumbering the
// surviving siblings is the ordering engine's job, not theirs.

func deleteRows(ctx context.Context, tx *gorm.DB, model interface{}, query string, args ...interface{}) error {
	res := tx.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func deleteLessonTree(ctx context.Context, tx *gorm.DB, lessonID uint) error {
	if err := deleteRows(ctx, tx, &courseModels.ContentBlock{}, "lesson_id = ?", lessonID); err != nil {
		return err
	}
	res := tx.WithContext(ctx).Where("id = ?", lessonID).Delete(&courseModels.Lesson{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.ErrNotFound, "repository.deleteLessonTree", "lesson %d", lessonID)
	}
	return nil
}

func deleteModuleTree(ctx context.Context, tx *gorm.DB, moduleID uint) error {
	lessons := tx.WithContext(ctx).Model(&courseModels.Lesson{}).Select("id").Where("module_id = ?", moduleID)
	if err := deleteRows(ctx, tx, &courseModels.ContentBlock{}, "lesson_id IN (?)", lessons); err != nil {
		return err
	}
	if err := deleteRows(ctx, tx, &courseModels.Lesson{}, "module_id = ?", moduleID); err != nil {
		return err
	}
	res := tx.WithContext(ctx).Where("id = ?", moduleID).Delete(&courseModels.Module{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.ErrNotFound, "repository.deleteModuleTree", "module %d", moduleID)
	}
	return nil
}

// DeleteCourseTree removes a course and everything under it. Courses are not
// ordered, so nothing is renumbered.
func (s *Store) DeleteCourseTree(ctx context.Context, tx *gorm.DB, courseID uint) error {
	db := s.conn(ctx, tx)

	modules := db.Session(&gorm.Session{NewDB: true}).Model(&courseModels.Module{}).Select("id").Where("course_id = ?", courseID)
	lessons := db.Session(&gorm.Session{NewDB: true}).Model(&courseModels.Lesson{}).Select("id").Where("module_id IN (?)", modules)

	if err := deleteRows(ctx, db, &courseModels.ContentBlock{}, "lesson_id IN (?)", lessons); err != nil {
		return err
	}
	if err := deleteRows(ctx, db, &courseModels.Lesson{}, "module_id IN (?)", modules); err != nil {
		return err
	}
	if err := deleteRows(ctx, db, &courseModels.Module{}, "course_id = ?", courseID); err != nil {
		return err
	}
	res := db.Where("id = ?", courseID).Delete(&courseModels.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.ErrNotFound, "repository.DeleteCourseTree", "course %d", courseID)
	}
	return nil
}
