package repository

import (
	"context"
	"fmt"

	"minicourse/apperr"
	courseModels "minicourse/models/course"
	"minicourse/ordering"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type levelSpec struct {
	table       string
	parentCol   string
	parentTable string
}

var levelSpecs = map[courseModels.Level]levelSpec{
	courseModels.LevelModule: {table: "modules", parentCol: "course_id", parentTable: "courses"},
	courseModels.LevelLesson: {table: "lessons", parentCol: "module_id", parentTable: "modules"},
	courseModels.LevelBlock:  {table: "content_blocks", parentCol: "lesson_id", parentTable: "lessons"},
}

// siblings implements ordering.Siblings over one table scoped to a parent id.
type siblings struct {
	tx       *gorm.DB
	level    courseModels.Level
	spec     levelSpec
	parentID uint
}

// Siblings binds the sibling set (level, parentID) to tx. Every call made
// through the returned value runs inside that transaction.
func (s *Store) Siblings(tx *gorm.DB, level courseModels.Level, parentID uint) (ordering.Siblings, error) {
	spec, ok := levelSpecs[level]
	if !ok {
		return nil, apperr.Newf(apperr.ErrInvalid, "repository.Siblings", "%s is not an ordered level", level)
	}
	if tx == nil {
		tx = s.db
	}
	return &siblings{tx: tx, level: level, spec: spec, parentID: parentID}, nil
}

func (s *siblings) scoped(ctx context.Context) *gorm.DB {
	return s.tx.WithContext(ctx).Table(s.spec.table).Where(s.spec.parentCol+" = ?", s.parentID)
}

func (s *siblings) Lock(ctx context.Context) error {
	q := s.tx.WithContext(ctx).Table(s.spec.parentTable).Select("id").Where("id = ?", s.parentID)
	if s.tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row struct{ ID uint }
	if err := q.Take(&row).Error; err != nil {
		return notFound(fmt.Sprintf("repository.Lock(%s %d)", s.level.Parent(), s.parentID), err)
	}
	return nil
}

func (s *siblings) Positions(ctx context.Context) ([]ordering.Item, error) {
	var items []ordering.Item
	err := s.scoped(ctx).Select("id", "position").Order("position ASC, id ASC").Scan(&items).Error
	return items, err
}

// Shift negates the range first and restores it second, so the
// (parent, position) unique index holds after each statement.
func (s *siblings) Shift(ctx context.Context, lo, hi, delta int) error {
	if lo > hi || delta == 0 {
		return nil
	}
	if err := s.scoped(ctx).
		Where("position BETWEEN ? AND ?", lo, hi).
		Update("position", gorm.Expr("-(position + ?)", delta)).Error; err != nil {
		return err
	}
	return s.scoped(ctx).
		Where("position < 0").
		Update("position", gorm.Expr("-position")).Error
}

func (s *siblings) Place(ctx context.Context, id uint, position int) error {
	res := s.scoped(ctx).Where("id = ?", id).Update("position", position)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return apperr.Newf(apperr.ErrNotFound, "repository.Place", "%s %d", s.level, id)
	}
	return nil
}

func (s *siblings) Remove(ctx context.Context, id uint) error {
	var err error
	switch s.level {
	case courseModels.LevelModule:
		err = deleteModuleTree(ctx, s.tx, id)
	case courseModels.LevelLesson:
		err = deleteLessonTree(ctx, s.tx, id)
	case courseModels.LevelBlock:
		err = deleteRows(ctx, s.tx, &courseModels.ContentBlock{}, "id = ?", id)
	}
	return err
}

// SiblingSets lists every parent id that currently has children at level.
func (s *Store) SiblingSets(ctx context.Context, tx *gorm.DB, level courseModels.Level) ([]uint, error) {
	spec, ok := levelSpecs[level]
	if !ok {
		return nil, apperr.Newf(apperr.ErrInvalid, "repository.SiblingSets", "%s is not an ordered level", level)
	}
	var ids []uint
	err := s.conn(ctx, tx).Table(spec.table).Distinct(spec.parentCol).Order(spec.parentCol).Pluck(spec.parentCol, &ids).Error
	return ids, err
}
