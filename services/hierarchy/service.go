// Package hierarchy is the only writer of courses, modules, lessons and
// content blocks. Every mutation checks ownership, holds the sibling-set lock
// for its whole read-modify-write and commits in a single transaction.
package hierarchy

import (
	"context"
	"errors"

	"minicourse/apperr"
	"minicourse/database"
	"minicourse/logger"
	courseModels "minicourse/models/course"
	"minicourse/ordering"
	"minicourse/repository"

	"gorm.io/gorm"
)

// maxAttempts bounds how often a transaction is run against fresh data after
// a lock conflict or a lost race on a position index.
const maxAttempts = 2

type Service struct {
	store  *repository.Store
	locker ordering.Locker
	log    *logger.Logger
}

func New(store *repository.Store, locker ordering.Locker, baseLog *logger.Logger) *Service {
	if locker == nil {
		locker = ordering.NewLocalLocker()
	}
	return &Service{
		store:  store,
		locker: locker,
		log:    baseLog.With("service", "HierarchyService"),
	}
}

// ref locates an entity in the hierarchy.
type ref struct {
	Level    courseModels.Level
	ID       uint
	ParentID uint
	CourseID uint
}

// resolve walks the ownership chain from (level, id) up to its course. A
// missing link anywhere on the way is NotFound.
func (s *Service) resolve(ctx context.Context, tx *gorm.DB, level courseModels.Level, id uint) (ref, error) {
	r := ref{Level: level, ID: id}
	switch level {
	case courseModels.LevelCourse:
		c, err := s.store.GetCourse(ctx, tx, id)
		if err != nil {
			return r, err
		}
		r.CourseID = c.ID
	case courseModels.LevelModule:
		m, err := s.store.GetModule(ctx, tx, id)
		if err != nil {
			return r, err
		}
		r.ParentID, r.CourseID = m.CourseID, m.CourseID
	case courseModels.LevelLesson:
		l, err := s.store.GetLesson(ctx, tx, id)
		if err != nil {
			return r, err
		}
		m, err := s.store.GetModule(ctx, tx, l.ModuleID)
		if err != nil {
			return r, err
		}
		r.ParentID, r.CourseID = l.ModuleID, m.CourseID
	case courseModels.LevelBlock:
		b, err := s.store.GetBlock(ctx, tx, id)
		if err != nil {
			return r, err
		}
		l, err := s.store.GetLesson(ctx, tx, b.LessonID)
		if err != nil {
			return r, err
		}
		m, err := s.store.GetModule(ctx, tx, l.ModuleID)
		if err != nil {
			return r, err
		}
		r.ParentID, r.CourseID = b.LessonID, m.CourseID
	default:
		return r, apperr.Newf(apperr.ErrInvalid, "hierarchy.resolve", "unknown level %q", level)
	}
	return r, nil
}

// authorize loads the course and checks that actor owns it.
func (s *Service) authorize(ctx context.Context, tx *gorm.DB, courseID, actor uint) (*courseModels.Course, error) {
	c, err := s.store.GetCourse(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	if c.UserID != actor {
		return nil, apperr.Newf(apperr.ErrForbidden, "hierarchy.authorize", "user %d does not own course %d", actor, courseID)
	}
	return c, nil
}

// locked holds the sibling-set lock for (level, parentID) while fn runs.
// The lock is always taken before a transaction begins.
func (s *Service) locked(ctx context.Context, level courseModels.Level, parentID uint, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, ordering.Key(string(level), parentID))
	if err != nil {
		return apperr.New(apperr.ErrTransient, "hierarchy.lock", err)
	}
	defer unlock()
	return fn()
}

// transact runs fn in a transaction, once more on a retryable store failure.
func (s *Service) transact(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = s.store.DB().WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !database.IsRetryable(err) || ctx.Err() != nil {
			break
		}
		s.log.Warn("Transient store failure, retrying", "op", op, "attempt", attempt, "error", err)
	}

	switch {
	case errors.Is(err, apperr.ErrConsistency):
		s.log.Error("Ordering consistency violation", "op", op, "error", err)
		return err
	case apperr.KindOf(err) != nil && !errors.Is(err, apperr.ErrTransient):
		return err
	case database.IsRetryable(err):
		return apperr.New(apperr.ErrTransient, op, err)
	}
	s.log.Error("Store failure", "op", op, "error", err)
	return err
}

func (s *Service) siblings(tx *gorm.DB, level courseModels.Level, parentID uint) (ordering.Siblings, error) {
	return s.store.Siblings(tx, level, parentID)
}
