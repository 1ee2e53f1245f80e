package hierarchy

import (
	"context"
	"strings"
	"unicode/utf8"

	"minicourse/apperr"
	courseModels "minicourse/models/course"
	"minicourse/ordering"

	"gorm.io/gorm"
)

const maxTitleLength = 200

// AddModule appends a module with the default title to the end of a course.
func (s *Service) AddModule(ctx context.Context, actor, courseID uint) (*courseModels.Module, error) {
	const op = "hierarchy.AddModule"

	var created *courseModels.Module
	err := s.locked(ctx, courseModels.LevelModule, courseID, func() error {
		return s.transact(ctx, op, func(tx *gorm.DB) error {
			if _, err := s.authorize(ctx, tx, courseID, actor); err != nil {
				return err
			}
			sib, err := s.siblings(tx, courseModels.LevelModule, courseID)
			if err != nil {
				return err
			}
			pos, err := ordering.Append(ctx, sib)
			if err != nil {
				return err
			}
			m := &courseModels.Module{CourseID: courseID, Title: courseModels.DefaultModuleTitle, Position: pos}
			if err := s.store.CreateModule(ctx, tx, m); err != nil {
				return err
			}
			created = m
			return s.store.TouchCourse(ctx, tx, courseID)
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Module added", "course_id", courseID, "module_id", created.ID, "position", created.Position)
	return created, nil
}

// AddLesson appends a lesson with the default title to the end of a module.
func (s *Service) AddLesson(ctx context.Context, actor, moduleID uint) (*courseModels.Lesson, error) {
	const op = "hierarchy.AddLesson"

	var created *courseModels.Lesson
	err := s.locked(ctx, courseModels.LevelLesson, moduleID, func() error {
		return s.transact(ctx, op, func(tx *gorm.DB) error {
			parent, err := s.resolve(ctx, tx, courseModels.LevelModule, moduleID)
			if err != nil {
				return err
			}
			if _, err := s.authorize(ctx, tx, parent.CourseID, actor); err != nil {
				return err
			}
			sib, err := s.siblings(tx, courseModels.LevelLesson, moduleID)
			if err != nil {
				return err
			}
			pos, err := ordering.Append(ctx, sib)
			if err != nil {
				return err
			}
			l := &courseModels.Lesson{ModuleID: moduleID, Title: courseModels.DefaultLessonTitle, Position: pos}
			if err := s.store.CreateLesson(ctx, tx, l); err != nil {
				return err
			}
			created = l
			return s.store.TouchCourse(ctx, tx, parent.CourseID)
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddBlock appends a content block of the given kind to a lesson. A nil or
// empty initial payload selects the kind's default content; anything else
// must validate against the kind's schema before a row is written.
func (s *Service) AddBlock(ctx context.Context, actor, lessonID uint, kind courseModels.BlockKind, initial []byte) (*courseModels.ContentBlock, error) {
	const op = "hierarchy.AddBlock"

	var (
		payload courseModels.Payload
		err     error
	)
	if len(strings.TrimSpace(string(initial))) == 0 || strings.TrimSpace(string(initial)) == "null" {
		payload, err = courseModels.DefaultPayload(kind)
	} else {
		payload, err = courseModels.DecodePayload(kind, initial)
	}
	if err != nil {
		return nil, err
	}
	content, err := courseModels.EncodePayload(payload)
	if err != nil {
		return nil, apperr.New(apperr.ErrInvalidPayload, op, err)
	}

	var created *courseModels.ContentBlock
	err = s.locked(ctx, courseModels.LevelBlock, lessonID, func() error {
		return s.transact(ctx, op, func(tx *gorm.DB) error {
			parent, err := s.resolve(ctx, tx, courseModels.LevelLesson, lessonID)
			if err != nil {
				return err
			}
			if _, err := s.authorize(ctx, tx, parent.CourseID, actor); err != nil {
				return err
			}
			sib, err := s.siblings(tx, courseModels.LevelBlock, lessonID)
			if err != nil {
				return err
			}
			pos, err := ordering.Append(ctx, sib)
			if err != nil {
				return err
			}
			b := &courseModels.ContentBlock{LessonID: lessonID, Kind: kind, Content: content, Position: pos}
			if err := s.store.CreateBlock(ctx, tx, b); err != nil {
				return err
			}
			created = b
			return s.store.TouchCourse(ctx, tx, parent.CourseID)
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Rename sets the title of a module or lesson. Positions are untouched.
func (s *Service) Rename(ctx context.Context, actor uint, level courseModels.Level, id uint, title string) error {
	const op = "hierarchy.Rename"

	if level != courseModels.LevelModule && level != courseModels.LevelLesson {
		return apperr.Newf(apperr.ErrInvalid, op, "%s cannot be renamed here", level)
	}
	title, err := cleanTitle(op, title)
	if err != nil {
		return err
	}

	return s.transact(ctx, op, func(tx *gorm.DB) error {
		r, err := s.resolve(ctx, tx, level, id)
		if err != nil {
			return err
		}
		if _, err := s.authorize(ctx, tx, r.CourseID, actor); err != nil {
			return err
		}
		if err := s.store.UpdateTitle(ctx, tx, level, id, title); err != nil {
			return err
		}
		return s.store.TouchCourse(ctx, tx, r.CourseID)
	})
}

// EditBlockContent replaces a block's payload after validating it against
// the block's kind. The kind itself cannot be changed.
func (s *Service) EditBlockContent(ctx context.Context, actor, blockID uint, raw []byte) (*courseModels.ContentBlock, error) {
	const op = "hierarchy.EditBlockContent"

	var updated *courseModels.ContentBlock
	err := s.transact(ctx, op, func(tx *gorm.DB) error {
		r, err := s.resolve(ctx, tx, courseModels.LevelBlock, blockID)
		if err != nil {
			return err
		}
		if _, err := s.authorize(ctx, tx, r.CourseID, actor); err != nil {
			return err
		}
		b, err := s.store.GetBlock(ctx, tx, blockID)
		if err != nil {
			return err
		}
		payload, err := courseModels.DecodePayload(b.Kind, raw)
		if err != nil {
			return err
		}
		content, err := courseModels.EncodePayload(payload)
		if err != nil {
			return apperr.New(apperr.ErrInvalidPayload, op, err)
		}
		if err := s.store.UpdateBlockContent(ctx, tx, blockID, content); err != nil {
			return err
		}
		b.Content = content
		updated = b
		return s.store.TouchCourse(ctx, tx, r.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an entity with all of its descendants and closes the gap
// among its siblings. Deleting a course removes the whole tree.
func (s *Service) Delete(ctx context.Context, actor uint, level courseModels.Level, id uint) error {
	const op = "hierarchy.Delete"

	if level == courseModels.LevelCourse {
		return s.DeleteCourse(ctx, actor, id)
	}
	if !level.Ordered() {
		return apperr.Newf(apperr.ErrInvalid, op, "unknown level %q", level)
	}

	r, err := s.resolve(ctx, nil, level, id)
	if err != nil {
		return err
	}
	err = s.locked(ctx, level, r.ParentID, func() error {
		return s.transact(ctx, op, func(tx *gorm.DB) error {
			r, err := s.resolve(ctx, tx, level, id)
			if err != nil {
				return err
			}
			if _, err := s.authorize(ctx, tx, r.CourseID, actor); err != nil {
				return err
			}
			sib, err := s.siblings(tx, level, r.ParentID)
			if err != nil {
				return err
			}
			if err := ordering.Delete(ctx, sib, id); err != nil {
				return err
			}
			return s.store.TouchCourse(ctx, tx, r.CourseID)
		})
	})
	if err != nil {
		return err
	}
	s.log.Debug("Entity deleted", "level", level, "id", id, "parent_id", r.ParentID)
	return nil
}

// Reposition moves an entity to newPosition within its sibling set. The
// position must lie in [1, N]; out-of-range input is rejected.
func (s *Service) Reposition(ctx context.Context, actor uint, level courseModels.Level, id uint, newPosition int) error {
	const op = "hierarchy.Reposition"

	if !level.Ordered() {
		return apperr.WithFields(apperr.ErrInvalid, op, map[string]string{
			"item_type": "Only modules, lessons and blocks can be reordered!",
		})
	}

	r, err := s.resolve(ctx, nil, level, id)
	if err != nil {
		return err
	}
	return s.locked(ctx, level, r.ParentID, func() error {
		return s.transact(ctx, op, func(tx *gorm.DB) error {
			r, err := s.resolve(ctx, tx, level, id)
			if err != nil {
				return err
			}
			if _, err := s.authorize(ctx, tx, r.CourseID, actor); err != nil {
				return err
			}
			sib, err := s.siblings(tx, level, r.ParentID)
			if err != nil {
				return err
			}
			if err := ordering.Reposition(ctx, sib, id, newPosition); err != nil {
				return err
			}
			return s.store.TouchCourse(ctx, tx, r.CourseID)
		})
	})
}

func cleanTitle(op, title string) (string, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return "", apperr.WithFields(apperr.ErrInvalid, op, map[string]string{"title": "Title is required!"})
	case utf8.RuneCountInString(title) > maxTitleLength:
		return "", apperr.WithFields(apperr.ErrInvalid, op, map[string]string{"title": "Title must be at most 200 characters!"})
	}
	return title, nil
}
