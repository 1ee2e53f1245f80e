package hierarchy

import (
	"context"

	"minicourse/apperr"
	courseModels "minicourse/models/course"
	"minicourse/ordering"
)

type ModuleDetail struct {
	Module  courseModels.Module   `json:"module"`
	Lessons []courseModels.Lesson `json:"lessons"`
}

type LessonDetail struct {
	Lesson courseModels.Lesson         `json:"lesson"`
	Module courseModels.Module         `json:"module"`
	Blocks []courseModels.ContentBlock `json:"blocks"`
}

// GetModule returns a module with its lessons in position order.
func (s *Service) GetModule(ctx context.Context, actor, moduleID uint) (*ModuleDetail, error) {
	const op = "hierarchy.GetModule"

	r, err := s.resolve(ctx, nil, courseModels.LevelModule, moduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, nil, r.CourseID, actor); err != nil {
		return nil, err
	}
	m, err := s.store.GetModule(ctx, nil, moduleID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.store.ListLessonsByModules(ctx, nil, []uint{moduleID})
	if err != nil {
		return nil, err
	}
	if err := verifyOrder(op, ordering.ItemsOf(lessons, lessonItem)); err != nil {
		s.log.Error("Ordering consistency violation", "op", op, "module_id", moduleID, "error", err)
		return nil, err
	}
	return &ModuleDetail{Module: *m, Lessons: lessons}, nil
}

// GetLesson returns a lesson, its module and its blocks in position order.
func (s *Service) GetLesson(ctx context.Context, actor, lessonID uint) (*LessonDetail, error) {
	const op = "hierarchy.GetLesson"

	r, err := s.resolve(ctx, nil, courseModels.LevelLesson, lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, nil, r.CourseID, actor); err != nil {
		return nil, err
	}
	l, err := s.store.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}
	m, err := s.store.GetModule(ctx, nil, l.ModuleID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.store.ListBlocksByLessons(ctx, nil, []uint{lessonID})
	if err != nil {
		return nil, err
	}
	if err := verifyOrder(op, ordering.ItemsOf(blocks, blockItem)); err != nil {
		s.log.Error("Ordering consistency violation", "op", op, "lesson_id", lessonID, "error", err)
		return nil, err
	}
	return &LessonDetail{Lesson: *l, Module: *m, Blocks: blocks}, nil
}

func verifyOrder(op string, items []ordering.Item) error {
	if err := ordering.Verify(items); err != nil {
		return apperr.New(apperr.ErrConsistency, op, err)
	}
	return nil
}

func lessonItem(l courseModels.Lesson) ordering.Item {
	return ordering.Item{ID: l.ID, Position: l.Position}
}

func blockItem(b courseModels.ContentBlock) ordering.Item {
	return ordering.Item{ID: b.ID, Position: b.Position}
}
