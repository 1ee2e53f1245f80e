package hierarchy

import (
	"context"
	"strings"
	"time"

	"minicourse/apperr"
	courseModels "minicourse/models/course"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// CourseInput carries the editable course settings. Empty fields are left
// unchanged on update.
type CourseInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Outcome     string `json:"outcome"`
	Audience    string `json:"audience"`
}

// Dashboard summarizes an author's courses.
type Dashboard struct {
	Courses         []courseModels.Course `json:"courses"`
	Total           int                   `json:"total"`
	UpdatedToday    int64                 `json:"updated_today"`
	UpdatedThisWeek int64                 `json:"updated_this_week"`
}

// CreateCourse starts an empty course owned by actor. The outcome is
// mandatory; the share token is assigned here and never again.
func (s *Service) CreateCourse(ctx context.Context, actor uint, in CourseInput) (*courseModels.Course, error) {
	const op = "hierarchy.CreateCourse"

	in = trimInput(in)
	if in.Outcome == "" {
		return nil, apperr.WithFields(apperr.ErrInvalid, op, map[string]string{
			"outcome": "Learning outcome is required!",
		})
	}
	if in.Title == "" {
		in.Title = courseModels.DefaultCourseTitle
	}
	if _, err := cleanTitle(op, in.Title); err != nil {
		return nil, err
	}

	var created *courseModels.Course
	err := s.transact(ctx, op, func(tx *gorm.DB) error {
		c := &courseModels.Course{
			UserID:      actor,
			Title:       in.Title,
			Description: in.Description,
			Outcome:     in.Outcome,
			Audience:    in.Audience,
			ShareToken:  uuid.NewString(),
		}
		if err := s.store.CreateCourse(ctx, tx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Course created", "course_id", created.ID, "user_id", actor)
	return created, nil
}

// UpdateCourseSettings applies the non-empty fields of in.
func (s *Service) UpdateCourseSettings(ctx context.Context, actor, courseID uint, in CourseInput) (*courseModels.Course, error) {
	const op = "hierarchy.UpdateCourseSettings"

	in = trimInput(in)
	fields := map[string]interface{}{}
	if in.Title != "" {
		title, err := cleanTitle(op, in.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Outcome != "" {
		fields["outcome"] = in.Outcome
	}
	if in.Audience != "" {
		fields["audience"] = in.Audience
	}
	return s.updateCourse(ctx, op, actor, courseID, fields)
}

// UpdateIntro stores the course introduction verbatim.
func (s *Service) UpdateIntro(ctx context.Context, actor, courseID uint, html string) (*courseModels.Course, error) {
	return s.updateCourse(ctx, "hierarchy.UpdateIntro", actor, courseID, map[string]interface{}{"intro_content": html})
}

// UpdateConclusion stores the course conclusion verbatim.
func (s *Service) UpdateConclusion(ctx context.Context, actor, courseID uint, html string) (*courseModels.Course, error) {
	return s.updateCourse(ctx, "hierarchy.UpdateConclusion", actor, courseID, map[string]interface{}{"conclusion_content": html})
}

func (s *Service) updateCourse(ctx context.Context, op string, actor, courseID uint, fields map[string]interface{}) (*courseModels.Course, error) {
	var updated *courseModels.Course
	err := s.transact(ctx, op, func(tx *gorm.DB) error {
		if _, err := s.authorize(ctx, tx, courseID, actor); err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := s.store.UpdateCourseFields(ctx, tx, courseID, copyFields(fields)); err != nil {
				return err
			}
		}
		c, err := s.store.GetCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCourse removes a course and its entire tree.
func (s *Service) DeleteCourse(ctx context.Context, actor, courseID uint) error {
	const op = "hierarchy.DeleteCourse"

	err := s.locked(ctx, courseModels.LevelModule, courseID, func() error {
		return s.transact(ctx, op, func(tx *gorm.DB) error {
			if _, err := s.authorize(ctx, tx, courseID, actor); err != nil {
				return err
			}
			return s.store.DeleteCourseTree(ctx, tx, courseID)
		})
	})
	if err != nil {
		return err
	}
	s.log.Info("Course deleted", "course_id", courseID, "user_id", actor)
	return nil
}

// GetCourse returns a course the actor owns.
func (s *Service) GetCourse(ctx context.Context, actor, courseID uint) (*courseModels.Course, error) {
	return s.authorize(ctx, nil, courseID, actor)
}

// ListCourses returns the actor's courses, most recently edited first.
func (s *Service) ListCourses(ctx context.Context, actor uint) ([]courseModels.Course, error) {
	return s.store.ListCoursesByUser(ctx, nil, actor)
}

// Dashboard lists the actor's courses with edit-activity counters relative
// to at.
func (s *Service) Dashboard(ctx context.Context, actor uint, at time.Time) (*Dashboard, error) {
	courses, err := s.store.ListCoursesByUser(ctx, nil, actor)
	if err != nil {
		return nil, err
	}
	day := now.With(at).BeginningOfDay()
	week := now.With(at).BeginningOfWeek()

	today, err := s.store.CountCoursesUpdatedSince(ctx, nil, actor, day)
	if err != nil {
		return nil, err
	}
	thisWeek, err := s.store.CountCoursesUpdatedSince(ctx, nil, actor, week)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Courses:         courses,
		Total:           len(courses),
		UpdatedToday:    today,
		UpdatedThisWeek: thisWeek,
	}, nil
}

func trimInput(in CourseInput) CourseInput {
	return CourseInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Outcome:     strings.TrimSpace(in.Outcome),
		Audience:    strings.TrimSpace(in.Audience),
	}
}

// copyFields guards the caller's map from the store's edits across retries.
func copyFields(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
