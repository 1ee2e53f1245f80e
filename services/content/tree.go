// Package content assembles read-only views of a course: the owner's editor
// tree, the public share view and exports. Every sibling set is verified on
// the way out; a corrupt set fails the whole read.
package content

import (
	"context"
	"encoding/json"

	"minicourse/apperr"
	"minicourse/logger"
	courseModels "minicourse/models/course"
	"minicourse/ordering"
	"minicourse/repository"

	"gorm.io/gorm"
)

type BlockNode struct {
	ID       uint                   `json:"id,omitempty" yaml:"id,omitempty"`
	Kind     courseModels.BlockKind `json:"block_type" yaml:"block_type"`
	Position int                    `json:"position" yaml:"position"`
	Content  map[string]interface{} `json:"content" yaml:"content"`
}

type LessonNode struct {
	ID       uint        `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string      `json:"title" yaml:"title"`
	Position int         `json:"position" yaml:"position"`
	Blocks   []BlockNode `json:"blocks" yaml:"blocks"`
}

type ModuleNode struct {
	ID       uint         `json:"id,omitempty" yaml:"id,omitempty"`
	Title    string       `json:"title" yaml:"title"`
	Position int          `json:"position" yaml:"position"`
	Lessons  []LessonNode `json:"lessons" yaml:"lessons"`
}

// CourseTree is a course with its whole hierarchy in position order.
type CourseTree struct {
	ID                uint         `json:"id,omitempty" yaml:"id,omitempty"`
	ShareToken        string       `json:"share_token,omitempty" yaml:"share_token,omitempty"`
	Title             string       `json:"title" yaml:"title"`
	Description       string       `json:"description" yaml:"description"`
	Outcome           string       `json:"outcome" yaml:"outcome"`
	Audience          string       `json:"audience" yaml:"audience"`
	IntroContent      string       `json:"intro_content" yaml:"intro_content"`
	ConclusionContent string       `json:"conclusion_content" yaml:"conclusion_content"`
	Modules           []ModuleNode `json:"modules" yaml:"modules"`
}

type Facade struct {
	store *repository.Store
	log   *logger.Logger
}

func New(store *repository.Store, baseLog *logger.Logger) *Facade {
	return &Facade{store: store, log: baseLog.With("service", "ContentFacade")}
}

// Tree returns the owner's view of a course, internal ids included.
func (f *Facade) Tree(ctx context.Context, actor, courseID uint) (*CourseTree, error) {
	const op = "content.Tree"

	var tree *CourseTree
	err := f.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := f.store.GetCourse(ctx, tx, courseID)
		if err != nil {
			return err
		}
		if c.UserID != actor {
			return apperr.Newf(apperr.ErrForbidden, op, "user %d does not own course %d", actor, courseID)
		}
		tree, err = f.assemble(ctx, tx, op, c, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// PublicTree returns the read-only view addressed by share token. No
// internal identifier appears in it.
func (f *Facade) PublicTree(ctx context.Context, shareToken string) (*CourseTree, error) {
	const op = "content.PublicTree"

	var tree *CourseTree
	err := f.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := f.store.GetCourseByShareToken(ctx, tx, shareToken)
		if err != nil {
			return err
		}
		tree, err = f.assemble(ctx, tx, op, c, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (f *Facade) assemble(ctx context.Context, tx *gorm.DB, op string, c *courseModels.Course, withIDs bool) (*CourseTree, error) {
	modules, err := f.store.ListModules(ctx, tx, c.ID)
	if err != nil {
		return nil, err
	}
	if err := f.verify(op, courseModels.LevelModule, c.ID, ordering.ItemsOf(modules, moduleItem)); err != nil {
		return nil, err
	}

	moduleIDs := make([]uint, len(modules))
	for i, m := range modules {
		moduleIDs[i] = m.ID
	}
	lessons, err := f.store.ListLessonsByModules(ctx, tx, moduleIDs)
	if err != nil {
		return nil, err
	}
	lessonsByModule := make(map[uint][]courseModels.Lesson, len(modules))
	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonsByModule[l.ModuleID] = append(lessonsByModule[l.ModuleID], l)
		lessonIDs[i] = l.ID
	}

	blocks, err := f.store.ListBlocksByLessons(ctx, tx, lessonIDs)
	if err != nil {
		return nil, err
	}
	blocksByLesson := make(map[uint][]courseModels.ContentBlock, len(lessons))
	for _, b := range blocks {
		blocksByLesson[b.LessonID] = append(blocksByLesson[b.LessonID], b)
	}

	tree := &CourseTree{
		Title:             c.Title,
		Description:       c.Description,
		Outcome:           c.Outcome,
		Audience:          c.Audience,
		IntroContent:      c.IntroContent,
		ConclusionContent: c.ConclusionContent,
		Modules:           make([]ModuleNode, 0, len(modules)),
	}
	if withIDs {
		tree.ID = c.ID
		tree.ShareToken = c.ShareToken
	}

	for _, m := range modules {
		ls := lessonsByModule[m.ID]
		if err := f.verify(op, courseModels.LevelLesson, m.ID, ordering.ItemsOf(ls, lessonItem)); err != nil {
			return nil, err
		}
		mn := ModuleNode{Title: m.Title, Position: m.Position, Lessons: make([]LessonNode, 0, len(ls))}
		if withIDs {
			mn.ID = m.ID
		}

		for _, l := range ls {
			bs := blocksByLesson[l.ID]
			if err := f.verify(op, courseModels.LevelBlock, l.ID, ordering.ItemsOf(bs, blockItem)); err != nil {
				return nil, err
			}
			ln := LessonNode{Title: l.Title, Position: l.Position, Blocks: make([]BlockNode, 0, len(bs))}
			if withIDs {
				ln.ID = l.ID
			}

			for _, b := range bs {
				bn := BlockNode{Kind: b.Kind, Position: b.Position, Content: map[string]interface{}{}}
				if withIDs {
					bn.ID = b.ID
				}
				if len(b.Content) > 0 {
					if err := json.Unmarshal(b.Content, &bn.Content); err != nil {
						return nil, apperr.Newf(apperr.ErrConsistency, op, "block %d content is not a JSON object: %v", b.ID, err)
					}
				}
				ln.Blocks = append(ln.Blocks, bn)
			}
			mn.Lessons = append(mn.Lessons, ln)
		}
		tree.Modules = append(tree.Modules, mn)
	}
	return tree, nil
}

func (f *Facade) verify(op string, level courseModels.Level, parentID uint, items []ordering.Item) error {
	if err := ordering.Verify(items); err != nil {
		f.log.Error("Ordering consistency violation", "op", op, "level", level, "parent_id", parentID, "error", err)
		return apperr.New(apperr.ErrConsistency, op, err)
	}
	return nil
}

func moduleItem(m courseModels.Module) ordering.Item {
	return ordering.Item{ID: m.ID, Position: m.Position}
}

func lessonItem(l courseModels.Lesson) ordering.Item {
	return ordering.Item{ID: l.ID, Position: l.Position}
}

func blockItem(b courseModels.ContentBlock) ordering.Item {
	return ordering.Item{ID: b.ID, Position: b.Position}
}
