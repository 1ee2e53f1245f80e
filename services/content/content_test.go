package content

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"minicourse/apperr"
	courseModels "minicourse/models/course"
	"minicourse/repository"
	"minicourse/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type seeded struct {
	ctx     context.Context
	db      *gorm.DB
	facade  *Facade
	ownerID uint
	course  *courseModels.Course
	modules []courseModels.Module
	lessons []courseModels.Lesson
}

func seedTree(t *testing.T) *seeded {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, ctx, db, "owner@example.com")
	c := testutil.SeedCourse(t, ctx, db, owner.ID)
	mods := testutil.SeedModules(t, ctx, db, c.ID, 2)
	lessons := testutil.SeedLessons(t, ctx, db, mods[0].ID, 2)
	testutil.SeedBlocks(t, ctx, db, lessons[1].ID, 2)

	return &seeded{
		ctx:     ctx,
		db:      db,
		facade:  New(repository.New(db, testutil.Logger(t)), testutil.Logger(t)),
		ownerID: owner.ID,
		course:  c,
		modules: mods,
		lessons: lessons,
	}
}

func TestTreeIsOrderedAndComplete(t *testing.T) {
	s := seedTree(t)

	tree, err := s.facade.Tree(s.ctx, s.ownerID, s.course.ID)
	require.NoError(t, err)

	assert.Equal(t, s.course.ID, tree.ID)
	assert.Equal(t, s.course.ShareToken, tree.ShareToken)
	require.Len(t, tree.Modules, 2)
	assert.Equal(t, "M1", tree.Modules[0].Title)
	assert.Empty(t, tree.Modules[1].Lessons)
	require.Len(t, tree.Modules[0].Lessons, 2)

	second := tree.Modules[0].Lessons[1]
	assert.Equal(t, s.lessons[1].ID, second.ID)
	require.Len(t, second.Blocks, 2)
	assert.Equal(t, 1, second.Blocks[0].Position)
	assert.Equal(t, "<p>B2</p>", second.Blocks[1].Content["html"])

	_, err = s.facade.Tree(s.ctx, s.ownerID+100, s.course.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestPublicTreeHidesIdentifiers(t *testing.T) {
	s := seedTree(t)

	tree, err := s.facade.PublicTree(s.ctx, s.course.ShareToken)
	require.NoError(t, err)

	body, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"id"`)
	assert.NotContains(t, string(body), "share_token")
	assert.Contains(t, string(body), `"block_type":"text"`)

	_, err = s.facade.PublicTree(s.ctx, "no-such-token")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTreeFailsOnCorruptSiblingSet(t *testing.T) {
	s := seedTree(t)
	testutil.Corrupt(t, s.db, "lessons", s.lessons[1].ID, 5)

	_, err := s.facade.Tree(s.ctx, s.ownerID, s.course.ID)
	assert.ErrorIs(t, err, apperr.ErrConsistency)
	_, err = s.facade.PublicTree(s.ctx, s.course.ShareToken)
	assert.ErrorIs(t, err, apperr.ErrConsistency)
}

func TestExport(t *testing.T) {
	s := seedTree(t)

	body, contentType, err := s.facade.Export(s.ctx, s.ownerID, s.course.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	var fromJSON CourseTree
	require.NoError(t, json.Unmarshal(body, &fromJSON))
	assert.Len(t, fromJSON.Modules, 2)

	body, contentType, err = s.facade.Export(s.ctx, s.ownerID, s.course.ID, "YAML")
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", contentType)
	assert.True(t, strings.Contains(string(body), "block_type: text"))
	var fromYAML CourseTree
	require.NoError(t, yaml.Unmarshal(body, &fromYAML))
	assert.Equal(t, fromJSON.Modules[0].Lessons[1].Title, fromYAML.Modules[0].Lessons[1].Title)

	_, _, err = s.facade.Export(s.ctx, s.ownerID, s.course.ID, "xml")
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestAuditReportsWithoutRepairing(t *testing.T) {
	s := seedTree(t)

	findings, err := s.facade.Audit(s.ctx)
	require.NoError(t, err)
	assert.Empty(t, findings)

	testutil.Corrupt(t, s.db, "modules", s.modules[1].ID, 4)
	findings, err = s.facade.Audit(s.ctx)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, courseModels.LevelModule, findings[0].Level)
	assert.Equal(t, s.course.ID, findings[0].ParentID)

	var m courseModels.Module
	require.NoError(t, s.db.First(&m, s.modules[1].ID).Error)
	assert.Equal(t, 4, m.Position)
}
