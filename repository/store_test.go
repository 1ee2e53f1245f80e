package repository

import (
	"context"
	"testing"

	"minicourse/apperr"
	courseModels "minicourse/models/course"
	"minicourse/ordering"
	"minicourse/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	return New(db, testutil.Logger(t)), db
}

func titles(mods []courseModels.Module) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Title
	}
	return out
}

func TestSiblingsRepositionKeepsUniqueIndex(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	u := testutil.SeedUser(t, ctx, db, "a@example.com")
	c := testutil.SeedCourse(t, ctx, db, u.ID)
	mods := testutil.SeedModules(t, ctx, db, c.ID, 4)

	err := db.Transaction(func(tx *gorm.DB) error {
		sib, err := store.Siblings(tx, courseModels.LevelModule, c.ID)
		if err != nil {
			return err
		}
		return ordering.Reposition(ctx, sib, mods[3].ID, 1)
	})
	require.NoError(t, err)

	got, err := store.ListModules(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"M4", "M1", "M2", "M3"}, titles(got))
	for i, m := range got {
		assert.Equal(t, i+1, m.Position)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		sib, err := store.Siblings(tx, courseModels.LevelModule, c.ID)
		if err != nil {
			return err
		}
		return ordering.Reposition(ctx, sib, mods[3].ID, 4)
	})
	require.NoError(t, err)

	got, err = store.ListModules(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"M1", "M2", "M3", "M4"}, titles(got))
}

func TestSiblingsRemoveCascadesAndRenumbers(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	u := testutil.SeedUser(t, ctx, db, "a@example.com")
	c := testutil.SeedCourse(t, ctx, db, u.ID)
	mods := testutil.SeedModules(t, ctx, db, c.ID, 3)
	lessons := testutil.SeedLessons(t, ctx, db, mods[1].ID, 2)
	testutil.SeedBlocks(t, ctx, db, lessons[0].ID, 3)
	testutil.SeedBlocks(t, ctx, db, lessons[1].ID, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		sib, err := store.Siblings(tx, courseModels.LevelModule, c.ID)
		if err != nil {
			return err
		}
		return ordering.Delete(ctx, sib, mods[1].ID)
	})
	require.NoError(t, err)

	got, err := store.ListModules(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"M1", "M3"}, titles(got))
	assert.Equal(t, 2, got[1].Position)

	var n int64
	require.NoError(t, db.Model(&courseModels.Lesson{}).Where("module_id = ?", mods[1].ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&courseModels.ContentBlock{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRollbackLeavesNoPartialShift(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	u := testutil.SeedUser(t, ctx, db, "a@example.com")
	c := testutil.SeedCourse(t, ctx, db, u.ID)
	mods := testutil.SeedModules(t, ctx, db, c.ID, 3)
	boom := apperr.Newf(apperr.ErrTransient, "test", "injected")

	err := db.Transaction(func(tx *gorm.DB) error {
		sib, err := store.Siblings(tx, courseModels.LevelModule, c.ID)
		if err != nil {
			return err
		}
		if err := ordering.Reposition(ctx, sib, mods[2].ID, 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, apperr.ErrTransient)

	got, err := store.ListModules(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"M1", "M2", "M3"}, titles(got))
}

func TestLockMissingParent(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	sib, err := store.Siblings(nil, courseModels.LevelLesson, 404)
	require.NoError(t, err)
	assert.ErrorIs(t, sib.Lock(ctx), apperr.ErrNotFound)

	_, err = store.Siblings(nil, courseModels.LevelCourse, 1)
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestGapIsReportedNotRepaired(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	u := testutil.SeedUser(t, ctx, db, "a@example.com")
	c := testutil.SeedCourse(t, ctx, db, u.ID)
	mods := testutil.SeedModules(t, ctx, db, c.ID, 3)
	testutil.Corrupt(t, db, "modules", mods[2].ID, 7)

	sib, err := store.Siblings(nil, courseModels.LevelModule, c.ID)
	require.NoError(t, err)
	_, err = ordering.Append(ctx, sib)
	assert.ErrorIs(t, err, apperr.ErrConsistency)

	got, err := store.ListModules(ctx, nil, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got[2].Position)
}

func TestDeleteCourseTree(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	u := testutil.SeedUser(t, ctx, db, "a@example.com")
	c := testutil.SeedCourse(t, ctx, db, u.ID)
	other := testutil.SeedCourse(t, ctx, db, u.ID)
	for _, m := range testutil.SeedModules(t, ctx, db, c.ID, 2) {
		for _, l := range testutil.SeedLessons(t, ctx, db, m.ID, 2) {
			testutil.SeedBlocks(t, ctx, db, l.ID, 2)
		}
	}
	testutil.SeedModules(t, ctx, db, other.ID, 1)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return store.DeleteCourseTree(ctx, tx, c.ID)
	}))

	_, err := store.GetCourse(ctx, nil, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&courseModels.Lesson{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&courseModels.ContentBlock{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&courseModels.Module{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, store.DeleteCourseTree(ctx, nil, c.ID), apperr.ErrNotFound)
}

func TestUpdateCourseFieldsKeepsShareToken(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	u := testutil.SeedUser(t, ctx, db, "a@example.com")
	c := testutil.SeedCourse(t, ctx, db, u.ID)

	err := store.UpdateCourseFields(ctx, nil, c.ID, map[string]interface{}{
		"title":       "Renamed",
		"share_token": "hijacked",
	})
	require.NoError(t, err)

	got, err := store.GetCourseByShareToken(ctx, nil, c.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	_, err = store.GetCourseByShareToken(ctx, nil, "hijacked")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSiblingSets(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)
	u := testutil.SeedUser(t, ctx, db, "a@example.com")
	a := testutil.SeedCourse(t, ctx, db, u.ID)
	testutil.SeedCourse(t, ctx, db, u.ID)
	b := testutil.SeedCourse(t, ctx, db, u.ID)
	testutil.SeedModules(t, ctx, db, a.ID, 2)
	testutil.SeedModules(t, ctx, db, b.ID, 1)

	ids, err := store.SiblingSets(ctx, nil, courseModels.LevelModule)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids)
}
