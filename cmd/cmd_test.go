package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"minicourse/services/content"
	"minicourse/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateThenAudit(t *testing.T) {
	cfg := testutil.Config(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", cfg.DBName)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("AI_SERVICE_URL", "")

	_, err := run(t, "migrate")
	require.NoError(t, err)

	out, err := run(t, "audit")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	ctx := context.Background()
	db := testutil.DBWith(t, cfg)
	user := testutil.SeedUser(t, ctx, db, "cli@example.com")
	course := testutil.SeedCourse(t, ctx, db, user.ID)
	mods := testutil.SeedModules(t, ctx, db, course.ID, 2)
	testutil.Corrupt(t, db, "modules", mods[1].ID, 5)

	out, err = run(t, "audit")
	require.Error(t, err)

	var findings []content.Finding
	require.NoError(t, json.Unmarshal([]byte(out), &findings), out)
	require.Len(t, findings, 1)
	assert.Equal(t, course.ID, findings[0].ParentID)
}
