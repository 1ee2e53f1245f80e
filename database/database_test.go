package database_test

import (
	"testing"

	"minicourse/database"
	"minicourse/logger"
	"minicourse/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnectAndMigrateLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	db, err := database.Connect(testutil.Config(t), log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, database.Migrate(db, log))

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{"Connected to database", "Running migrations", "Migrations completed"}, messages)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	cfg := testutil.Config(t)
	cfg.DBDriver = "oracle"
	_, err := database.Connect(cfg, logger.Nop())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
