package utils

import (
	"context"
	"errors"
	"testing"

	courseModels "minicourse/models/course"
	"minicourse/services/content"
	"minicourse/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditor struct {
	findings []content.Finding
	err      error
	calls    int
}

func (f *fakeAuditor) Audit(context.Context) ([]content.Finding, error) {
	f.calls++
	return f.findings, f.err
}

func TestInitializeAuditScheduler(t *testing.T) {
	log := testutil.Logger(t)

	c, err := InitializeAuditScheduler("", &fakeAuditor{}, log)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = InitializeAuditScheduler("every now and then", &fakeAuditor{}, log)
	assert.Error(t, err)

	c, err = InitializeAuditScheduler("@every 1h", &fakeAuditor{}, log)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}

func TestRunAudit(t *testing.T) {
	ctx := context.Background()
	log := testutil.Logger(t)

	a := &fakeAuditor{findings: []content.Finding{{Level: courseModels.LevelLesson, ParentID: 7, Detail: "gap"}}}
	assert.Equal(t, 1, RunAudit(ctx, a, log))
	assert.Equal(t, 1, a.calls)

	assert.Equal(t, 0, RunAudit(ctx, &fakeAuditor{err: errors.New("db down")}, log))
}
