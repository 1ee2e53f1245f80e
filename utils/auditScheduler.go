package utils

import (
	"context"
	"time"

	"minicourse/logger"
	"minicourse/services/content"

	"github.com/robfig/cron/v3"
)

// auditTimeout bounds a single scheduled scan.
const auditTimeout = 5 * time.Minute

// Auditor scans every sibling set and reports the ones that are not dense.
type Auditor interface {
	Audit(ctx context.Context) ([]content.Finding, error)
}

// InitializeAuditScheduler runs the ordering audit on spec. An empty spec
// disables the scheduler and returns nil.
func InitializeAuditScheduler(spec string, auditor Auditor, baseLog *logger.Logger) (*cron.Cron, error) {
	log := baseLog.With("scheduler", "AUDIT-SCHEDULER")
	if spec == "" {
		log.Info("[AUDIT-SCHEDULER] Disabled, no schedule configured")
		return nil, nil
	}

	log.Info("[AUDIT-SCHEDULER] Initializing ordering audit scheduler...", "schedule", spec)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		RunAudit(ctx, auditor, log)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info("[AUDIT-SCHEDULER] Ordering audit scheduler started", "schedule", spec)
	return c, nil
}

// RunAudit performs one scan and returns the number of findings. Findings
// are reported, never repaired.
func RunAudit(ctx context.Context, auditor Auditor, log *logger.Logger) int {
	log.Debug("[AUDIT-SCHEDULER] Running ordering audit...")

	findings, err := auditor.Audit(ctx)
	if err != nil {
		log.Error("[AUDIT-SCHEDULER] Ordering audit failed", "error", err)
		return 0
	}
	if len(findings) > 0 {
		log.Error("[AUDIT-SCHEDULER] Ordering audit found corrupt sibling sets", "count", len(findings))
	}
	return len(findings)
}
