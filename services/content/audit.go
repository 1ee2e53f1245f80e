package content

import (
	"context"
	"errors"

	"minicourse/apperr"
	courseModels "minicourse/models/course"
	"minicourse/ordering"
)

// Finding is one sibling set whose positions are not exactly 1..N.
type Finding struct {
	Level    courseModels.Level `json:"level"`
	ParentID uint               `json:"parent_id"`
	Detail   string             `json:"detail"`
}

// Audit scans every sibling set in the store. It never repairs anything;
// findings are logged at error level and returned.
func (f *Facade) Audit(ctx context.Context) ([]Finding, error) {
	var findings []Finding
	for _, level := range []courseModels.Level{courseModels.LevelModule, courseModels.LevelLesson, courseModels.LevelBlock} {
		parents, err := f.store.SiblingSets(ctx, nil, level)
		if err != nil {
			return nil, err
		}
		for _, parentID := range parents {
			if err := ctx.Err(); err != nil {
				return findings, err
			}
			sib, err := f.store.Siblings(nil, level, parentID)
			if err != nil {
				return nil, err
			}
			items, err := sib.Positions(ctx)
			if err != nil {
				return nil, err
			}
			if err := ordering.Verify(items); err != nil {
				if !errors.Is(err, apperr.ErrConsistency) {
					return nil, err
				}
				finding := Finding{Level: level, ParentID: parentID, Detail: err.Error()}
				f.log.Error("Ordering audit finding", "level", level, "parent_id", parentID, "detail", finding.Detail)
				findings = append(findings, finding)
			}
		}
	}
	f.log.Info("Ordering audit finished", "findings", len(findings))
	return findings, nil
}
