// Package audit records lifecycle actions triggered from the dashboard.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/store"
	"github.com/narvanalabs/scalingo-dashboard/pkg/logger"
)

// Recorder writes action outcomes to an ActionStore.
type Recorder struct {
	store  store.ActionStore
	logger *logger.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder backed by s.
func NewRecorder(s store.ActionStore, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Discard()
	}
	return &Recorder{
		store:  s,
		logger: log.WithComponent("audit"),
		now:    time.Now,
	}
}

// Record stores the outcome of action on appID performed by actor.
// A failing store is logged and does not fail the action itself.
func (r *Recorder) Record(ctx context.Context, appID string, action models.AppAction, actor string, actionErr error) *models.ActionRecord {
	record := &models.ActionRecord{
		ID:        uuid.NewString(),
		AppID:     appID,
		Action:    action,
		Actor:     actor,
		Success:   actionErr == nil,
		CreatedAt: r.now().UTC(),
	}
	if actionErr != nil {
		record.Error = actionErr.Error()
	}

	if err := r.store.Create(ctx, record); err != nil {
		r.logger.WithContext(ctx).WithApp(appID).WithError(err).Error("failed to record action",
			"action", action,
		)
	}
	return record
}

// History returns the most recent actions of appID.
func (r *Recorder) History(ctx context.Context, appID string, limit int) ([]*models.ActionRecord, error) {
	return r.store.ListByApp(ctx, appID, limit)
}

// Recent returns the most recent actions across appIDs.
func (r *Recorder) Recent(ctx context.Context, appIDs []string, limit int) ([]*models.ActionRecord, error) {
	return r.store.ListByApps(ctx, appIDs, limit)
}
