// Package store provides storage interfaces for the dashboard's own data.
// Everything about applications lives upstream; only the action audit trail is stored here.
package store

import (
	"context"
	"errors"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// ErrDuplicateKey is returned when a record with the same ID already exists.
var ErrDuplicateKey = errors.New("duplicate key")

// DefaultListLimit bounds listings when the caller passes a non-positive limit.
const DefaultListLimit = 50

// ActionStore defines operations for the lifecycle action audit trail.
type ActionStore interface {
	// Create records a lifecycle action.
	Create(ctx context.Context, record *models.ActionRecord) error
	// ListByApp retrieves the most recent actions of one application, newest first.
	ListByApp(ctx context.Context, appID string, limit int) ([]*models.ActionRecord, error)
	// ListByApps retrieves the most recent actions across several applications, newest first.
	ListByApps(ctx context.Context, appIDs []string, limit int) ([]*models.ActionRecord, error)
}

// Store is the main interface for storage operations.
type Store interface {
	// Actions returns the ActionStore for audit operations.
	Actions() ActionStore
	// Ping checks that the backing storage is reachable.
	Ping(ctx context.Context) error
	// Close releases the backing storage.
	Close() error
}

// NormalizeLimit returns limit, or DefaultListLimit when limit is not positive.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
