package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/store"
)

// ActionStore implements store.ActionStore using PostgreSQL.
type ActionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Create records a lifecycle action.
func (s *ActionStore) Create(ctx context.Context, record *models.ActionRecord) error {
	query := `
		INSERT INTO app_actions (id, app_id, action, actor, success, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.AppID,
		string(record.Action),
		record.Actor,
		record.Success,
		nullString(record.Error),
		record.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateKey
		}
		return fmt.Errorf("inserting action record: %w", err)
	}

	return nil
}

// ListByApp retrieves the most recent actions of one application.
func (s *ActionStore) ListByApp(ctx context.Context, appID string, limit int) ([]*models.ActionRecord, error) {
	query := `
		SELECT id, app_id, action, actor, success, error, created_at
		FROM app_actions
		WHERE app_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, appID, store.NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying actions: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

// ListByApps retrieves the most recent actions across several applications.
func (s *ActionStore) ListByApps(ctx context.Context, appIDs []string, limit int) ([]*models.ActionRecord, error) {
	if len(appIDs) == 0 {
		return []*models.ActionRecord{}, nil
	}

	query := `
		SELECT id, app_id, action, actor, success, error, created_at
		FROM app_actions
		WHERE app_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(appIDs), store.NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying actions by apps: %w", err)
	}
	defer rows.Close()

	return scanActions(rows)
}

func scanActions(rows *sql.Rows) ([]*models.ActionRecord, error) {
	records := []*models.ActionRecord{}
	for rows.Next() {
		var (
			r       models.ActionRecord
			action  string
			errText sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.AppID, &action, &r.Actor, &r.Success, &errText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning action record: %w", err)
		}
		r.Action = models.AppAction(action)
		r.Error = errText.String
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating action records: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
