package models

import "time"

// ActionRecord is an audit trail entry for a lifecycle action
// triggered from the dashboard.
type ActionRecord struct {
	ID        string    `json:"id"`
	AppID     string    `json:"app_id"`
	Action    AppAction `json:"action"`
	Actor     string    `json:"actor"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
