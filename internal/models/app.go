// Package models provides data models for the Scalingo dashboard.
package models

import (
	"strings"
	"time"
)

// Application is a Scalingo application as returned by the apps API.
type Application struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"created_at"`
	LastDeployedAt *time.Time `json:"last_deployed_at,omitempty"`
	URL            string     `json:"url,omitempty"`
	Status         AppStatus  `json:"status"`
	Region         string     `json:"region"`
	GitURL         string     `json:"git_url,omitempty"`
	Stack          string     `json:"stack,omitempty"`
	Instances      int        `json:"instances,omitempty"`
}

// FilterApplications returns the applications whose name contains term,
// compared case-insensitively. An empty term returns apps unchanged.
func FilterApplications(apps []Application, term string) []Application {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return apps
	}

	filtered := make([]Application, 0, len(apps))
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Name), term) {
			filtered = append(filtered, app)
		}
	}
	return filtered
}
