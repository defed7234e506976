// Package updater checks whether a newer scalingoctl release has been published.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultRepo is the GitHub repository releases are published to.
	DefaultRepo = "narvanalabs/scalingo-dashboard"
	// DefaultBaseURL is the GitHub REST API.
	DefaultBaseURL = "https://api.github.com"
)

// Service handles version checking.
type Service struct {
	currentVersion string
	repo           string
	http           *resty.Client
	logger         *slog.Logger
}

// NewService creates a new updater service for currentVersion.
func NewService(currentVersion, repo string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if repo == "" {
		repo = DefaultRepo
	}
	return &Service{
		currentVersion: currentVersion,
		repo:           repo,
		logger:         logger,
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/vnd.github.v3+json").
			SetHeader("User-Agent", "scalingoctl"),
	}
}

// HTTPClient returns the underlying resty client.
func (s *Service) HTTPClient() *resty.Client {
	return s.http
}

// UpdateInfo contains information about available updates.
type UpdateInfo struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateAvailable bool   `json:"update_available"`
	ReleaseURL      string `json:"release_url,omitempty"`
	PublishedAt     string `json:"published_at,omitempty"`
}

type githubRelease struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
	Prerelease  bool      `json:"prerelease"`
	Draft       bool      `json:"draft"`
}

// CheckForUpdates fetches the latest release and compares it with the
// current version. Development builds are never reported as outdated.
func (s *Service) CheckForUpdates(ctx context.Context) (*UpdateInfo, error) {
	info := &UpdateInfo{CurrentVersion: s.currentVersion}

	if s.currentVersion == "" || s.currentVersion == "dev" {
		s.logger.Debug("skipping update check for dev version")
		return info, nil
	}

	var release githubRelease
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&release).
		Get("/repos/" + s.repo + "/releases/latest")
	if err != nil {
		return info, fmt.Errorf("fetching latest release: %w", err)
	}
	if !resp.IsSuccess() {
		return info, fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	if release.Draft || release.Prerelease {
		s.logger.Debug("latest release is draft or prerelease, skipping", "tag", release.TagName)
		return info, nil
	}

	info.LatestVersion = release.TagName
	info.ReleaseURL = release.HTMLURL
	if !release.PublishedAt.IsZero() {
		info.PublishedAt = release.PublishedAt.Format(time.RFC3339)
	}

	newer, err := IsNewerVersion(s.currentVersion, release.TagName)
	if err != nil {
		s.logger.Warn("failed to compare versions", "error", err)
		return info, nil
	}
	info.UpdateAvailable = newer
	return info, nil
}

// IsNewerVersion reports whether latest is a higher semantic version than
// current. A leading "v" is accepted on either side.
func IsNewerVersion(current, latest string) (bool, error) {
	currentVer, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	latestVer, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid latest version %q: %w", latest, err)
	}
	return latestVer.GreaterThan(currentVer), nil
}
