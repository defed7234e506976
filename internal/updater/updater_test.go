package updater

import (
	"context"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latestURL = DefaultBaseURL + "/repos/" + DefaultRepo + "/releases/latest"

func newTestService(t *testing.T, version string) *Service {
	t.Helper()
	s := NewService(version, "", nil)
	httpmock.ActivateNonDefault(s.HTTPClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return s
}

func TestCheckForUpdates(t *testing.T) {
	var tests = []struct {
		name      string
		current   string
		release   map[string]interface{}
		available bool
		latest    string
	}{
		{"newer release", "v1.2.0", map[string]interface{}{"tag_name": "v1.3.0", "html_url": "https://example.com/r"}, true, "v1.3.0"},
		{"same release", "1.3.0", map[string]interface{}{"tag_name": "v1.3.0"}, false, "v1.3.0"},
		{"older release", "v2.0.0", map[string]interface{}{"tag_name": "v1.9.9"}, false, "v1.9.9"},
		{"prerelease skipped", "v1.0.0", map[string]interface{}{"tag_name": "v2.0.0-rc.1", "prerelease": true}, false, ""},
		{"unparsable tag", "v1.0.0", map[string]interface{}{"tag_name": "nightly"}, false, "nightly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, tt.current)
			httpmock.RegisterResponder("GET", latestURL, httpmock.NewJsonResponderOrPanic(200, tt.release))

			info, err := s.CheckForUpdates(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.available, info.UpdateAvailable)
			assert.Equal(t, tt.latest, info.LatestVersion)
			assert.Equal(t, tt.current, info.CurrentVersion)
		})
	}
}

func TestCheckForUpdatesSkipsDevBuilds(t *testing.T) {
	s := newTestService(t, "dev")

	info, err := s.CheckForUpdates(context.Background())
	require.NoError(t, err)
	assert.False(t, info.UpdateAvailable)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestCheckForUpdatesUpstreamError(t *testing.T) {
	s := newTestService(t, "v1.0.0")
	httpmock.RegisterResponder("GET", latestURL, httpmock.NewStringResponder(403, "rate limited"))

	_, err := s.CheckForUpdates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestIsNewerVersion(t *testing.T) {
	newer, err := IsNewerVersion("v0.9.0", "0.10.0")
	require.NoError(t, err)
	assert.True(t, newer)

	_, err = IsNewerVersion("not-a-version", "v1.0.0")
	assert.Error(t, err)
}
