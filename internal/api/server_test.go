package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/narvanalabs/scalingo-dashboard/internal/audit"
	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
	"github.com/narvanalabs/scalingo-dashboard/internal/store/memory"
	"github.com/narvanalabs/scalingo-dashboard/pkg/config"
)

type stubScalingo struct{ pingErr error }

func (stubScalingo) ListApps(context.Context) ([]models.Application, error) {
	return []models.Application{{ID: "app-000001", Name: "billing", Status: models.AppStatusRunning}}, nil
}

func (stubScalingo) GetApp(_ context.Context, id string) (*models.Application, error) {
	return &models.Application{ID: id, Name: "billing", Status: models.AppStatusRunning}, nil
}

func (stubScalingo) Logs(context.Context, string, int) ([]models.LogEntry, error) {
	return nil, nil
}

func (stubScalingo) PerformAction(context.Context, string, models.AppAction) error {
	return nil
}

func (stubScalingo) ListDeployments(context.Context, string, int) (*models.DeploymentPage, error) {
	return &models.DeploymentPage{}, nil
}

func (stubScalingo) DeploymentOutput(context.Context, string, string) (*models.DeploymentOutput, error) {
	return &models.DeploymentOutput{}, nil
}

func (stubScalingo) ListDomains(context.Context, string) ([]models.Domain, error) {
	return nil, nil
}

func (s stubScalingo) Ping(context.Context) error {
	return s.pingErr
}

func newTestServer(t *testing.T, api stubScalingo) (*Server, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager(session.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Expiry:     time.Hour,
		AdminEmail: "ops@example.com",
	}, logger)
	token, _, err := sessions.Issue("ops@example.com")
	if err != nil {
		t.Fatal(err)
	}

	st := memory.New(0)
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Logs:   config.LogsConfig{DefaultLines: 100, PollInterval: time.Second},
	}
	srv := NewServer(cfg, Deps{
		Scalingo:       api,
		Sessions:       sessions,
		Audit:          audit.NewRecorder(st.Actions(), nil),
		ScalingoPinger: api,
		StorePinger:    st,
	}, logger)
	return srv, token
}

func TestServerRoutes(t *testing.T) {
	srv, token := newTestServer(t, stubScalingo{})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"api requires a session", http.MethodGet, "/api/scalingo/applications", "", http.StatusUnauthorized},
		{"api with session", http.MethodGet, "/api/scalingo/applications", token, http.StatusOK},
		{"app detail", http.MethodGet, "/api/scalingo/applications/app-000001", token, http.StatusOK},
		{"deployments", http.MethodGet, "/api/scalingo/applications/app-000001/deployments?page=2", token, http.StatusOK},
		{"dashboard redirects to login", http.MethodGet, "/", "", http.StatusSeeOther},
		{"dashboard with session", http.MethodGet, "/", token, http.StatusOK},
		{"login page", http.MethodGet, "/login", "", http.StatusOK},
		{"me", http.MethodGet, "/auth/me", token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.token})
			}
			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rr.Code, tt.status)
			}
		})
	}
}

func TestServerAPISecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, stubScalingo{})

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/scalingo/applications/app-000001/deployments", nil))

	if rr.Header().Get("X-Frame-Options") != "DENY" || rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("headers = %v", rr.Header())
	}
}

func TestServerHealthUnhealthyUpstream(t *testing.T) {
	srv, _ := newTestServer(t, stubScalingo{pingErr: errors.New("connection refused")})

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}
