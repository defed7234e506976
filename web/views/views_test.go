package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/pagination"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestStatusBadgeClass(t *testing.T) {
	tests := []struct {
		status models.AppStatus
		want   string
	}{
		{models.AppStatusRunning, "bg-green-100"},
		{models.AppStatusStopped, "bg-red-100"},
		{models.AppStatusRestarting, "bg-yellow-100"},
		{models.AppStatusDeploying, "bg-yellow-100"},
		{models.AppStatusNew, "bg-gray-100"},
	}
	for _, tt := range tests {
		got := StatusBadgeClass(tt.status)
		if !strings.Contains(got, tt.want) {
			t.Errorf("StatusBadgeClass(%q) = %q, want it to contain %q", tt.status, got, tt.want)
		}
		if tt.want != "bg-gray-100" && strings.Contains(got, "bg-gray-100") {
			t.Errorf("StatusBadgeClass(%q) = %q kept the default background", tt.status, got)
		}
	}
}

func TestDeploymentBadgeClass(t *testing.T) {
	if got := DeploymentBadgeClass(models.DeploymentStatusSuccess); !strings.Contains(got, "text-green-800") {
		t.Errorf("success badge = %q", got)
	}
	for _, s := range []models.DeploymentStatus{
		models.DeploymentStatusBuildError, models.DeploymentStatusCrashed,
		models.DeploymentStatusTimeout, models.DeploymentStatusAborted,
	} {
		if got := DeploymentBadgeClass(s); !strings.Contains(got, "bg-red-100") {
			t.Errorf("%s badge = %q", s, got)
		}
	}
}

func TestLevelClass(t *testing.T) {
	want := map[models.LogLevel]string{
		models.LogLevelError: "text-red-400",
		models.LogLevelWarn:  "text-yellow-400",
		models.LogLevelInfo:  "text-blue-400",
		"debug":              "text-gray-400",
		"":                   "text-gray-300",
	}
	for level, class := range want {
		if got := LevelClass(level); got != class {
			t.Errorf("LevelClass(%q) = %q, want %q", level, got, class)
		}
	}
}

func TestPageURL(t *testing.T) {
	if got := PageURL("/", 3); got != "/?page=3" {
		t.Errorf("PageURL(/) = %q", got)
	}
	if got := PageURL("/?q=api&page=1", 2); got != "/?page=2&q=api" {
		t.Errorf("PageURL with query = %q", got)
	}
}

func TestPager(t *testing.T) {
	meta, err := pagination.Paginate(100, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	html := render(t, Pager("/", meta))

	for _, want := range []string{
		`aria-current="page">2<`,
		`href="/?page=1">Previous`,
		`href="/?page=3">Next`,
		`href="/?page=10">10`,
		`…`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("pager missing %q:\n%s", want, html)
		}
	}

	if html := render(t, Pager("/", pagination.Empty())); html != "" {
		t.Errorf("single page pager = %q, want empty", html)
	}
}

func TestDashboardEscapesAndLinks(t *testing.T) {
	deployed := time.Now().Add(-2 * time.Hour)
	meta, _ := pagination.Paginate(7, 1, AppsPerPage)
	html := render(t, Dashboard(DashboardData{
		Email: "ops@example.com",
		Query: `<script>`,
		Applications: []models.Application{
			{ID: "app-123456", Name: "billing<api>", Status: models.AppStatusRunning, Region: "osc-fr1", LastDeployedAt: &deployed},
		},
		Pagination: meta,
	}))

	if strings.Contains(html, "<script>\"") || strings.Contains(html, "billing<api>") {
		t.Error("user content was not escaped")
	}
	for _, want := range []string{
		`href="/applications/app-123456"`,
		`billing&lt;api&gt;`,
		`2 hours ago`,
		`ops@example.com`,
		`page=2&amp;q=%3Cscript%3E`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestDashboardEmptySearch(t *testing.T) {
	html := render(t, Dashboard(DashboardData{Query: "nothing", Pagination: pagination.Empty()}))
	if !strings.Contains(html, "No applications match") {
		t.Errorf("empty search message missing:\n%s", html)
	}
}

func TestDetailTabs(t *testing.T) {
	app := models.Application{ID: "app-123456", Name: "billing", Status: models.AppStatusRunning}

	logs := render(t, Detail(DetailData{
		App: app, Tab: TabLogs, Lines: 100,
		Logs: []models.LogEntry{{Timestamp: "12:10:47", Source: "[web-1]", Level: models.LogLevelError, Message: "Failed <hard>"}},
	}))
	for _, want := range []string{`class="text-red-400"`, `Failed &lt;hard&gt;`, `/logs/ws`, `value="restart"`, `value="stop"`} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs tab missing %q", want)
		}
	}
	if strings.Contains(logs, `value="start"`) {
		t.Error("running application offers start")
	}

	next := 2
	deployments := render(t, Detail(DetailData{
		App: app, Tab: TabDeployments,
		Deployments: &models.DeploymentPage{
			Deployments: []models.Deployment{{ID: "dep-1", AppID: app.ID, GitRef: "0123456789abcdef", Status: models.DeploymentStatusCrashed, ImageSize: 52428800}},
			Meta:        models.DeploymentMeta{Pagination: models.Pagination{CurrentPage: 1, NextPage: &next, TotalPages: 2, TotalCount: 25}},
		},
	}))
	for _, want := range []string{`>01234567<`, `52 MB`, `/deployments/dep-1/output`, `tab=deployments`} {
		if !strings.Contains(deployments, want) {
			t.Errorf("deployments tab missing %q", want)
		}
	}

	domains := []models.Domain{{ID: "d1", Name: "a.example.com"}, {ID: "d2", Name: "b.example.com", SSL: true}}
	domainHTML := render(t, Detail(DetailData{App: app, Tab: TabDomains, Domains: domains, Primary: models.PrimaryDomain(domains)}))
	if !strings.Contains(domainHTML, `href="https://b.example.com"`) || !strings.Contains(domainHTML, "primary") {
		t.Errorf("domains tab:\n%s", domainHTML)
	}

	actions := render(t, Detail(DetailData{App: app, Tab: TabActions, Actions: []*models.ActionRecord{
		{Action: models.AppActionStop, Actor: "ops@example.com", Success: false, CreatedAt: time.Now()},
	}}))
	if !strings.Contains(actions, "Stop by ops@example.com") || !strings.Contains(actions, "failed") {
		t.Errorf("actions tab:\n%s", actions)
	}
}

func TestLogin(t *testing.T) {
	html := render(t, Login(LoginData{Email: `a"b@example.com`, Error: "Invalid email or password"}))
	if !strings.Contains(html, `value="a&#34;b@example.com"`) {
		t.Errorf("email not escaped:\n%s", html)
	}
	if !strings.Contains(html, "Invalid email or password") {
		t.Error("error message missing")
	}
}
