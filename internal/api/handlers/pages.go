package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/narvanalabs/scalingo-dashboard/internal/api/middleware"
	"github.com/narvanalabs/scalingo-dashboard/internal/audit"
	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/pagination"
	"github.com/narvanalabs/scalingo-dashboard/internal/session"
	"github.com/narvanalabs/scalingo-dashboard/internal/store"
	"github.com/narvanalabs/scalingo-dashboard/web/views"
)

// PageHandler serves the server-rendered dashboard pages.
type PageHandler struct {
	scalingo     ScalingoAPI
	sessions     *session.Manager
	audit        *audit.Recorder
	logLines     int
	secureCookie bool
	logger       *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(api ScalingoAPI, sessions *session.Manager, recorder *audit.Recorder, logLines int, secureCookie bool, logger *slog.Logger) *PageHandler {
	if logLines <= 0 {
		logLines = 100
	}
	return &PageHandler{
		scalingo:     api,
		sessions:     sessions,
		audit:        recorder,
		logLines:     logLines,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "error", err, "path", r.URL.Path)
	}
}

// LoginPage handles GET /login.
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if token := session.TokenFromRequest(r); token != "" {
		if _, err := h.sessions.Validate(token); err == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}
	h.render(w, r, http.StatusOK, views.Login(views.LoginData{}))
}

// LoginSubmit handles POST /login.
func (h *PageHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, views.Login(views.LoginData{Error: "Invalid form data"}))
		return
	}
	email := r.PostFormValue("email")

	token, claims, err := h.sessions.Login(email, r.PostFormValue("password"))
	if err != nil {
		h.render(w, r, http.StatusUnauthorized, views.Login(views.LoginData{Email: email, Error: "Invalid email or password"}))
		return
	}

	session.SetCookie(w, token, claims.ExpiresAt, h.secureCookie)
	h.logger.Info("user signed in", "email", claims.Email)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles POST /logout.
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Dashboard handles GET / - the searchable list of applications.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	page, ok := queryInt(q, "page", 1, 1, MaxPage)
	if !ok {
		page = 1
	}

	data := views.DashboardData{
		Email:      middleware.GetActor(r.Context()),
		Query:      query,
		Pagination: pagination.Empty(),
	}

	apps, err := h.scalingo.ListApps(r.Context())
	if err != nil {
		h.logger.Error("failed to list applications", "error", err)
		data.Error = "Unable to load applications from Scalingo"
		h.render(w, r, http.StatusOK, views.Dashboard(data))
		return
	}

	apps = models.FilterApplications(apps, query)
	if meta, err := pagination.Paginate(len(apps), page, views.AppsPerPage); err == nil {
		data.Pagination = meta
	}
	start, end := pagination.Bounds(page, views.AppsPerPage, len(apps))
	data.Applications = apps[start:end]

	h.render(w, r, http.StatusOK, views.Dashboard(data))
}

// AppDetail handles GET /applications/{id}?tab=logs|deployments|domains|actions.
func (h *PageHandler) AppDetail(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "id")
	if !ValidApplicationID(appID) {
		http.Error(w, "Application not found", http.StatusNotFound)
		return
	}
	ctx := r.Context()

	app, err := h.scalingo.GetApp(ctx, appID)
	if err != nil {
		if scalingoNotFound(err) {
			http.Error(w, "Application not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get application", "error", err, "app_id", appID)
		http.Error(w, "Unable to load application from Scalingo", http.StatusBadGateway)
		return
	}

	q := r.URL.Query()
	data := views.DetailData{
		Email:      middleware.GetActor(ctx),
		App:        *app,
		Tab:        q.Get("tab"),
		Lines:      h.logLines,
		SuccessMsg: q.Get("success"),
		ErrorMsg:   q.Get("error"),
	}

	switch data.Tab {
	case views.TabDeployments:
		page, ok := queryInt(q, "page", 1, 1, MaxPage)
		if !ok {
			page = 1
		}
		data.Deployments, err = h.scalingo.ListDeployments(ctx, appID, page)
		if err != nil {
			h.logger.Warn("failed to list deployments", "error", err, "app_id", appID)
			data.ErrorMsg = "Unable to load deployments"
		}
	case views.TabDomains:
		data.Domains, err = h.scalingo.ListDomains(ctx, appID)
		if err != nil {
			h.logger.Warn("failed to list domains", "error", err, "app_id", appID)
			data.ErrorMsg = "Unable to load domains"
		}
		data.Primary = models.PrimaryDomain(data.Domains)
	case views.TabActions:
		if h.audit != nil {
			data.Actions, err = h.audit.History(ctx, appID, store.DefaultListLimit)
			if err != nil {
				h.logger.Warn("failed to list actions", "error", err, "app_id", appID)
				data.ErrorMsg = "Unable to load activity"
			}
		}
	default:
		data.Tab = views.TabLogs
		if lines, ok := queryInt(q, "lines", h.logLines, 1, MaxLines); ok {
			data.Lines = lines
		}
		data.Logs, err = h.scalingo.Logs(ctx, appID, data.Lines)
		if err != nil {
			h.logger.Warn("failed to fetch logs", "error", err, "app_id", appID)
			data.ErrorMsg = "Unable to load logs"
		}
	}

	h.render(w, r, http.StatusOK, views.Detail(data))
}

// AppAction handles POST /applications/{id}/actions from the action buttons.
func (h *PageHandler) AppAction(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "id")
	if !ValidApplicationID(appID) {
		http.Error(w, "Application not found", http.StatusNotFound)
		return
	}
	back := "/applications/" + url.PathEscape(appID)

	action, ok := models.ParseAppAction(r.PostFormValue("action"))
	if !ok {
		http.Redirect(w, r, back+"?error="+url.QueryEscape("Invalid action"), http.StatusSeeOther)
		return
	}

	err := h.scalingo.PerformAction(r.Context(), appID, action)
	if h.audit != nil {
		h.audit.Record(r.Context(), appID, action, middleware.GetActor(r.Context()), err)
	}
	if err != nil {
		h.logger.Error("failed to perform action", "error", err, "app_id", appID, "action", action)
		http.Redirect(w, r, back+"?error="+url.QueryEscape("Failed to "+action.String()+" application"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, back+"?success="+url.QueryEscape("Application "+action.String()+" initiated"), http.StatusSeeOther)
}
