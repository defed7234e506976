package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/narvanalabs/scalingo-dashboard/internal/api/errors"
	"github.com/narvanalabs/scalingo-dashboard/internal/api/middleware"
	"github.com/narvanalabs/scalingo-dashboard/internal/audit"
	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/pagination"
	"github.com/narvanalabs/scalingo-dashboard/internal/scalingo"
	"github.com/narvanalabs/scalingo-dashboard/internal/store"
)

// DefaultAppsPerPage is the page size of the applications listing.
const DefaultAppsPerPage = 10

// ScalingoAPI is the part of the Scalingo client the handlers use.
type ScalingoAPI interface {
	ListApps(ctx context.Context) ([]models.Application, error)
	GetApp(ctx context.Context, id string) (*models.Application, error)
	Logs(ctx context.Context, id string, lines int) ([]models.LogEntry, error)
	PerformAction(ctx context.Context, id string, action models.AppAction) error
	ListDeployments(ctx context.Context, id string, page int) (*models.DeploymentPage, error)
	DeploymentOutput(ctx context.Context, id, deploymentID string) (*models.DeploymentOutput, error)
	ListDomains(ctx context.Context, id string) ([]models.Domain, error)
}

var _ ScalingoAPI = (*scalingo.Client)(nil)

// AppHandler handles application-related HTTP requests.
type AppHandler struct {
	scalingo ScalingoAPI
	audit    *audit.Recorder
	logger   *slog.Logger
}

// NewAppHandler creates a new app handler.
func NewAppHandler(api ScalingoAPI, recorder *audit.Recorder, logger *slog.Logger) *AppHandler {
	return &AppHandler{
		scalingo: api,
		audit:    recorder,
		logger:   logger,
	}
}

// AppListResponse is one page of the applications listing.
type AppListResponse struct {
	Applications []models.Application `json:"applications"`
	Meta         models.Pagination    `json:"meta"`
}

// ActionRequest is the body of an application action.
type ActionRequest struct {
	Action string `json:"action"`
}

// ActionResponse reports that an action was accepted by Scalingo.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// List handles GET /api/scalingo/applications - one page of the user's applications,
// optionally filtered by name with q.
func (h *AppHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var invalid apierrors.ValidationErrors
	page, ok := queryInt(q, "page", 1, 1, MaxPage)
	if !ok {
		invalid.Add("page", rangeMessage("page", 1, MaxPage))
	}
	limit, ok := queryInt(q, "limit", DefaultAppsPerPage, 1, MaxLimit)
	if !ok {
		invalid.Add("limit", rangeMessage("limit", 1, MaxLimit))
	}
	if invalid.HasErrors() {
		apierrors.WriteErrorWithRequestID(w, invalid.ToAPIError(), chimiddleware.GetReqID(r.Context()))
		return
	}

	apps, err := h.scalingo.ListApps(r.Context())
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to list applications", err)
		return
	}
	apps = models.FilterApplications(apps, q.Get("q"))

	meta, err := pagination.Paginate(len(apps), page, limit)
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to paginate applications", err)
		return
	}
	start, end := pagination.Bounds(page, limit, len(apps))

	WriteJSON(w, http.StatusOK, AppListResponse{
		Applications: append([]models.Application{}, apps[start:end]...),
		Meta:         meta,
	})
}

// Get handles GET /api/scalingo/applications/{id}.
func (h *AppHandler) Get(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}

	app, err := h.scalingo.GetApp(r.Context(), appID)
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to get application", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"application": app})
}

// Action handles POST /api/scalingo/applications/{id} - restarts, stops or starts an application.
// Every accepted action is recorded in the audit trail, whether Scalingo accepts it or not.
func (h *AppHandler) Action(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, r, "Invalid request body")
		return
	}

	action, ok := models.ParseAppAction(req.Action)
	if !ok {
		WriteBadRequest(w, r, "Invalid action")
		return
	}

	err := h.scalingo.PerformAction(r.Context(), appID, action)
	if h.audit != nil {
		h.audit.Record(r.Context(), appID, action, middleware.GetActor(r.Context()), err)
	}
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to perform action", err)
		return
	}

	h.logger.Info("application action initiated",
		"app_id", appID,
		"action", action,
		"actor", middleware.GetActor(r.Context()),
	)

	WriteJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: fmt.Sprintf("Application %s initiated", action),
	})
}

// Actions handles GET /api/scalingo/applications/{id}/actions - the audit trail of an application.
func (h *AppHandler) Actions(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}
	limit, ok := queryInt(r.URL.Query(), "limit", store.DefaultListLimit, 1, MaxLimit)
	if !ok {
		WriteBadRequest(w, r, rangeMessage("limit", 1, MaxLimit))
		return
	}

	records := []*models.ActionRecord{}
	if h.audit != nil {
		history, err := h.audit.History(r.Context(), appID, limit)
		if err != nil {
			WriteServiceError(w, r, h.logger, "failed to list actions", err)
			return
		}
		if history != nil {
			records = history
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"actions": records})
}

// applicationID reads and validates the {id} path parameter, writing a 400
// when it is malformed.
func applicationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		WriteBadRequest(w, r, "Bad Request - Missing or invalid application ID")
		return "", false
	}
	if !ValidApplicationID(id) {
		WriteBadRequest(w, r, "Bad Request - Invalid application ID format")
		return "", false
	}
	return id, true
}
