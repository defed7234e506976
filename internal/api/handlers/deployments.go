package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// DeploymentHandler serves the deployment history of applications.
type DeploymentHandler struct {
	scalingo ScalingoAPI
	logger   *slog.Logger
}

// NewDeploymentHandler creates a new deployment handler.
func NewDeploymentHandler(api ScalingoAPI, logger *slog.Logger) *DeploymentHandler {
	return &DeploymentHandler{
		scalingo: api,
		logger:   logger,
	}
}

// List handles GET /api/scalingo/applications/{id}/deployments?page=N.
func (h *DeploymentHandler) List(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}
	page, ok := queryInt(r.URL.Query(), "page", 1, 1, MaxPage)
	if !ok {
		WriteBadRequest(w, r, rangeMessage("page", 1, MaxPage))
		return
	}

	result, err := h.scalingo.ListDeployments(r.Context(), appID, page)
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to fetch deployments", err)
		return
	}
	if result.Deployments == nil {
		result.Deployments = []models.Deployment{}
	}

	WriteJSON(w, http.StatusOK, result)
}

// Output handles GET /api/scalingo/applications/{id}/deployments/{deploymentId}/output.
func (h *DeploymentHandler) Output(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}
	deploymentID := chi.URLParam(r, "deploymentId")
	if !ValidDeploymentID(deploymentID) {
		WriteBadRequest(w, r, "Invalid deployment ID")
		return
	}

	output, err := h.scalingo.DeploymentOutput(r.Context(), appID, deploymentID)
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to fetch deployment output", err)
		return
	}

	WriteJSON(w, http.StatusOK, output)
}
