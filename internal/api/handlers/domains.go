package handlers

import (
	"log/slog"
	"net/http"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

// DomainHandler serves the custom domains of applications.
type DomainHandler struct {
	scalingo ScalingoAPI
	logger   *slog.Logger
}

// NewDomainHandler creates a new domain handler.
func NewDomainHandler(api ScalingoAPI, logger *slog.Logger) *DomainHandler {
	return &DomainHandler{
		scalingo: api,
		logger:   logger,
	}
}

// DomainsResponse lists an application's domains with the one to show first.
type DomainsResponse struct {
	Domains []models.Domain `json:"domains"`
	Primary *models.Domain  `json:"primary"`
}

// List handles GET /api/scalingo/applications/{id}/domains.
func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}

	domains, err := h.scalingo.ListDomains(r.Context(), appID)
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to list domains", err)
		return
	}
	if domains == nil {
		domains = []models.Domain{}
	}

	WriteJSON(w, http.StatusOK, DomainsResponse{
		Domains: domains,
		Primary: models.PrimaryDomain(domains),
	})
}
