package controllers

import (
	"log/slog"
	"net/http"

	"partnershipintake/internal/delivery/http/helpers"
	"partnershipintake/internal/domain"
)

// PublicController serves the unauthenticated read endpoints used by the intake form.
type PublicController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

func NewPublicController(logger *slog.Logger, svc domain.RequestService) *PublicController {
	return &PublicController{Logger: logger, Service: svc}
}

// Track godoc
// @Summary Track a partnership request
// @Description Public status view by reference code (or request id). Contains no contact data.
// @Tags public
// @Produce json
// @Param reference path string true "Reference code, e.g. PR-M7T2K9QX-ABCD"
// @Success 200 {object} helpers.APIResponse "data contains the tracking view"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /public/track/{reference} [get]
func (c *PublicController) Track(w http.ResponseWriter, r *http.Request) {
	view, err := c.Service.Track(r.Context(), r.PathValue("reference"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "request not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// ListHubs godoc
// @Summary List active hubs
// @Tags public
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains hubs ordered by name"
// @Router /hubs [get]
func (c *PublicController) ListHubs(w http.ResponseWriter, r *http.Request) {
	hubs, err := c.Service.ListHubs(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "hub not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, hubs)
}
