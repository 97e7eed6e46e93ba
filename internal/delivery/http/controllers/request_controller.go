package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"partnershipintake/internal/delivery/http/helpers"
	"partnershipintake/internal/delivery/http/middleware"
	"partnershipintake/internal/domain"
)

// ListRequestsResponse is the data of GET /requests.
type ListRequestsResponse struct {
	Items      []*domain.RequestDetail `json:"items"`
	Pagination helpers.PaginationMeta  `json:"pagination"`
}

// ListRequestsSuccessResponse is the success response envelope for GET /requests (200).
type ListRequestsSuccessResponse struct {
	Data  ListRequestsResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// UpdateRequestRequest is the body of PATCH /requests/{id}. Omitted fields are unchanged;
// an empty assigned_to_id removes the assignee.
type UpdateRequestRequest struct {
	Status       *string `json:"status,omitempty"`
	AssignedToID *string `json:"assigned_to_id,omitempty"`
	Comment      *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type RequestController struct {
	Logger  *slog.Logger
	Service domain.RequestService
}

func NewRequestController(logger *slog.Logger, svc domain.RequestService) *RequestController {
	return &RequestController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List partnership requests
// @Description Newest first. Equality filters on status, hub, partnership type and assignee; offset pagination.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Request status"
// @Param hub query string false "Hub name"
// @Param partnership_type query string false "Partnership type"
// @Param assigned_to query string false "Assignee staff id"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListRequestsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /requests [get]
func (c *RequestController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RequestFilter{
		Status:          domain.RequestStatus(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
		HubName:         domain.HubName(strings.ToUpper(strings.TrimSpace(q.Get("hub")))),
		PartnershipType: domain.PartnershipType(strings.ToUpper(strings.TrimSpace(q.Get("partnership_type")))),
		AssignedToID:    strings.TrimSpace(q.Get("assigned_to")),
		Pagination:      helpers.ParsePagination(r),
	}
	page, err := c.Service.List(r.Context(), filter)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListRequestsResponse{
		Items:      page.Items,
		Pagination: helpers.NewPaginationMeta(page),
	})
}

// Get godoc
// @Summary Get a partnership request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the request with partner, hub and assignee"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /requests/{id} [get]
func (c *RequestController) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// Update godoc
// @Summary Update a partnership request
// @Description Change status (along the allowed workflow), assign or unassign a staff member, and/or add a comment.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID (UUID)"
// @Param body body UpdateRequestRequest true "Changes"
// @Success 200 {object} helpers.APIResponse "data contains the updated request"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /requests/{id} [patch]
func (c *RequestController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	update := domain.RequestUpdate{AssignedToID: req.AssignedToID, Comment: req.Comment}
	if req.Status != nil {
		st := domain.RequestStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
		update.Status = &st
	}
	actor := domain.Actor{UserID: claims.UserID, IPAddress: helpers.ClientIP(r)}

	detail, err := c.Service.Update(r.Context(), r.PathValue("id"), update, actor)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// ListNotifications godoc
// @Summary List notifications sent for a request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains notifications, oldest first"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /requests/{id}/notifications [get]
func (c *RequestController) ListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListNotifications(r.Context(), r.PathValue("id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// ListAuditLog godoc
// @Summary List audit entries for a request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains audit entries, oldest first"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /requests/{id}/audit [get]
func (c *RequestController) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListAuditLog(r.Context(), r.PathValue("id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

func (c *RequestController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(c.Logger, w, r, err, "request not found")
}

// writeServiceError maps the shared sentinel errors to responses. Unknown errors are
// logged and answered with a generic 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		helpers.WriteValidationError(w, valErr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrInvalidTransition):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}
