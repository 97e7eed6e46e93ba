package controllers

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"partnershipintake/internal/delivery/http/helpers"
	"partnershipintake/internal/domain"
)

// maxSubmissionBody bounds the whole multipart body: both files plus the text fields.
const maxSubmissionBody = 8 << 20

// Multipart field names of the submission files.
const (
	FieldConceptNote = "file_concept"
	FieldLogo        = "file_logo"
)

// SubmitSuccessResponse is the success response envelope for POST /public/submit (201).
type SubmitSuccessResponse struct {
	Data  *domain.SubmitResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type SubmissionController struct {
	Logger  *slog.Logger
	Service domain.SubmissionService
	now     func() time.Time
}

func NewSubmissionController(logger *slog.Logger, svc domain.SubmissionService) *SubmissionController {
	return &SubmissionController{
		Logger:  logger,
		Service: svc,
		now:     time.Now,
	}
}

// Submit godoc
// @Summary Submit a partnership request
// @Description Public multipart form. Creates the partner (or reuses it by email), stores the concept note and optional logo, records the request with status NEW and emails a receipt.
// @Tags public
// @Accept multipart/form-data
// @Produce json
// @Param org_name formData string true "Organization name"
// @Param poc_name formData string true "Point of contact name"
// @Param poc_email formData string true "Point of contact email"
// @Param poc_phone formData string true "Phone with country code"
// @Param org_url formData string false "Organization website"
// @Param mission_align formData string true "true, on or 1"
// @Param cobranding_consent formData string true "true, on or 1"
// @Param event_title formData string true "Event title"
// @Param event_desc formData string true "Event description"
// @Param partnership_type formData string true "SPEAKER, EVENT, RECRUITMENT, SPONSORSHIP or OTHER"
// @Param target_hub formData string true "CAPSTONE, CITYPOINT or VIRTUAL"
// @Param event_date formData string true "YYYY-MM-DD"
// @Param start_time formData string true "HH:MM"
// @Param end_time formData string true "HH:MM"
// @Param attendee_count formData integer true "Expected attendees"
// @Param file_concept formData file true "Concept note (PDF, max 5MB)"
// @Param file_logo formData file false "Logo (PNG or JPEG, max 2MB)"
// @Success 201 {object} controllers.SubmitSuccessResponse "data contains request_id, reference_code and notification_status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_failed"
// @Failure 429 {object} helpers.APIResponse "error.code: rate_limited"
// @Failure 502 {object} helpers.APIResponse "error.code: storage_error"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /public/submit [post]
func (c *SubmissionController) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBody)
	if err := r.ParseMultipartForm(maxSubmissionBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodeBadRequest, "request body too large")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	form := domain.Submission{
		OrgName:           r.FormValue("org_name"),
		PocName:           r.FormValue("poc_name"),
		PocEmail:          r.FormValue("poc_email"),
		PocPhone:          r.FormValue("poc_phone"),
		OrgURL:            r.FormValue("org_url"),
		MissionAlign:      checkboxValue(r.FormValue("mission_align")),
		CobrandingConsent: checkboxValue(r.FormValue("cobranding_consent")),
		EventTitle:        r.FormValue("event_title"),
		EventDesc:         r.FormValue("event_desc"),
		PartnershipType:   r.FormValue("partnership_type"),
		TargetHub:         r.FormValue("target_hub"),
		EventDate:         r.FormValue("event_date"),
		StartTime:         r.FormValue("start_time"),
		EndTime:           r.FormValue("end_time"),
		AttendeeCount:     r.FormValue("attendee_count"),
	}

	var files domain.SubmissionFiles
	var err error
	if files.ConceptNote, err = formFile(r, FieldConceptNote); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read "+FieldConceptNote)
		return
	}
	if files.Logo, err = formFile(r, FieldLogo); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read "+FieldLogo)
		return
	}

	source := domain.SourceInfo{IPAddress: helpers.ClientIP(r), UserAgent: r.UserAgent()}
	result, err := c.Service.Submit(r.Context(), form, files, source)
	if err != nil {
		c.writeSubmitError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

func (c *SubmissionController) writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var rateErr *domain.RateLimitError
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rateErr.ResetAt, c.now())))
		w.Header().Set("X-RateLimit-Remaining", "0")
		helpers.WriteJSONError(w, http.StatusTooManyRequests, helpers.ErrCodeRateLimited, "Too many requests. Please try again later.")
	case errors.Is(err, domain.ErrRateLimited):
		w.Header().Set("X-RateLimit-Remaining", "0")
		helpers.WriteJSONError(w, http.StatusTooManyRequests, helpers.ErrCodeRateLimited, "Too many requests. Please try again later.")
	case errors.As(err, &valErr):
		helpers.WriteValidationError(w, valErr.Fields)
	case errors.Is(err, domain.ErrConsentRequired):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, domain.ErrConsentRequired.Error())
	case errors.Is(err, domain.ErrUnknownHub):
		helpers.WriteValidationError(w, map[string]string{"target_hub": "Invalid hub selection"})
	case errors.Is(err, domain.ErrStorage):
		c.Logger.ErrorContext(r.Context(), "file storage failed", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeStorageError, "Failed to upload files. Please try again.")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Failed to submit request. Please try again.")
	}
}

// checkboxValue reports whether an HTML checkbox-style value means "checked".
func checkboxValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1":
		return true
	}
	return false
}

// formFile reads an optional file part. A missing or empty part yields nil.
func formFile(r *http.Request, field string) (*domain.UploadedFile, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readPart(f, header)
}

func readPart(f multipart.File, header *multipart.FileHeader) (*domain.UploadedFile, error) {
	if header.Size == 0 && header.Filename == "" {
		return nil, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.UploadedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
