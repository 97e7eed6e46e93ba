// Package validation checks public intake submissions. All checks are pure: the
// current time and the holiday calendar are supplied by the caller.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"partnershipintake/internal/domain"
)

// DefaultMinBusinessDays is the default lookahead for event dates.
const DefaultMinBusinessDays = 15

// MaxAttendees is the largest attendee count accepted without contacting support.
const MaxAttendees = 1000

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerCustomValidations(validate)
}

// Options configures the date and time rules.
type Options struct {
	MinBusinessDays int
	// Holidays are YYYY-MM-DD dates excluded from business-day counting.
	Holidays map[string]struct{}
	// HubWindows overrides DefaultWindow per hub.
	HubWindows map[domain.HubName]Window
	Location   *time.Location
	Now        func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MinBusinessDays <= 0 {
		o.MinBusinessDays = DefaultMinBusinessDays
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) windowFor(hub domain.HubName) Window {
	if w, ok := o.HubWindows[hub]; ok && w.Open != "" && w.Close != "" {
		return w
	}
	return DefaultWindow
}

// FieldErrors maps a form field name to the first rule it violated.
type FieldErrors map[string]string

// Err returns nil when there are no errors, otherwise a *domain.ValidationError.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return domain.NewValidationError(fe)
}

func (fe FieldErrors) add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Validate checks sub and returns the typed submission, or field errors aggregated
// across every field (first violated rule per field).
func Validate(sub domain.Submission, opts Options) (*domain.ValidatedSubmission, FieldErrors) {
	opts = opts.withDefaults()
	errs := FieldErrors{}

	if err := validate.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.add("form", "Invalid submission")
			return nil, errs
		}
		for _, fe := range verrs {
			errs.add(fe.Field(), messageFor(fe.Field(), fe.Tag()))
		}
	}

	out := &domain.ValidatedSubmission{
		Submission:      sub,
		PartnershipType: domain.PartnershipType(sub.PartnershipType),
		Hub:             domain.HubName(sub.TargetHub),
	}

	if _, bad := errs["event_date"]; !bad {
		date, err := ParseEventDate(sub.EventDate, opts.Location)
		if err != nil {
			errs.add("event_date", "Invalid date format")
		} else {
			today := opts.Now().In(opts.Location)
			if BusinessDaysBetween(today, date, opts.Holidays) < opts.MinBusinessDays {
				errs.add("event_date", fmt.Sprintf("Event must be scheduled at least %d business days in advance", opts.MinBusinessDays))
			}
			out.EventDate = date
		}
	}

	window := opts.windowFor(out.Hub)
	if _, bad := errs["start_time"]; !bad && !window.Contains(sub.StartTime) {
		errs.add("start_time", fmt.Sprintf("Start time must be within hub operating hours (%s - %s)", window.Open, window.Close))
	}
	if _, bad := errs["end_time"]; !bad && !window.Contains(sub.EndTime) {
		errs.add("end_time", fmt.Sprintf("End time must be within hub operating hours (%s - %s)", window.Open, window.Close))
	}
	_, startBad := errs["start_time"]
	_, endBad := errs["end_time"]
	if !startBad && !endBad {
		start, _ := ParseTimeOfDay(sub.StartTime)
		end, _ := ParseTimeOfDay(sub.EndTime)
		if end <= start {
			errs.add("end_time", "End time must be after start time")
		}
	}

	if _, bad := errs["attendee_count"]; !bad {
		n, err := strconv.Atoi(strings.TrimSpace(sub.AttendeeCount))
		switch {
		case err != nil:
			errs.add("attendee_count", "Attendee count must be a whole number")
		case n < 1:
			errs.add("attendee_count", "At least 1 attendee is required")
		case n > MaxAttendees:
			errs.add("attendee_count", "Attendee count seems too high. Please contact us directly.")
		default:
			out.AttendeeCount = n
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

var fieldMessages = map[string]map[string]string{
	"org_name": {
		"required": "Organization name is required",
		"max":      "Organization name must be 150 characters or less",
	},
	"poc_name": {
		"required": "Point of contact name is required",
		"max":      "Name must be 100 characters or less",
	},
	"poc_email": {
		"required": "Email is required",
		"email":    "Please enter a valid email address",
	},
	"poc_phone": {
		"required":   "Phone number is required",
		"intl_phone": "Please enter a valid phone number with country code (e.g., +254712345678)",
	},
	"org_url": {
		"url": "Please enter a valid URL",
	},
	"mission_align": {
		"accepted": "You must confirm alignment with the partnership mission to proceed",
	},
	"cobranding_consent": {
		"accepted": "You must agree to the co-branding guidelines",
	},
	"event_title": {
		"required": "Event title is required",
		"max":      "Event title must be 100 characters or less",
	},
	"event_desc": {
		"required": "Event description is required",
		"max":      "Event description must be 1000 characters or less",
	},
	"partnership_type": {
		"required":         "Please select a partnership type",
		"partnership_type": "Please select a partnership type",
	},
	"target_hub": {
		"required": "Please select a hub",
		"hub_name": "Please select a hub",
	},
	"event_date": {
		"required": "Event date is required",
	},
	"start_time": {
		"required": "Start time is required",
		"hhmm":     "Invalid time format (use HH:MM)",
	},
	"end_time": {
		"required": "End time is required",
		"hhmm":     "Invalid time format (use HH:MM)",
	},
	"attendee_count": {
		"required": "Attendee count is required",
	},
}

func messageFor(field, tag string) string {
	if m, ok := fieldMessages[field][tag]; ok {
		return m
	}
	return fmt.Sprintf("%s is invalid", field)
}
