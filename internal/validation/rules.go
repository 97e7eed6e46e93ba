package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"partnershipintake/internal/domain"
)

var (
	timeOfDayRegexp = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	phoneRegexp     = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	phoneStripper   = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")
)

// IsValidPhone reports whether phone is an E.164-like number once spaces,
// parentheses and dashes are removed.
func IsValidPhone(phone string) bool {
	return phoneRegexp.MatchString(phoneStripper.Replace(phone))
}

// NormalizePhone removes formatting characters accepted by IsValidPhone.
func NormalizePhone(phone string) string {
	return phoneStripper.Replace(strings.TrimSpace(phone))
}

// ParseTimeOfDay parses H:MM or HH:MM (24-hour) into minutes after midnight.
func ParseTimeOfDay(s string) (int, error) {
	if !timeOfDayRegexp.MatchString(s) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return h*60 + m, nil
}

// FormatTimeOfDay renders minutes after midnight as HH:MM.
func FormatTimeOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Window is an inclusive operating-hour window.
type Window struct {
	Open  string
	Close string
}

// DefaultWindow is used when a hub has no window of its own.
var DefaultWindow = Window{Open: domain.DefaultOpenTime, Close: domain.DefaultCloseTime}

// Contains reports whether t (HH:MM) falls within the window, bounds included.
// Unparseable input is never contained.
func (w Window) Contains(t string) bool {
	tm, err := ParseTimeOfDay(t)
	if err != nil {
		return false
	}
	open, err := ParseTimeOfDay(w.Open)
	if err != nil {
		return false
	}
	closeAt, err := ParseTimeOfDay(w.Close)
	if err != nil {
		return false
	}
	return tm >= open && tm <= closeAt
}

// ParseEventDate accepts YYYY-MM-DD or RFC 3339 and returns midnight of that
// calendar date in loc.
func ParseEventDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// BusinessDaysBetween walks day by day from the day after from up to and including
// to, counting days that are neither weekend days nor holidays. Holidays are
// YYYY-MM-DD strings. It returns 0 when to is not after from.
func BusinessDaysBetween(from, to time.Time, holidays map[string]struct{}) int {
	cur := truncateToDay(from)
	end := truncateToDay(to.In(from.Location()))
	count := 0
	for cur.Before(end) {
		cur = cur.AddDate(0, 0, 1)
		if isWeekend(cur) {
			continue
		}
		if _, ok := holidays[cur.Format(time.DateOnly)]; ok {
			continue
		}
		count++
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// registerCustomValidations registers the intake-specific tags.
func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("intl_phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return timeOfDayRegexp.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	})
	_ = v.RegisterValidation("partnership_type", func(fl validator.FieldLevel) bool {
		return domain.PartnershipType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("hub_name", func(fl validator.FieldLevel) bool {
		return domain.HubName(fl.Field().String()).Valid()
	})
}
