package flow

import (
	"time"

	"github.com/nexadigital/nexa-api/internal/i18n"
)

// DeadlineKind tags a deadline as open-ended or fixed
type DeadlineKind string

const (
	DeadlineNone     DeadlineKind = ""
	DeadlineFlexible DeadlineKind = "flexible"
	DeadlineSpecific DeadlineKind = "specific"
)

// Deadline is the timeline chosen for a project request.
// Date is set only for DeadlineSpecific and is a midnight in the flow's zone.
type Deadline struct {
	Kind    DeadlineKind
	Date    time.Time
	Display string
}

// IsSet reports whether a deadline has been chosen
func (d Deadline) IsSet() bool {
	return d.Kind != DeadlineNone
}

// Localize re-renders Display for lang
func (d Deadline) Localize(lang i18n.Lang) Deadline {
	switch d.Kind {
	case DeadlineFlexible:
		d.Display = i18n.T(lang, i18n.KeyDeadlineFlexible)
	case DeadlineSpecific:
		d.Display = i18n.LongDate(lang, d.Date)
	default:
		d.Display = ""
	}
	return d
}

// Flexible returns the open-ended deadline
func Flexible(lang i18n.Lang) Deadline {
	return Deadline{Kind: DeadlineFlexible}.Localize(lang)
}

// AcceptDeadline validates a specific date against now. Both sides are
// reduced to calendar days in now's location before comparing, so any
// time of day on the current date is accepted.
func AcceptDeadline(date, now time.Time, lang i18n.Lang) (Deadline, error) {
	if date.IsZero() {
		return Deadline{}, ErrNoDate
	}

	loc := now.Location()
	day := StartOfDay(date.In(loc))
	today := StartOfDay(now)

	if day.Before(today) {
		return Deadline{}, ErrPastDate
	}

	return Deadline{Kind: DeadlineSpecific, Date: day}.Localize(lang), nil
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate reads a YYYY-MM-DD date as midnight in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, ErrNoDate
	}
	return t, nil
}
