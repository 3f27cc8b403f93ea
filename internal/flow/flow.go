// Package flow models the dashboard's request-capture form as a value plus
// a pure reducer. The HTTP layer stores the value per user and feeds it
// actions; nothing here performs I/O.
package flow

import (
	"errors"
	"strings"
	"time"

	"github.com/nexadigital/nexa-api/internal/i18n"
)

// MaxTextLength bounds project detail and question text, in characters
const MaxTextLength = 500

var (
	ErrNoService         = errors.New("no service selected")
	ErrUnknownService    = errors.New("unknown service")
	ErrEmptyDetail       = errors.New("project detail is empty")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrNoDeadline        = errors.New("no deadline chosen")
	ErrNoDate            = errors.New("no deadline date")
	ErrPastDate          = errors.New("deadline date is in the past")
	ErrSubmitting        = errors.New("submission in flight")
	ErrInvalidTransition = errors.New("action not allowed on this screen")
)

// MessageKey maps a flow error to its i18n message key
func MessageKey(err error) string {
	switch {
	case errors.Is(err, ErrNoService):
		return i18n.KeyErrNoService
	case errors.Is(err, ErrUnknownService):
		return i18n.KeyErrUnknownService
	case errors.Is(err, ErrEmptyDetail):
		return i18n.KeyErrEmptyDetail
	case errors.Is(err, ErrEmptyQuestion):
		return i18n.KeyErrEmptyQuestion
	case errors.Is(err, ErrNoDeadline):
		return i18n.KeyErrNoDeadline
	case errors.Is(err, ErrNoDate):
		return i18n.KeyErrNoDate
	case errors.Is(err, ErrPastDate):
		return i18n.KeyErrPastDate
	case errors.Is(err, ErrSubmitting):
		return i18n.KeyErrSubmitting
	default:
		return i18n.KeyErrTransition
	}
}

// Flow is the complete state of one user's request-capture form.
// Detail and Question survive screen changes until a successful submission.
type Flow struct {
	Screen     Screen
	Detail     string
	Question   string
	Deadline   Deadline
	Submitting bool
	Lang       i18n.Lang
}

// New returns the initial state
func New(lang i18n.Lang) Flow {
	return Flow{Screen: Main{}, Lang: lang}
}

// WithLang switches the display language, re-rendering the deadline label
func (f Flow) WithLang(lang i18n.Lang) Flow {
	f.Lang = lang
	f.Deadline = f.Deadline.Localize(lang)
	return f
}

// Service returns the selected service on the project screens
func (f Flow) Service() Service {
	switch s := f.Screen.(type) {
	case ProjectType:
		return s.Selected
	case ProjectDetail:
		return s.Service
	}
	return ""
}

// DeadlineDialogOpen reports whether the deadline picker is shown
func (f Flow) DeadlineDialogOpen() bool {
	s, ok := f.Screen.(ProjectDetail)
	return ok && s.DeadlineDialog
}

// ClampText truncates s to MaxTextLength characters
func ClampText(s string) string {
	if len(s) <= MaxTextLength {
		return s
	}
	runes := []rune(s)
	if len(runes) <= MaxTextLength {
		return s
	}
	return string(runes[:MaxTextLength])
}

// CanSubmitProject is true iff the detail has content, a deadline is set
// and nothing is in flight
func CanSubmitProject(f Flow) bool {
	return strings.TrimSpace(f.Detail) != "" && f.Deadline.IsSet() && !f.Submitting
}

// CanSubmitQuestion is true iff the question has content and nothing is in flight
func CanSubmitQuestion(f Flow) bool {
	return strings.TrimSpace(f.Question) != "" && !f.Submitting
}

// Action is an input to Reduce
type Action interface {
	Kind() string
}

type (
	OpenProjectType   struct{}
	OpenAskFirst      struct{}
	SelectService     struct{ Service Service }
	ConfirmService    struct{}
	Back              struct{}
	EditDetail        struct{ Text string }
	EditQuestion      struct{ Text string }
	OpenDeadline      struct{}
	CloseDeadline     struct{}
	ChooseFlexible    struct{}
	ChooseSpecific    struct{ Date time.Time }
	BeginSubmit       struct{}
	SubmitFailed      struct{}
	ProjectSubmitted  struct{}
	QuestionSubmitted struct{}
)

func (OpenProjectType) Kind() string   { return "open_project_type" }
func (OpenAskFirst) Kind() string      { return "open_ask_first" }
func (SelectService) Kind() string     { return "select_service" }
func (ConfirmService) Kind() string    { return "confirm_service" }
func (Back) Kind() string              { return "back" }
func (EditDetail) Kind() string        { return "edit_detail" }
func (EditQuestion) Kind() string      { return "edit_question" }
func (OpenDeadline) Kind() string      { return "open_deadline" }
func (CloseDeadline) Kind() string     { return "close_deadline" }
func (ChooseFlexible) Kind() string    { return "choose_flexible" }
func (ChooseSpecific) Kind() string    { return "choose_specific" }
func (BeginSubmit) Kind() string       { return "begin_submit" }
func (SubmitFailed) Kind() string      { return "submit_failed" }
func (ProjectSubmitted) Kind() string  { return "project_submitted" }
func (QuestionSubmitted) Kind() string { return "question_submitted" }

// Reduce applies a to f. now is the wall clock in the zone used for
// calendar-day comparisons. On error the returned Flow equals f.
func Reduce(f Flow, a Action, now time.Time) (Flow, error) {
	if f.Screen == nil {
		f.Screen = Main{}
	}

	if f.Submitting {
		switch a.(type) {
		case SubmitFailed, ProjectSubmitted, QuestionSubmitted:
		default:
			return f, ErrSubmitting
		}
	}

	next, err := reduce(f, a, now)
	if err != nil {
		return f, err
	}
	return next, nil
}

func reduce(f Flow, a Action, now time.Time) (Flow, error) {
	switch act := a.(type) {
	case OpenProjectType:
		if _, ok := f.Screen.(Main); !ok {
			return f, ErrInvalidTransition
		}
		f.Screen = ProjectType{}
		return f, nil

	case OpenAskFirst:
		if _, ok := f.Screen.(Main); !ok {
			return f, ErrInvalidTransition
		}
		f.Screen = AskFirst{}
		return f, nil

	case SelectService:
		if _, ok := f.Screen.(ProjectType); !ok {
			return f, ErrInvalidTransition
		}
		if !act.Service.Valid() {
			return f, ErrUnknownService
		}
		f.Screen = ProjectType{Selected: act.Service}
		return f, nil

	case ConfirmService:
		s, ok := f.Screen.(ProjectType)
		if !ok {
			return f, ErrInvalidTransition
		}
		if s.Selected == "" {
			return f, ErrNoService
		}
		f.Screen = ProjectDetail{Service: s.Selected}
		return f, nil

	case Back:
		if _, ok := f.Screen.(Main); ok {
			return f, ErrInvalidTransition
		}
		f.Screen = Main{}
		return f, nil

	case EditDetail:
		if _, ok := f.Screen.(ProjectDetail); !ok {
			return f, ErrInvalidTransition
		}
		f.Detail = ClampText(act.Text)
		return f, nil

	case EditQuestion:
		if _, ok := f.Screen.(AskFirst); !ok {
			return f, ErrInvalidTransition
		}
		f.Question = ClampText(act.Text)
		return f, nil

	case OpenDeadline:
		s, ok := f.Screen.(ProjectDetail)
		if !ok {
			return f, ErrInvalidTransition
		}
		if strings.TrimSpace(f.Detail) == "" {
			return f, ErrEmptyDetail
		}
		s.DeadlineDialog = true
		f.Screen = s
		return f, nil

	case CloseDeadline:
		s, ok := f.Screen.(ProjectDetail)
		if !ok || !s.DeadlineDialog {
			return f, ErrInvalidTransition
		}
		s.DeadlineDialog = false
		f.Screen = s
		return f, nil

	case ChooseFlexible:
		s, ok := f.Screen.(ProjectDetail)
		if !ok || !s.DeadlineDialog {
			return f, ErrInvalidTransition
		}
		f.Deadline = Flexible(f.Lang)
		s.DeadlineDialog = false
		f.Screen = s
		return f, nil

	case ChooseSpecific:
		s, ok := f.Screen.(ProjectDetail)
		if !ok || !s.DeadlineDialog {
			return f, ErrInvalidTransition
		}
		d, err := AcceptDeadline(act.Date, now, f.Lang)
		if err != nil {
			return f, err
		}
		f.Deadline = d
		s.DeadlineDialog = false
		f.Screen = s
		return f, nil

	case BeginSubmit:
		switch f.Screen.(type) {
		case ProjectDetail:
			if strings.TrimSpace(f.Detail) == "" {
				return f, ErrEmptyDetail
			}
			if !f.Deadline.IsSet() {
				return f, ErrNoDeadline
			}
		case AskFirst:
			if !CanSubmitQuestion(f) {
				return f, ErrEmptyQuestion
			}
		default:
			return f, ErrInvalidTransition
		}
		f.Submitting = true
		return f, nil

	case SubmitFailed:
		if !f.Submitting {
			return f, ErrInvalidTransition
		}
		f.Submitting = false
		return f, nil

	case ProjectSubmitted:
		if _, ok := f.Screen.(ProjectDetail); !ok || !f.Submitting {
			return f, ErrInvalidTransition
		}
		f.Screen = Main{}
		f.Detail = ""
		f.Deadline = Deadline{}
		f.Submitting = false
		return f, nil

	case QuestionSubmitted:
		if _, ok := f.Screen.(AskFirst); !ok || !f.Submitting {
			return f, ErrInvalidTransition
		}
		f.Screen = Main{}
		f.Question = ""
		f.Submitting = false
		return f, nil
	}

	return f, ErrInvalidTransition
}
