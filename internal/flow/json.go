package flow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexadigital/nexa-api/internal/i18n"
)

type deadlineJSON struct {
	Kind    DeadlineKind `json:"kind"`
	Date    string       `json:"date,omitempty"`
	Display string       `json:"display,omitempty"`
}

type flowJSON struct {
	Screen         string       `json:"screen"`
	Service        Service      `json:"service,omitempty"`
	DeadlineDialog bool         `json:"deadlineDialog,omitempty"`
	Detail         string       `json:"detail,omitempty"`
	Question       string       `json:"question,omitempty"`
	Deadline       deadlineJSON `json:"deadline"`
	Submitting     bool         `json:"submitting,omitempty"`
	Lang           i18n.Lang    `json:"lang"`
}

// MarshalJSON encodes the screen as a tag plus its payload fields
func (f Flow) MarshalJSON() ([]byte, error) {
	screen := f.Screen
	if screen == nil {
		screen = Main{}
	}

	out := flowJSON{
		Screen:     screen.Name(),
		Detail:     f.Detail,
		Question:   f.Question,
		Submitting: f.Submitting,
		Lang:       f.Lang,
		Deadline: deadlineJSON{
			Kind:    f.Deadline.Kind,
			Display: f.Deadline.Display,
		},
	}
	if f.Deadline.Kind == DeadlineSpecific {
		out.Deadline.Date = f.Deadline.Date.Format(time.DateOnly)
	}

	switch s := screen.(type) {
	case ProjectType:
		out.Service = s.Selected
	case ProjectDetail:
		out.Service = s.Service
		out.DeadlineDialog = s.DeadlineDialog
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a stored flow. Specific dates are restored as
// midnight UTC; callers that compare dates re-anchor them with InLocation.
func (f *Flow) UnmarshalJSON(data []byte) error {
	var in flowJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var screen Screen
	switch in.Screen {
	case ScreenMain, "":
		screen = Main{}
	case ScreenProjectType:
		screen = ProjectType{Selected: in.Service}
	case ScreenProjectDetail:
		if !in.Service.Valid() {
			return fmt.Errorf("flow: project-detail screen without a valid service %q", in.Service)
		}
		screen = ProjectDetail{Service: in.Service, DeadlineDialog: in.DeadlineDialog}
	case ScreenAskFirst:
		screen = AskFirst{}
	default:
		return fmt.Errorf("flow: unknown screen %q", in.Screen)
	}

	deadline := Deadline{Kind: in.Deadline.Kind, Display: in.Deadline.Display}
	switch in.Deadline.Kind {
	case DeadlineNone, DeadlineFlexible:
	case DeadlineSpecific:
		date, err := time.Parse(time.DateOnly, in.Deadline.Date)
		if err != nil {
			return fmt.Errorf("flow: invalid deadline date: %w", err)
		}
		deadline.Date = date
	default:
		return fmt.Errorf("flow: unknown deadline kind %q", in.Deadline.Kind)
	}

	*f = Flow{
		Screen:     screen,
		Detail:     ClampText(in.Detail),
		Question:   ClampText(in.Question),
		Deadline:   deadline,
		Submitting: in.Submitting,
		Lang:       i18n.Parse(string(in.Lang), i18n.Default),
	}
	return nil
}

// InLocation re-anchors a specific deadline date to midnight in loc
func (f Flow) InLocation(loc *time.Location) Flow {
	if f.Deadline.Kind == DeadlineSpecific && loc != nil {
		y, m, d := f.Deadline.Date.Date()
		f.Deadline.Date = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return f
}
