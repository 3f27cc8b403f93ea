package flow

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = mustLoad("Asia/Jakarta")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// 16 October 2026, 14:00 in Jakarta
var now = time.Date(2026, time.October, 16, 14, 0, 0, 0, jakarta)

func apply(t *testing.T, f Flow, actions ...Action) Flow {
	t.Helper()
	for _, a := range actions {
		var err error
		f, err = Reduce(f, a, now)
		require.NoError(t, err, "action %s", a.Kind())
	}
	return f
}

func TestClampText(t *testing.T) {
	exact := strings.Repeat("a", MaxTextLength)

	assert.Equal(t, exact, ClampText(exact))
	assert.Equal(t, exact, ClampText(exact+"b"))
	assert.Equal(t, "short", ClampText("short"))

	multibyte := strings.Repeat("é", MaxTextLength+10)
	assert.Equal(t, MaxTextLength, len([]rune(ClampText(multibyte))))

	emoji := strings.Repeat("👋", MaxTextLength)
	assert.Equal(t, emoji, ClampText(emoji))
}

func TestEditDetail_NeverExceedsMax(t *testing.T) {
	f := apply(t, New(i18n.ID), OpenProjectType{}, SelectService{ServiceWebsite}, ConfirmService{})

	full := strings.Repeat("x", MaxTextLength)
	f = apply(t, f, EditDetail{Text: full})
	require.Len(t, f.Detail, MaxTextLength)

	// one more keystroke
	f = apply(t, f, EditDetail{Text: f.Detail + "y"})
	assert.Len(t, f.Detail, MaxTextLength)
	assert.Equal(t, full, f.Detail)

	f = apply(t, f, Back{}, OpenAskFirst{}, EditQuestion{Text: strings.Repeat("q", 2*MaxTextLength)})
	assert.Len(t, f.Question, MaxTextLength)
}

func TestReduce_ProjectScenario(t *testing.T) {
	f := apply(t, New(i18n.ID),
		OpenProjectType{},
		SelectService{ServiceWebsite},
		ConfirmService{},
		EditDetail{Text: "Butuh landing page"},
		OpenDeadline{},
		ChooseFlexible{},
	)

	assert.Equal(t, ProjectDetail{Service: ServiceWebsite}, f.Screen)
	assert.Equal(t, Deadline{Kind: DeadlineFlexible, Display: "Fleksibel"}, f.Deadline)
	assert.True(t, CanSubmitProject(f))

	f = apply(t, f, BeginSubmit{})
	assert.True(t, f.Submitting)
	assert.False(t, CanSubmitProject(f))

	f = apply(t, f, ProjectSubmitted{})
	if diff := cmp.Diff(New(i18n.ID), f); diff != "" {
		t.Errorf("state after submission mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Service(""), f.Service())
}

func TestReduce_QuestionScenario(t *testing.T) {
	f := apply(t, New(i18n.EN), OpenAskFirst{}, EditQuestion{Text: "  How much is an app?  "})
	assert.True(t, CanSubmitQuestion(f))

	f = apply(t, f, BeginSubmit{}, SubmitFailed{})
	assert.False(t, f.Submitting)
	assert.Equal(t, "  How much is an app?  ", f.Question)

	f = apply(t, f, BeginSubmit{}, QuestionSubmitted{})
	assert.Equal(t, New(i18n.EN), f)
}

func TestReduce_Guards(t *testing.T) {
	detail := apply(t, New(i18n.ID), OpenProjectType{}, SelectService{ServiceIoT}, ConfirmService{})
	withText := apply(t, detail, EditDetail{Text: "Smart farm sensors"})
	dialog := apply(t, withText, OpenDeadline{})
	submitting := apply(t, withText, OpenDeadline{}, ChooseFlexible{}, BeginSubmit{})

	tests := []struct {
		name    string
		from    Flow
		action  Action
		wantErr error
	}{
		{"confirm without service", apply(t, New(i18n.ID), OpenProjectType{}), ConfirmService{}, ErrNoService},
		{"unknown service", apply(t, New(i18n.ID), OpenProjectType{}), SelectService{Service("blockchain")}, ErrUnknownService},
		{"deadline dialog with empty detail", detail, OpenDeadline{}, ErrEmptyDetail},
		{"deadline dialog with whitespace detail", apply(t, detail, EditDetail{Text: "   \n"}), OpenDeadline{}, ErrEmptyDetail},
		{"back from main", New(i18n.ID), Back{}, ErrInvalidTransition},
		{"select service on main", New(i18n.ID), SelectService{ServiceWebsite}, ErrInvalidTransition},
		{"edit detail on ask-first", apply(t, New(i18n.ID), OpenAskFirst{}), EditDetail{Text: "x"}, ErrInvalidTransition},
		{"edit question on project detail", detail, EditQuestion{Text: "x"}, ErrInvalidTransition},
		{"choose deadline without dialog", withText, ChooseFlexible{}, ErrInvalidTransition},
		{"close closed dialog", withText, CloseDeadline{}, ErrInvalidTransition},
		{"past date", dialog, ChooseSpecific{Date: now.AddDate(0, 0, -1)}, ErrPastDate},
		{"zero date", dialog, ChooseSpecific{}, ErrNoDate},
		{"submit without deadline", withText, BeginSubmit{}, ErrNoDeadline},
		{"submit empty question", apply(t, New(i18n.ID), OpenAskFirst{}), BeginSubmit{}, ErrEmptyQuestion},
		{"submit from main", New(i18n.ID), BeginSubmit{}, ErrInvalidTransition},
		{"double submit", submitting, BeginSubmit{}, ErrSubmitting},
		{"back while submitting", submitting, Back{}, ErrSubmitting},
		{"edit while submitting", submitting, EditDetail{Text: "changed"}, ErrSubmitting},
		{"question submitted on project", submitting, QuestionSubmitted{}, ErrInvalidTransition},
		{"submitted without begin", withText, ProjectSubmitted{}, ErrInvalidTransition},
		{"failed without begin", withText, SubmitFailed{}, ErrInvalidTransition},
		{"open project type twice", apply(t, New(i18n.ID), OpenProjectType{}), OpenProjectType{}, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(tt.from, tt.action, now)
			assert.ErrorIs(t, err, tt.wantErr)
			if diff := cmp.Diff(tt.from, got); diff != "" {
				t.Errorf("state changed on rejected action (-before +after):\n%s", diff)
			}
		})
	}
}

func TestReduce_BackThenForwardRestoresState(t *testing.T) {
	type path struct {
		name    string
		forward []Action
		edits   []Action
	}

	paths := []path{
		{
			name:    "project type",
			forward: []Action{OpenProjectType{}, SelectService{ServiceML}},
		},
		{
			name:    "project detail",
			forward: []Action{OpenProjectType{}, SelectService{ServiceUIUX}, ConfirmService{}},
			edits:   []Action{EditDetail{Text: "Redesign checkout"}, OpenDeadline{}, ChooseSpecific{Date: now.AddDate(0, 1, 0)}},
		},
		{
			name:    "ask first",
			forward: []Action{OpenAskFirst{}},
			edits:   []Action{EditQuestion{Text: "Do you build IoT dashboards?"}},
		},
	}

	for _, p := range paths {
		t.Run(p.name, func(t *testing.T) {
			before := apply(t, apply(t, New(i18n.ID), p.forward...), p.edits...)

			atMain := apply(t, before, Back{})
			assert.Equal(t, Main{}, atMain.Screen)
			assert.Equal(t, before.Detail, atMain.Detail)
			assert.Equal(t, before.Question, atMain.Question)

			after := apply(t, atMain, p.forward...)
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("back/forward changed state (-before +after):\n%s", diff)
			}
		})
	}
}

func TestReduce_BackDiscardsServiceAndDialog(t *testing.T) {
	f := apply(t, New(i18n.ID), OpenProjectType{}, SelectService{ServiceMobile}, ConfirmService{},
		EditDetail{Text: "Ride hailing app"}, OpenDeadline{})
	require.True(t, f.DeadlineDialogOpen())

	f = apply(t, f, Back{}, OpenProjectType{})

	assert.Equal(t, ProjectType{}, f.Screen)
	assert.False(t, f.DeadlineDialogOpen())
	assert.Equal(t, "Ride hailing app", f.Detail)
}

func TestCanSubmitProject_Iff(t *testing.T) {
	for _, detail := range []string{"", "  ", "Need an API"} {
		for _, deadline := range []Deadline{{}, Flexible(i18n.ID)} {
			for _, submitting := range []bool{false, true} {
				f := Flow{Screen: ProjectDetail{Service: ServiceWebsite}, Detail: detail, Deadline: deadline, Submitting: submitting}
				want := strings.TrimSpace(detail) != "" && deadline.IsSet() && !submitting
				assert.Equal(t, want, CanSubmitProject(f), "detail=%q deadline=%q submitting=%v", detail, deadline.Kind, submitting)
			}
		}
	}
}

func TestAcceptDeadline(t *testing.T) {
	lateNight := time.Date(2026, time.October, 16, 23, 59, 0, 0, jakarta)
	justAfterMidnight := time.Date(2026, time.October, 16, 0, 5, 0, 0, jakarta)

	tests := []struct {
		name    string
		date    time.Time
		now     time.Time
		wantErr error
		display string
	}{
		{"yesterday", time.Date(2026, 10, 15, 0, 0, 0, 0, jakarta), now, ErrPastDate, ""},
		{"yesterday late evening", time.Date(2026, 10, 15, 23, 59, 59, 0, jakarta), now, ErrPastDate, ""},
		{"today midnight", time.Date(2026, 10, 16, 0, 0, 0, 0, jakarta), lateNight, nil, "16 Oktober 2026"},
		{"today earlier than now", time.Date(2026, 10, 16, 9, 0, 0, 0, jakarta), now, nil, "16 Oktober 2026"},
		{"tomorrow", time.Date(2026, 10, 17, 0, 0, 0, 0, jakarta), now, nil, "17 Oktober 2026"},
		{"utc date that is already today in jakarta", time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC), justAfterMidnight, nil, "16 Oktober 2026"},
		{"utc midnight that is still yesterday in jakarta", time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC), justAfterMidnight, ErrPastDate, ""},
		{"zero date", time.Time{}, now, ErrNoDate, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := AcceptDeadline(tt.date, tt.now, i18n.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, d.IsSet())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DeadlineSpecific, d.Kind)
			assert.Equal(t, tt.display, d.Display)
			assert.Equal(t, StartOfDay(d.Date), d.Date)
		})
	}
}

func TestAcceptDeadline_English(t *testing.T) {
	d, err := AcceptDeadline(time.Date(2026, 12, 1, 0, 0, 0, 0, jakarta), now, i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, "December 1, 2026", d.Display)
}

func TestWithLang(t *testing.T) {
	f := apply(t, New(i18n.ID), OpenProjectType{}, SelectService{ServiceWebsite}, ConfirmService{},
		EditDetail{Text: "x"}, OpenDeadline{}, ChooseSpecific{Date: time.Date(2026, 10, 20, 0, 0, 0, 0, jakarta)})
	require.Equal(t, "20 Oktober 2026", f.Deadline.Display)

	f = f.WithLang(i18n.EN)
	assert.Equal(t, "October 20, 2026", f.Deadline.Display)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-20", jakarta)
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2026, 10, 20, 0, 0, 0, 0, jakarta)))
	assert.Equal(t, jakarta, d.Location())

	_, err = ParseDate("20/10/2026", jakarta)
	assert.ErrorIs(t, err, ErrNoDate)
}

func TestService(t *testing.T) {
	svc, err := ParseService(" Website ")
	require.NoError(t, err)
	assert.Equal(t, ServiceWebsite, svc)

	_, err = ParseService("crypto")
	assert.ErrorIs(t, err, ErrUnknownService)

	assert.Equal(t, "Mobile App", ServiceMobile.Label(i18n.ID))
	assert.Equal(t, "UI/UX Design", ServiceUIUX.Label(i18n.EN))
	assert.Equal(t, "Lainnya", ServiceOther.Label(i18n.ID))
	assert.Equal(t, "Other", ServiceOther.Label(i18n.EN))
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, i18n.KeyErrPastDate, MessageKey(ErrPastDate))
	assert.Equal(t, i18n.KeyErrNoService, MessageKey(ErrNoService))
	assert.Equal(t, i18n.KeyErrTransition, MessageKey(ErrInvalidTransition))
}

func TestFlowJSON(t *testing.T) {
	f := apply(t, New(i18n.EN), OpenProjectType{}, SelectService{ServiceOther}, ConfirmService{},
		EditDetail{Text: "Custom ERP"}, OpenDeadline{}, ChooseSpecific{Date: time.Date(2026, 11, 2, 0, 0, 0, 0, jakarta)}, OpenDeadline{})

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"screen": "project-detail",
		"service": "other",
		"deadlineDialog": true,
		"detail": "Custom ERP",
		"deadline": {"kind": "specific", "date": "2026-11-02", "display": "November 2, 2026"},
		"lang": "en"
	}`, string(data))

	var decoded Flow
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(f, decoded.InLocation(jakarta)); diff != "" {
		t.Errorf("decoded flow mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowJSON_Rejects(t *testing.T) {
	inputs := []string{
		`{"screen":"checkout"}`,
		`{"screen":"project-detail","service":"nope"}`,
		`{"screen":"main","deadline":{"kind":"someday"}}`,
		`{"screen":"main","deadline":{"kind":"specific","date":"tomorrow"}}`,
	}

	for _, in := range inputs {
		var f Flow
		assert.Error(t, json.Unmarshal([]byte(in), &f), in)
	}

	var empty Flow
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Equal(t, New(i18n.ID), empty)
}
