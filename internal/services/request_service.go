package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexadigital/nexa-api/internal/compose"
	"github.com/nexadigital/nexa-api/internal/drafts"
	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/internal/session"
	"github.com/nexadigital/nexa-api/pkg/httpclient"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"github.com/nexadigital/nexa-api/pkg/metrics"
	"github.com/nexadigital/nexa-api/pkg/trigger"
	"go.uber.org/zap"
)

// RequestService keeps each signed-in user's dashboard flow as a draft and
// turns completed flows into messaging handoffs
type RequestService struct {
	store      drafts.Store
	composer   *compose.Composer
	httpClient httpclient.Client
	triggerURL string
	loc        *time.Location
	now        func() time.Time
	locks      *keyedMutex
	triggerFn  func(url string, payload any, client httpclient.Client) <-chan struct{}
}

// RequestOptions configures RequestService
type RequestOptions struct {
	LeadTriggerURL string
	Location       *time.Location
}

// NewRequestService creates a request service
func NewRequestService(store drafts.Store, composer *compose.Composer, httpClient httpclient.Client, opts RequestOptions) *RequestService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &RequestService{
		store:      store,
		composer:   composer,
		httpClient: httpClient,
		triggerURL: opts.LeadTriggerURL,
		loc:        loc,
		now:        time.Now,
		locks:      newKeyedMutex(),
		triggerFn:  trigger.CallAsyncWithPayload,
	}
}

// Current returns the user's flow, starting a fresh one if none is stored
func (s *RequestService) Current(ctx context.Context, user *models.Identity, lang i18n.Lang) (flow.Flow, error) {
	return s.load(ctx, user.UID, lang)
}

// Apply runs one dashboard interaction against the stored flow
func (s *RequestService) Apply(ctx context.Context, user *models.Identity, lang i18n.Lang, req *models.FlowActionRequest) (flow.Flow, error) {
	action, err := ParseAction(req, s.loc)
	if err != nil {
		metrics.FlowActions.WithLabelValues(req.Type, "rejected").Inc()
		return flow.Flow{}, err
	}

	unlock := s.locks.Lock(user.UID)
	defer unlock()

	current, err := s.load(ctx, user.UID, lang)
	if err != nil {
		return flow.Flow{}, err
	}

	next, err := flow.Reduce(current, action, s.clock())
	if err != nil {
		metrics.FlowActions.WithLabelValues(action.Kind(), "rejected").Inc()
		return current, err
	}

	if err := s.store.Save(ctx, user.UID, next); err != nil {
		logger.Error("Failed to save draft", zap.String("uid", user.UID), zap.Error(err))
		return current, fmt.Errorf("failed to save draft: %w", err)
	}

	metrics.FlowActions.WithLabelValues(action.Kind(), "applied").Inc()
	return next, nil
}

// SubmitProject hands the project request off and resets the flow
func (s *RequestService) SubmitProject(ctx context.Context, user *models.Identity, lang i18n.Lang) (flow.Flow, compose.Handoff, error) {
	return s.submit(ctx, user, lang, compose.KindProject)
}

// SubmitQuestion hands the question off and resets the flow
func (s *RequestService) SubmitQuestion(ctx context.Context, user *models.Identity, lang i18n.Lang) (flow.Flow, compose.Handoff, error) {
	return s.submit(ctx, user, lang, compose.KindQuestion)
}

func (s *RequestService) submit(ctx context.Context, user *models.Identity, lang i18n.Lang, kind string) (flow.Flow, compose.Handoff, error) {
	unlock := s.locks.Lock(user.UID)
	defer unlock()

	current, err := s.load(ctx, user.UID, lang)
	if err != nil {
		return flow.Flow{}, compose.Handoff{}, err
	}

	now := s.clock()
	submitting, err := flow.Reduce(current, flow.BeginSubmit{}, now)
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues(kind, "rejected").Inc()
		return current, compose.Handoff{}, err
	}

	sender := compose.Sender{UID: user.UID, DisplayName: user.DisplayName, Email: user.Email}

	var (
		handoff compose.Handoff
		done    flow.Action
	)
	switch kind {
	case compose.KindProject:
		handoff, err = s.composer.Project(submitting, sender)
		done = flow.ProjectSubmitted{}
	default:
		handoff, err = s.composer.Question(submitting, sender)
		done = flow.QuestionSubmitted{}
	}
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues(kind, "rejected").Inc()
		return current, compose.Handoff{}, err
	}

	next, err := flow.Reduce(submitting, done, now)
	if err != nil {
		return current, compose.Handoff{}, err
	}

	if err := s.store.Save(ctx, user.UID, next); err != nil {
		logger.Error("Failed to save draft after submission", zap.String("uid", user.UID), zap.Error(err))
		metrics.LeadSubmissions.WithLabelValues(kind, "error").Inc()
		return current, compose.Handoff{}, fmt.Errorf("failed to save draft: %w", err)
	}

	metrics.LeadSubmissions.WithLabelValues(kind, "success").Inc()
	logger.Info("Lead handed off",
		zap.String("uid", user.UID),
		zap.String("kind", kind),
		zap.String("lang", string(submitting.Lang)))

	s.triggerFn(s.triggerURL, leadEvent(kind, user, submitting, handoff, now), s.httpClient)

	return next, handoff, nil
}

// View renders f for the dashboard
func (s *RequestService) View(f flow.Flow) models.FlowView {
	lang := f.Lang
	if lang == "" {
		lang = i18n.Default
	}

	view := models.FlowView{
		Detail:            f.Detail,
		Question:          f.Question,
		DeadlineDialog:    f.DeadlineDialogOpen(),
		Submitting:        f.Submitting,
		CanSubmitProject:  flow.CanSubmitProject(f),
		CanSubmitQuestion: flow.CanSubmitQuestion(f),
		MaxTextLength:     flow.MaxTextLength,
		MinDeadline:       s.clock().Format(time.DateOnly),
		Services:          make([]models.ServiceOption, 0, len(flow.Services)),
	}

	view.Screen = flow.ScreenMain
	if f.Screen != nil {
		view.Screen = f.Screen.Name()
	}

	if svc := f.Service(); svc != "" {
		view.Service = string(svc)
		view.ServiceLabel = svc.Label(lang)
	}

	if f.Deadline.IsSet() {
		d := f.Deadline.Localize(lang)
		view.Deadline = models.DeadlineView{Kind: string(d.Kind), Display: d.Display}
		if d.Kind == flow.DeadlineSpecific {
			view.Deadline.Date = d.Date.Format(time.DateOnly)
		}
	}

	for _, svc := range flow.Services {
		view.Services = append(view.Services, models.ServiceOption{ID: string(svc), Label: svc.Label(lang)})
	}

	return view
}

// OnSessionEvent drops the draft of a user who signed out
func (s *RequestService) OnSessionEvent(e session.Event) {
	if e.Type != session.SignedOut || e.UID == "" {
		return
	}

	unlock := s.locks.Lock(e.UID)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Delete(ctx, e.UID); err != nil {
		logger.Warn("Failed to drop draft on sign-out", zap.String("uid", e.UID), zap.Error(err))
		return
	}
	logger.Debug("Draft dropped on sign-out", zap.String("uid", e.UID))
}

func (s *RequestService) load(ctx context.Context, uid string, lang i18n.Lang) (flow.Flow, error) {
	f, found, err := s.store.Get(ctx, uid)
	if err != nil {
		logger.Error("Failed to load draft", zap.String("uid", uid), zap.String("store", s.store.Name()), zap.Error(err))
		return flow.Flow{}, fmt.Errorf("failed to load draft: %w", err)
	}
	if !found {
		return flow.New(lang), nil
	}
	return f.InLocation(s.loc).WithLang(lang), nil
}

func (s *RequestService) clock() time.Time {
	return s.now().In(s.loc)
}

// ParseAction maps a dashboard request onto a flow action. Dates are read
// as calendar days in loc.
func ParseAction(req *models.FlowActionRequest, loc *time.Location) (flow.Action, error) {
	switch req.Type {
	case "open_project_type":
		return flow.OpenProjectType{}, nil
	case "open_ask_first":
		return flow.OpenAskFirst{}, nil
	case "select_service":
		svc, err := flow.ParseService(req.Service)
		if err != nil {
			return nil, err
		}
		return flow.SelectService{Service: svc}, nil
	case "confirm_service":
		return flow.ConfirmService{}, nil
	case "back":
		return flow.Back{}, nil
	case "edit_detail":
		return flow.EditDetail{Text: req.Text}, nil
	case "edit_question":
		return flow.EditQuestion{Text: req.Text}, nil
	case "open_deadline":
		return flow.OpenDeadline{}, nil
	case "close_deadline":
		return flow.CloseDeadline{}, nil
	case "choose_flexible":
		return flow.ChooseFlexible{}, nil
	case "choose_specific":
		if strings.TrimSpace(req.Date) == "" {
			return nil, flow.ErrNoDate
		}
		date, err := flow.ParseDate(strings.TrimSpace(req.Date), loc)
		if err != nil {
			return nil, err
		}
		return flow.ChooseSpecific{Date: date}, nil
	}
	return nil, flow.ErrInvalidTransition
}

func leadEvent(kind string, user *models.Identity, f flow.Flow, h compose.Handoff, at time.Time) models.LeadEvent {
	event := models.LeadEvent{
		Kind:        kind,
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Lang:        string(f.Lang),
		URL:         h.URL,
		CreatedAt:   at.UTC(),
	}
	if kind == compose.KindProject {
		event.Service = string(f.Service())
		event.Detail = strings.TrimSpace(f.Detail)
		event.Deadline = f.Deadline.Localize(f.Lang).Display
	} else {
		event.Question = strings.TrimSpace(f.Question)
	}
	return event
}
