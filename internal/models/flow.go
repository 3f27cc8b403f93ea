package models

import "time"

// FlowActionRequest is one dashboard interaction
type FlowActionRequest struct {
	Type    string `json:"type" binding:"required,oneof=open_project_type open_ask_first select_service confirm_service back edit_detail edit_question open_deadline close_deadline choose_flexible choose_specific"`
	Service string `json:"service"`
	Text    string `json:"text"`
	Date    string `json:"date"`
}

// ServiceOption is a selectable service tile
type ServiceOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DeadlineView is the chosen deadline, localized
type DeadlineView struct {
	Kind    string `json:"kind"`
	Date    string `json:"date,omitempty"`
	Display string `json:"display,omitempty"`
}

// FlowView is what the dashboard renders
type FlowView struct {
	Screen            string          `json:"screen"`
	Service           string          `json:"service,omitempty"`
	ServiceLabel      string          `json:"serviceLabel,omitempty"`
	DeadlineDialog    bool            `json:"deadlineDialog"`
	Detail            string          `json:"detail"`
	Question          string          `json:"question"`
	Deadline          DeadlineView    `json:"deadline"`
	Submitting        bool            `json:"submitting"`
	CanSubmitProject  bool            `json:"canSubmitProject"`
	CanSubmitQuestion bool            `json:"canSubmitQuestion"`
	MaxTextLength     int             `json:"maxTextLength"`
	MinDeadline       string          `json:"minDeadline"`
	Services          []ServiceOption `json:"services"`
}

// HandoffResponse carries the messaging deep link the browser should open
type HandoffResponse struct {
	Success bool      `json:"success"`
	URL     string    `json:"url"`
	Flow    *FlowView `json:"flow,omitempty"`
}

// LeadEvent is posted to the lead-created webhook
type LeadEvent struct {
	Kind        string    `json:"kind"`
	UID         string    `json:"uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	Service     string    `json:"service,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Question    string    `json:"question,omitempty"`
	Deadline    string    `json:"deadline,omitempty"`
	Lang        string    `json:"lang"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}
