// Package compose builds the pre-filled WhatsApp message and deep link a
// dashboard submission hands off to.
package compose

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/internal/i18n"
)

// Kinds of handoff
const (
	KindProject  = "project"
	KindQuestion = "question"
)

// Sender is the signed-in user the message is written on behalf of
type Sender struct {
	UID         string
	DisplayName string
	Email       string
}

// Handoff is a fire-and-forget command: open URL in a new browser context.
// Nothing about the messaging app's response is known or awaited.
type Handoff struct {
	Kind    string
	Message string
	URL     string
}

// Composer renders messages for one destination phone number
type Composer struct {
	baseURL string
	phone   string
	company string
}

// NewComposer creates a composer; baseURL is e.g. "https://wa.me"
func NewComposer(baseURL, phone, company string) *Composer {
	return &Composer{
		baseURL: strings.TrimRight(baseURL, "/"),
		phone:   strings.TrimPrefix(phone, "+"),
		company: company,
	}
}

// Project builds the handoff for a project request. The flow must be on
// the project detail screen and pass the submit guard.
func (c *Composer) Project(f flow.Flow, sender Sender) (Handoff, error) {
	screen, ok := f.Screen.(flow.ProjectDetail)
	if !ok {
		return Handoff{}, flow.ErrInvalidTransition
	}
	if strings.TrimSpace(f.Detail) == "" {
		return Handoff{}, flow.ErrEmptyDetail
	}
	if !f.Deadline.IsSet() {
		return Handoff{}, flow.ErrNoDeadline
	}

	msg := c.ProjectMessage(f.Lang, screen.Service, f.Detail, f.Deadline.Localize(f.Lang).Display, sender)
	return Handoff{Kind: KindProject, Message: msg, URL: c.Link(msg)}, nil
}

// Question builds the handoff for an ask-first question
func (c *Composer) Question(f flow.Flow, sender Sender) (Handoff, error) {
	if _, ok := f.Screen.(flow.AskFirst); !ok {
		return Handoff{}, flow.ErrInvalidTransition
	}
	if strings.TrimSpace(f.Question) == "" {
		return Handoff{}, flow.ErrEmptyQuestion
	}

	msg := c.QuestionMessage(f.Lang, f.Question, sender)
	return Handoff{Kind: KindQuestion, Message: msg, URL: c.Link(msg)}, nil
}

// ProjectMessage renders the project request text
func (c *Composer) ProjectMessage(lang i18n.Lang, service flow.Service, detail, deadline string, sender Sender) string {
	var b strings.Builder
	c.writeGreeting(&b, lang)
	b.WriteString(i18n.T(lang, i18n.KeyProjectIntro))
	b.WriteString("\n\n")
	writeField(&b, i18n.T(lang, i18n.KeyServiceLabel), service.Label(lang))
	writeField(&b, i18n.T(lang, i18n.KeyDetailLabel), strings.TrimSpace(detail))
	writeField(&b, i18n.T(lang, i18n.KeyDeadlineLabel), deadline)
	b.WriteString("\n")
	writeSender(&b, lang, sender)
	return b.String()
}

// QuestionMessage renders the ask-first text
func (c *Composer) QuestionMessage(lang i18n.Lang, question string, sender Sender) string {
	var b strings.Builder
	c.writeGreeting(&b, lang)
	b.WriteString(i18n.T(lang, i18n.KeyQuestionIntro))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\n")
	writeSender(&b, lang, sender)
	return b.String()
}

// Link returns the deep link carrying message as the text parameter
func (c *Composer) Link(message string) string {
	return fmt.Sprintf("%s/%s?text=%s", c.baseURL, c.phone, Encode(message))
}

// Encode percent-encodes s for a query value, spaces as %20
func Encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (c *Composer) writeGreeting(b *strings.Builder, lang i18n.Lang) {
	b.WriteString(fmt.Sprintf(i18n.T(lang, i18n.KeyGreeting), c.company))
	b.WriteString("\n\n")
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("*")
	b.WriteString(label)
	b.WriteString(":* ")
	b.WriteString(value)
	b.WriteString("\n")
}

func writeSender(b *strings.Builder, lang i18n.Lang, sender Sender) {
	unknown := i18n.T(lang, i18n.KeyUnknown)
	writeField(b, i18n.T(lang, i18n.KeyNameLabel), orDefault(sender.DisplayName, unknown))
	b.WriteString("*")
	b.WriteString(i18n.T(lang, i18n.KeyEmailLabel))
	b.WriteString(":* ")
	b.WriteString(orDefault(sender.Email, unknown))
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
