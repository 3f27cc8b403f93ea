package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nexadigital/nexa-api/internal/compose"
	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/spf13/cobra"
)

var linkOpts struct {
	phone    string
	baseURL  string
	company  string
	lang     string
	service  string
	detail   string
	deadline string
	question string
	name     string
	email    string
	timezone string
}

// linkCmd composes the deep link the dashboard would hand off
var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Compose a WhatsApp deep link",
	Long: `Compose the message and deep link for a project request or an
ask-first question, exactly as the dashboard submit would.

Pass --question for a question; otherwise --service, --detail and --deadline
(flexible or YYYY-MM-DD) describe a project request.`,
	Example: `  agencyctl link --service website --detail "Toko online" --deadline flexible
  agencyctl link --question "Berapa biaya aplikasi mobile?" --lang en`,
	RunE: runLink,
}

func init() {
	f := linkCmd.Flags()
	f.StringVar(&linkOpts.phone, "phone", os.Getenv("WHATSAPP_PHONE"), "Business phone in international format (or set WHATSAPP_PHONE)")
	f.StringVar(&linkOpts.baseURL, "base-url", "https://wa.me", "Deep link base URL")
	f.StringVar(&linkOpts.company, "company", "Nexa Digital", "Company name used in the greeting")
	f.StringVar(&linkOpts.lang, "lang", string(i18n.Default), "Message language (id or en)")
	f.StringVar(&linkOpts.service, "service", "", "Service id: website, mobile, iot, ml, uiux, other")
	f.StringVar(&linkOpts.detail, "detail", "", "Project description")
	f.StringVar(&linkOpts.deadline, "deadline", "flexible", "flexible or YYYY-MM-DD")
	f.StringVar(&linkOpts.question, "question", "", "Free-form question; selects the ask-first message")
	f.StringVar(&linkOpts.name, "name", "", "Sender display name")
	f.StringVar(&linkOpts.email, "email", "", "Sender email")
	f.StringVar(&linkOpts.timezone, "timezone", "Asia/Jakarta", "Zone used to check the deadline date")
}

func runLink(cmd *cobra.Command, args []string) error {
	phone := strings.TrimPrefix(strings.TrimSpace(linkOpts.phone), "+")
	if phone == "" {
		return fmt.Errorf("--phone is required")
	}

	lang := i18n.Parse(linkOpts.lang, i18n.Default)
	composer := compose.NewComposer(linkOpts.baseURL, phone, linkOpts.company)
	sender := compose.Sender{DisplayName: linkOpts.name, Email: linkOpts.email}

	var message string
	if strings.TrimSpace(linkOpts.question) != "" {
		message = composer.QuestionMessage(lang, flow.ClampText(linkOpts.question), sender)
	} else {
		service, err := flow.ParseService(linkOpts.service)
		if err != nil {
			return fmt.Errorf("--service: %w", err)
		}
		detail := flow.ClampText(linkOpts.detail)
		if strings.TrimSpace(detail) == "" {
			return fmt.Errorf("--detail: %w", flow.ErrEmptyDetail)
		}
		deadline, err := parseDeadline(linkOpts.deadline, linkOpts.timezone, lang)
		if err != nil {
			return fmt.Errorf("--deadline: %w", err)
		}
		message = composer.ProjectMessage(lang, service, detail, deadline.Display, sender)
	}

	out := cmd.OutOrStdout()
	link := composer.Link(message)
	if jsonOutput {
		return writeJSON(out, map[string]string{"message": message, "url": link})
	}
	fmt.Fprintln(out, link)
	return nil
}

func parseDeadline(value, timezone string, lang i18n.Lang) (flow.Deadline, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, string(flow.DeadlineFlexible)) {
		return flow.Flexible(lang), nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return flow.Deadline{}, err
	}
	date, err := flow.ParseDate(value, loc)
	if err != nil {
		return flow.Deadline{}, err
	}
	return flow.AcceptDeadline(date, time.Now().In(loc), lang)
}
