// Package i18n holds the user-facing strings of the API in Indonesian and English.
package i18n

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Lang is a supported UI language
type Lang string

const (
	ID Lang = "id"
	EN Lang = "en"
)

// Default is used when no supported language is requested
const Default = ID

var (
	supported = []Lang{ID, EN}
	matcher   = language.NewMatcher([]language.Tag{language.Indonesian, language.English})
)

// Parse normalises a language tag ("en-US", "ID", "id_ID") to a supported Lang
func Parse(tag string, fallback Lang) Lang {
	if t, err := language.Parse(strings.TrimSpace(tag)); err == nil {
		if base, conf := t.Base(); conf == language.Exact {
			switch l := Lang(base.String()); l {
			case ID, EN:
				return l
			}
		}
	}
	if fallback == "" {
		return Default
	}
	return fallback
}

// FromAcceptLanguage picks the best supported language for an
// Accept-Language header value. A malformed header yields fallback.
func FromAcceptLanguage(header string, fallback Lang) Lang {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Parse(string(fallback), Default)
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Parse(string(fallback), Default)
	}
	return supported[idx]
}

// Message keys
const (
	KeyGreeting          = "compose.greeting"
	KeyProjectIntro      = "compose.project_intro"
	KeyQuestionIntro     = "compose.question_intro"
	KeyServiceLabel      = "compose.service"
	KeyDetailLabel       = "compose.detail"
	KeyDeadlineLabel     = "compose.deadline"
	KeyNameLabel         = "compose.name"
	KeyEmailLabel        = "compose.email"
	KeyUnknown           = "compose.unknown"
	KeyDeadlineFlexible  = "deadline.flexible"
	KeyErrNoService      = "flow.no_service"
	KeyErrEmptyDetail    = "flow.empty_detail"
	KeyErrEmptyQuestion  = "flow.empty_question"
	KeyErrNoDeadline     = "flow.no_deadline"
	KeyErrPastDate       = "flow.past_date"
	KeyErrNoDate         = "flow.no_date"
	KeyErrUnknownService = "flow.unknown_service"
	KeyErrTransition     = "flow.invalid_transition"
	KeyErrSubmitting     = "flow.submitting"
	KeyErrValidation     = "request.validation"
	KeyErrUnauthorized   = "request.unauthorized"
	KeyErrInternal       = "request.internal"
	KeyErrCaptcha        = "request.captcha"
	KeyErrUnavailable    = "request.unavailable"
	KeyErrSessionExpired = "request.session_expired"
	KeyErrRateLimited    = "request.rate_limited"
	KeyErrTooLarge       = "request.too_large"
	KeyErrInvalidImage   = "request.invalid_image"
	KeyResetEmailSent    = "auth.reset_email_sent"
	KeyPasswordChanged   = "auth.password_changed"
	KeyProfileUpdated    = "auth.profile_updated"
	KeySignedOut         = "auth.signed_out"
)

var catalog = map[Lang]map[string]string{
	ID: {
		KeyGreeting:          "Halo %s! 👋",
		KeyProjectIntro:      "Saya ingin mengajukan project baru.",
		KeyQuestionIntro:     "Saya ingin bertanya:",
		KeyServiceLabel:      "Layanan",
		KeyDetailLabel:       "Detail",
		KeyDeadlineLabel:     "Deadline",
		KeyNameLabel:         "Nama",
		KeyEmailLabel:        "Email",
		KeyUnknown:           "Tidak diketahui",
		KeyDeadlineFlexible:  "Fleksibel",
		KeyErrNoService:      "Pilih layanan terlebih dahulu.",
		KeyErrEmptyDetail:    "Detail project tidak boleh kosong.",
		KeyErrEmptyQuestion:  "Pertanyaan tidak boleh kosong.",
		KeyErrNoDeadline:     "Pilih deadline terlebih dahulu.",
		KeyErrPastDate:       "Tanggal deadline tidak boleh di masa lalu.",
		KeyErrNoDate:         "Pilih tanggal deadline.",
		KeyErrUnknownService: "Layanan tidak dikenal.",
		KeyErrTransition:     "Aksi tidak tersedia pada langkah ini.",
		KeyErrSubmitting:     "Permintaan sedang dikirim.",
		KeyErrValidation:     "Data yang dikirim tidak valid.",
		KeyErrUnauthorized:   "Silakan masuk terlebih dahulu.",
		KeyErrInternal:       "Terjadi kesalahan. Silakan coba lagi.",
		KeyErrCaptcha:        "Verifikasi captcha gagal.",
		KeyErrUnavailable:    "Layanan sedang tidak tersedia. Silakan coba lagi nanti.",
		KeyErrSessionExpired: "Sesi Anda telah berakhir. Silakan masuk kembali.",
		KeyErrRateLimited:    "Terlalu banyak permintaan. Silakan coba lagi nanti.",
		KeyErrTooLarge:       "Ukuran data terlalu besar.",
		KeyErrInvalidImage:   "Gambar tidak valid. Gunakan JPEG, PNG, atau WebP maksimal 5 MB.",
		KeyResetEmailSent:    "Link reset password telah dikirim ke email Anda.",
		KeyPasswordChanged:   "Password berhasil diubah. Silakan masuk kembali.",
		KeyProfileUpdated:    "Profil berhasil diperbarui.",
		KeySignedOut:         "Anda telah keluar.",
	},
	EN: {
		KeyGreeting:          "Hello %s! 👋",
		KeyProjectIntro:      "I would like to submit a new project.",
		KeyQuestionIntro:     "I would like to ask:",
		KeyServiceLabel:      "Service",
		KeyDetailLabel:       "Details",
		KeyDeadlineLabel:     "Deadline",
		KeyNameLabel:         "Name",
		KeyEmailLabel:        "Email",
		KeyUnknown:           "Unknown",
		KeyDeadlineFlexible:  "Flexible",
		KeyErrNoService:      "Please choose a service first.",
		KeyErrEmptyDetail:    "Project details cannot be empty.",
		KeyErrEmptyQuestion:  "Question cannot be empty.",
		KeyErrNoDeadline:     "Please choose a deadline first.",
		KeyErrPastDate:       "The deadline cannot be in the past.",
		KeyErrNoDate:         "Please pick a deadline date.",
		KeyErrUnknownService: "Unknown service.",
		KeyErrTransition:     "This action is not available at this step.",
		KeyErrSubmitting:     "Your request is being sent.",
		KeyErrValidation:     "The submitted data is invalid.",
		KeyErrUnauthorized:   "Please sign in first.",
		KeyErrInternal:       "Something went wrong. Please try again.",
		KeyErrCaptcha:        "Captcha verification failed.",
		KeyErrUnavailable:    "The service is temporarily unavailable. Please try again later.",
		KeyErrSessionExpired: "Your session has expired. Please sign in again.",
		KeyErrRateLimited:    "Too many requests. Please try again later.",
		KeyErrTooLarge:       "The request is too large.",
		KeyErrInvalidImage:   "Invalid image. Use JPEG, PNG or WebP up to 5 MB.",
		KeyResetEmailSent:    "A password reset link has been sent to your email.",
		KeyPasswordChanged:   "Password changed. Please sign in again.",
		KeyProfileUpdated:    "Profile updated.",
		KeySignedOut:         "You have been signed out.",
	},
}

// T returns the message for key, falling back to Indonesian and then to the key itself
func T(lang Lang, key string) string {
	if msg, ok := catalog[lang][key]; ok {
		return msg
	}
	if msg, ok := catalog[Default][key]; ok {
		return msg
	}
	return key
}

var months = map[Lang][12]string{
	ID: {"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"},
	EN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

// LongDate renders a calendar date the way each language writes it in prose:
// "16 Oktober 2026" / "October 16, 2026"
func LongDate(lang Lang, t time.Time) string {
	names, ok := months[lang]
	if !ok {
		names = months[Default]
	}
	month := names[t.Month()-1]
	if lang == EN {
		return month + " " + strconv.Itoa(t.Day()) + ", " + strconv.Itoa(t.Year())
	}
	return strconv.Itoa(t.Day()) + " " + month + " " + strconv.Itoa(t.Year())
}
