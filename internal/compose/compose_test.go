package compose

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComposer() *Composer {
	return NewComposer("https://wa.me/", "+6281234567890", "Nexa Digital")
}

func projectFlow(t *testing.T, lang i18n.Lang, service flow.Service, detail string, choose flow.Action) flow.Flow {
	t.Helper()
	now := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	f := flow.New(lang)
	for _, a := range []flow.Action{
		flow.OpenProjectType{}, flow.SelectService{Service: service}, flow.ConfirmService{},
		flow.EditDetail{Text: detail}, flow.OpenDeadline{}, choose,
	} {
		var err error
		f, err = flow.Reduce(f, a, now)
		require.NoError(t, err)
	}
	return f
}

func TestProject_WebsiteFlexibleScenario(t *testing.T) {
	f := projectFlow(t, i18n.ID, flow.ServiceWebsite, "Butuh landing page", flow.ChooseFlexible{})

	h, err := newComposer().Project(f, Sender{DisplayName: "Ayu Lestari", Email: "ayu@example.com"})

	require.NoError(t, err)
	assert.Equal(t, KindProject, h.Kind)
	assert.Equal(t, "Halo Nexa Digital! 👋\n\n"+
		"Saya ingin mengajukan project baru.\n\n"+
		"*Layanan:* Website\n"+
		"*Detail:* Butuh landing page\n"+
		"*Deadline:* Fleksibel\n\n"+
		"*Nama:* Ayu Lestari\n"+
		"*Email:* ayu@example.com", h.Message)

	assert.True(t, strings.HasPrefix(h.URL, "https://wa.me/6281234567890?text="))
	assert.NotContains(t, h.URL, "+")
	assert.NotContains(t, h.URL, " ")

	parsed, err := url.Parse(h.URL)
	require.NoError(t, err)
	text := parsed.Query().Get("text")
	assert.Equal(t, h.Message, text)
	assert.Contains(t, text, "Website")
	assert.Contains(t, text, "Butuh landing page")
	assert.Contains(t, text, "Fleksibel")
}

func TestProject_SpecificDateEnglishUnknownSender(t *testing.T) {
	f := projectFlow(t, i18n.EN, flow.ServiceOther, "  ERP integration  ",
		flow.ChooseSpecific{Date: time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)})

	h, err := newComposer().Project(f, Sender{DisplayName: " ", Email: ""})

	require.NoError(t, err)
	assert.Equal(t, "Hello Nexa Digital! 👋\n\n"+
		"I would like to submit a new project.\n\n"+
		"*Service:* Other\n"+
		"*Details:* ERP integration\n"+
		"*Deadline:* November 30, 2026\n\n"+
		"*Name:* Unknown\n"+
		"*Email:* Unknown", h.Message)
}

func TestQuestion(t *testing.T) {
	f := flow.Flow{Screen: flow.AskFirst{}, Question: "Berapa biaya aplikasi + backend?", Lang: i18n.ID}

	h, err := newComposer().Question(f, Sender{Email: "budi@example.com"})

	require.NoError(t, err)
	assert.Equal(t, KindQuestion, h.Kind)
	assert.Equal(t, "Halo Nexa Digital! 👋\n\n"+
		"Saya ingin bertanya:\n\n"+
		"Berapa biaya aplikasi + backend?\n\n"+
		"*Nama:* Tidak diketahui\n"+
		"*Email:* budi@example.com", h.Message)
	assert.Contains(t, h.URL, "aplikasi%20%2B%20backend%3F")
	assert.NotContains(t, h.Message, "Layanan")
	assert.NotContains(t, h.Message, "Deadline")
}

func TestHandoff_Guards(t *testing.T) {
	c := newComposer()

	_, err := c.Project(flow.New(i18n.ID), Sender{})
	assert.ErrorIs(t, err, flow.ErrInvalidTransition)

	_, err = c.Project(flow.Flow{Screen: flow.ProjectDetail{Service: flow.ServiceIoT}, Detail: "x"}, Sender{})
	assert.ErrorIs(t, err, flow.ErrNoDeadline)

	_, err = c.Project(flow.Flow{Screen: flow.ProjectDetail{Service: flow.ServiceIoT}, Deadline: flow.Flexible(i18n.ID)}, Sender{})
	assert.ErrorIs(t, err, flow.ErrEmptyDetail)

	_, err = c.Question(flow.Flow{Screen: flow.AskFirst{}, Question: "\t"}, Sender{})
	assert.ErrorIs(t, err, flow.ErrEmptyQuestion)

	_, err = c.Question(flow.New(i18n.ID), Sender{})
	assert.ErrorIs(t, err, flow.ErrInvalidTransition)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "a%20b%0A%2Ac%3A%2A", Encode("a b\n*c:*"))
	assert.Equal(t, "%F0%9F%91%8B", Encode("👋"))
}
