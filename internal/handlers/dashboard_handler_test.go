package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/compose"
	"github.com/nexadigital/nexa-api/internal/drafts"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/middleware"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/internal/services"
	"github.com/nexadigital/nexa-api/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardRouter(user *models.Identity) (*gin.Engine, *drafts.MemoryStore) {
	store := drafts.NewMemoryStore(time.Hour)
	svc := services.NewRequestService(
		store,
		compose.NewComposer("https://wa.me", "+6281234567890", "Nexa Digital"),
		httpclient.NewStandardClient(),
		services.RequestOptions{Location: time.UTC},
	)
	h := NewDashboardHandler(svc)

	router := gin.New()
	router.Use(middleware.LanguageMiddleware(i18n.ID))
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.UserContextKey, user)
		}
		c.Next()
	})
	g := router.Group("/api/v1/dashboard")
	g.GET("/flow", h.GetFlow)
	g.POST("/flow/actions", h.Act)
	g.POST("/flow/submit-project", h.SubmitProject)
	g.POST("/flow/submit-question", h.SubmitQuestion)
	return router, store
}

func act(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, models.FlowView) {
	t.Helper()
	w := postJSON(router, "/api/v1/dashboard/flow/actions", body)
	var view models.FlowView
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	}
	return w, view
}

var dashboardUser = &models.Identity{UID: "uid-dash", Email: "budi@example.com", DisplayName: "Budi"}

func TestDashboardHandler_GetFlow_Fresh(t *testing.T) {
	router, _ := dashboardRouter(dashboardUser)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/flow", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var view models.FlowView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "main", view.Screen)
	assert.False(t, view.CanSubmitProject)
	assert.Len(t, view.Services, 6)
	assert.Equal(t, 500, view.MaxTextLength)
}

func TestDashboardHandler_ProjectFlow(t *testing.T) {
	router, store := dashboardRouter(dashboardUser)

	_, view := act(t, router, `{"type":"open_project_type"}`)
	assert.Equal(t, "project-type", view.Screen)

	_, view = act(t, router, `{"type":"select_service","service":"mobile"}`)
	assert.Equal(t, "mobile", view.Service)

	_, view = act(t, router, `{"type":"confirm_service"}`)
	assert.Equal(t, "project-detail", view.Screen)

	_, view = act(t, router, `{"type":"edit_detail","text":"Aplikasi kasir"}`)
	assert.False(t, view.CanSubmitProject)

	_, view = act(t, router, `{"type":"open_deadline"}`)
	assert.True(t, view.DeadlineDialog)

	_, view = act(t, router, `{"type":"choose_flexible"}`)
	assert.False(t, view.DeadlineDialog)
	assert.Equal(t, "flexible", view.Deadline.Kind)
	assert.True(t, view.CanSubmitProject)

	w := postJSON(router, "/api/v1/dashboard/flow/submit-project", ``)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HandoffResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.URL, "https://wa.me/6281234567890?text="))
	assert.Contains(t, resp.URL, "Aplikasi%20kasir")
	require.NotNil(t, resp.Flow)
	assert.Equal(t, "main", resp.Flow.Screen)
	assert.Empty(t, resp.Flow.Detail)

	stored, found, err := store.Get(t.Context(), dashboardUser.UID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, stored.Submitting)
}

func TestDashboardHandler_SubmitQuestion_Redirect(t *testing.T) {
	router, _ := dashboardRouter(dashboardUser)
	act(t, router, `{"type":"open_ask_first"}`)
	act(t, router, `{"type":"edit_question","text":"Berapa lama pengerjaan website?"}`)

	w := postJSON(router, "/api/v1/dashboard/flow/submit-question?redirect=1", ``)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://wa.me/6281234567890?text=")
	assert.Contains(t, w.Header().Get("Location"), "Berapa%20lama")
}

func TestDashboardHandler_GuardErrors(t *testing.T) {
	router, _ := dashboardRouter(dashboardUser)

	// confirm without a selection
	act(t, router, `{"type":"open_project_type"}`)
	w, _ := act(t, router, `{"type":"confirm_service"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"`+i18n.KeyErrNoService+`"`)
	assert.Contains(t, w.Body.String(), i18n.T(i18n.ID, i18n.KeyErrNoService))

	w, _ = act(t, router, `{"type":"select_service","service":"blockchain"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), i18n.KeyErrUnknownService)

	w = postJSON(router, "/api/v1/dashboard/flow/submit-project", ``)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = act(t, router, `{"type":"choose_specific","date":"2000-01-01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDashboardHandler_InvalidActionType(t *testing.T) {
	router, _ := dashboardRouter(dashboardUser)

	w, _ := act(t, router, `{"type":"teleport"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Type must be one of")
}

func TestDashboardHandler_RequiresUser(t *testing.T) {
	router, _ := dashboardRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/flow", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(router, "/api/v1/dashboard/flow/submit-question", ``)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
