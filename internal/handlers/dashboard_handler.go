package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/compose"
	"github.com/nexadigital/nexa-api/internal/flow"
	"github.com/nexadigital/nexa-api/internal/i18n"
	"github.com/nexadigital/nexa-api/internal/middleware"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/internal/services"
)

// DashboardHandler drives the signed-in user's request-capture flow
type DashboardHandler struct {
	service services.RequestServiceInterface
}

func NewDashboardHandler(service services.RequestServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetFlow handles GET /api/v1/dashboard/flow
func (h *DashboardHandler) GetFlow(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}

	f, err := h.service.Current(c.Request.Context(), user, middleware.GetLanguage(c))
	if err != nil {
		respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.View(f))
}

// Act handles POST /api/v1/dashboard/flow/actions
func (h *DashboardHandler) Act(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}

	var req models.FlowActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	f, err := h.service.Apply(c.Request.Context(), user, middleware.GetLanguage(c), &req)
	if err != nil {
		respondFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.View(f))
}

// SubmitProject handles POST /api/v1/dashboard/flow/submit-project
func (h *DashboardHandler) SubmitProject(c *gin.Context) {
	h.submit(c, h.service.SubmitProject)
}

// SubmitQuestion handles POST /api/v1/dashboard/flow/submit-question
func (h *DashboardHandler) SubmitQuestion(c *gin.Context) {
	h.submit(c, h.service.SubmitQuestion)
}

type submitFunc func(ctx context.Context, user *models.Identity, lang i18n.Lang) (flow.Flow, compose.Handoff, error)

// submit hands the flow off. The browser gets the deep link as JSON, or a
// 303 to it when called with ?redirect=1.
func (h *DashboardHandler) submit(c *gin.Context, fn submitFunc) {
	user, ok := h.user(c)
	if !ok {
		return
	}

	f, handoff, err := fn(c.Request.Context(), user, middleware.GetLanguage(c))
	if err != nil {
		respondFlowError(c, err)
		return
	}

	if c.Query("redirect") == "1" {
		c.Redirect(http.StatusSeeOther, handoff.URL)
		return
	}

	view := h.service.View(f)
	c.JSON(http.StatusOK, models.HandoffResponse{
		Success: true,
		URL:     handoff.URL,
		Flow:    &view,
	})
}

func (h *DashboardHandler) user(c *gin.Context) (*models.Identity, bool) {
	user, err := middleware.GetUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, i18n.T(middleware.GetLanguage(c), i18n.KeyErrUnauthorized), err)
		return nil, false
	}
	return user, true
}
