package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/nexadigital/nexa-api/internal/services"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"go.uber.org/zap"
)

// DirectoryHandler serves the public user-directory aggregates
type DirectoryHandler struct {
	service services.DirectoryServiceInterface
}

func NewDirectoryHandler(service services.DirectoryServiceInterface) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Count handles GET /api/count
func (h *DirectoryHandler) Count(c *gin.Context) {
	stats, err := h.service.Count(c.Request.Context())
	if err != nil {
		attachError(c, err)
		logger.Error("Directory count failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.CountResponse{
			Success: false,
			Count:   0,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CountResponse{
		Success: true,
		Stats:   stats,
		Count:   stats.Total,
		Summary: services.Summary(stats),
	})
}

// Avatars handles GET /api/avatars
func (h *DirectoryHandler) Avatars(c *gin.Context) {
	users, err := h.service.Avatars(c.Request.Context())
	if err != nil {
		attachError(c, err)
		c.JSON(http.StatusInternalServerError, models.AvatarsResponse{
			Users: []models.AvatarUser{},
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.AvatarsResponse{Users: users})
}
