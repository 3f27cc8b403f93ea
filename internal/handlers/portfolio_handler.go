package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/portfolio"
)

// PortfolioHandler lists the agency's past projects
type PortfolioHandler struct {
	catalog *portfolio.Catalog
}

func NewPortfolioHandler(catalog *portfolio.Catalog) *PortfolioHandler {
	return &PortfolioHandler{catalog: catalog}
}

// List handles GET /api/v1/projects?category=
func (h *PortfolioHandler) List(c *gin.Context) {
	category := c.DefaultQuery("category", portfolio.CategoryAll)

	projects, err := h.catalog.List(category)
	if err != nil {
		if errors.Is(err, portfolio.ErrUnknownCategory) {
			respondErrorWithDetails(c, http.StatusBadRequest, "Unknown category", gin.H{"categories": portfolio.Categories}, err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, gin.H{
		"projects":   projects,
		"total":      len(projects),
		"categories": portfolio.Categories,
	})
}
