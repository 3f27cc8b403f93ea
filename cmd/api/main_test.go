package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/internal/handlers"
	"github.com/nexadigital/nexa-api/internal/middleware"
	"github.com/nexadigital/nexa-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	err error
}

func (s stubDirectory) Count(context.Context) (*models.DirectoryStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.DirectoryStats{Total: 4, Active: 1, Inactive: 3, Batches: 1}, nil
}

func (s stubDirectory) Avatars(context.Context) ([]models.AvatarUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.AvatarUser{{UID: "u1", DisplayName: "Ayu"}}, nil
}

func directoryRouter(t *testing.T, svc stubDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiter := middleware.NewRateLimiter(1000, 1000)
	t.Cleanup(limiter.Stop)

	router := gin.New()
	registerDirectoryRoutes(router.Group("/api"), limiter, handlers.NewDirectoryHandler(svc))
	return router
}

func TestDirectoryRoutes_AllowAnyOrigin(t *testing.T) {
	tests := []struct {
		name   string
		svc    stubDirectory
		path   string
		status int
	}{
		{"count ok", stubDirectory{}, "/api/count", http.StatusOK},
		{"count failure", stubDirectory{err: errors.New("identity provider unavailable")}, "/api/count", http.StatusInternalServerError},
		{"avatars ok", stubDirectory{}, "/api/avatars", http.StatusOK},
		{"avatars failure", stubDirectory{err: errors.New("identity provider unavailable")}, "/api/avatars", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := directoryRouter(t, tt.svc)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Origin", "https://partner.example.org")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestDirectoryRoutes_Preflight(t *testing.T) {
	router := directoryRouter(t, stubDirectory{})

	for _, path := range []string{"/api/count", "/api/avatars"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "https://partner.example.org")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
		})
	}
}
