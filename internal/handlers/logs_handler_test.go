package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logsRouter(buf *bytes.Buffer) *gin.Engine {
	router := gin.New()
	router.POST("/api/v1/logs", NewLogsHandlerWithWriter(buf).ReceiveFrontendLogs)
	return router
}

func TestLogsHandler_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	body := `{"logs":[
		{"timestamp":"2026-10-16T08:00:00Z","level":"info","message":"page view","context":{"path":"/portfolio"}},
		{"timestamp":"2026-10-16T08:00:01Z","level":"error","message":"chunk load failed","context":{"service":"spoofed"}}
	]}`

	w := postJSON(logsRouter(&buf), "/api/v1/logs", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"received":2}`, w.Body.String())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "page view", first["msg"])
	assert.Equal(t, "/portfolio", first["path"])
	assert.Equal(t, "web", first["service"])
	assert.Equal(t, "error", second["level"])
	assert.Equal(t, "web", second["service"])
}

func TestLogsHandler_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty batch", `{"logs":[]}`},
		{"missing logs", `{}`},
		{"bad level", `{"logs":[{"level":"fatal","message":"x"}]}`},
		{"missing message", `{"logs":[{"level":"info"}]}`},
		{"malformed", `{"logs":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := postJSON(logsRouter(&buf), "/api/v1/logs", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, buf.Len())
		})
	}
}
