package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/nexadigital/nexa-api/pkg/logger"
	"go.uber.org/zap"
)

type LogsHandler struct {
	mu     sync.Mutex
	writer io.Writer
}

type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level" binding:"required,oneof=debug info warn error"`
	Message   string         `json:"message" binding:"required,max=2000"`
	Context   map[string]any `json:"context,omitempty"`
}

type LogBatchRequest struct {
	Logs []LogEntry `json:"logs" binding:"required,max=100,dive"`
}

// NewLogsHandler writes frontend logs to a size-rotated frontend.log in logDir
func NewLogsHandler(logDir string) *LogsHandler {
	return NewLogsHandlerWithWriter(logger.NewRotatingWriter(filepath.Join(logDir, "frontend.log")))
}

// NewLogsHandlerWithWriter writes frontend logs as JSON lines to w
func NewLogsHandlerWithWriter(w io.Writer) *LogsHandler {
	return &LogsHandler{writer: w}
}

func (h *LogsHandler) ReceiveFrontendLogs(c *gin.Context) {
	var req LogBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if len(req.Logs) == 0 {
		respondError(c, http.StatusBadRequest, "No logs provided", nil)
		return
	}

	if err := h.write(req.Logs); err != nil {
		logger.Error("Failed to write frontend logs", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to write logs", err)
		return
	}

	logger.Debug("Received frontend logs", zap.Int("count", len(req.Logs)))
	c.JSON(http.StatusOK, gin.H{"success": true, "received": len(req.Logs)})
}

func (h *LogsHandler) write(logs []LogEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	encoder := json.NewEncoder(h.writer)
	for _, entry := range logs {
		line := make(map[string]any, len(entry.Context)+4)
		for k, v := range entry.Context {
			line[k] = v
		}
		line["ts"] = entry.Timestamp
		line["level"] = entry.Level
		line["msg"] = entry.Message
		line["service"] = "web"

		if err := encoder.Encode(line); err != nil {
			return fmt.Errorf("failed to encode log entry: %w", err)
		}
	}

	return nil
}
