package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageLogEntry is one log line sent by a page
type PageLogEntry struct {
	Namespace string `json:"namespace"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Values    []any  `json:"values"`
}

// PageLogRequest represents a batch of logs from a page
type PageLogRequest struct {
	Page    string         `json:"page"`
	Entries []PageLogEntry `json:"entries"`
}

// StreamLogs forwards page logs into the shell. Every entry goes through the
// debug-gated log; warnings and errors also reach the structured logger.
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req PageLogRequest
	limitBody(c)
	if err := c.ShouldBindJSON(&req); err != nil {
		payloadError(c, err, "Invalid log request format")
		return
	}

	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No log entries provided"})
		return
	}

	for _, entry := range req.Entries {
		h.processPageLogEntry(req.Page, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"debug":            h.shell.State().Debug(),
		"timestamp":        time.Now().Unix(),
	})
}

func (h *Handlers) processPageLogEntry(page string, entry PageLogEntry) {
	ns := entry.Namespace
	if ns == "" {
		ns = page
	}

	values := make([]any, 0, len(entry.Values)+1)
	values = append(values, entry.Message)
	values = append(values, entry.Values...)
	h.shell.Log(ns, values...)

	fields := []zap.Field{
		zap.String("page", page),
		zap.String("namespace", ns),
		zap.Any("values", entry.Values),
	}

	switch entry.Level {
	case "error":
		h.logger.Error(entry.Message, fields...)
	case "warn":
		h.logger.Warn(entry.Message, fields...)
	}
}
