package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/miniapp/backend/internal/domain/shell"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
)

// MaxPayloadBytes caps console request bodies
const MaxPayloadBytes = 1 << 20

// Handlers contains all console HTTP handlers
type Handlers struct {
	shell   *shell.Shell
	metrics *monitoring.Metrics
	logger  *zap.Logger
	started time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(sh *shell.Shell, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		shell:   sh,
		metrics: metrics,
		logger:  logger,
		started: time.Now(),
	}
}

// Register mounts every console route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/system", h.System)

	r.GET("/debug", h.GetDebug)
	r.PUT("/debug", h.SetDebug)

	r.GET("/events", h.ListEvents)
	r.POST("/events/:name", h.EmitEvent)

	r.GET("/globals", h.ListGlobals)
	r.GET("/globals/:key", h.GetGlobal)
	r.PUT("/globals/:key", h.SetGlobal)
	r.DELETE("/globals/:key", h.DeleteGlobal)

	r.POST("/logs", h.StreamLogs)

	if h.metrics != nil {
		r.GET("/metrics/json", h.MetricsSnapshot)
	}
}

// Root returns service info
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "miniapp-shell",
		"phase":   h.shell.Phase().String(),
		"routes":  []string{"/health", "/system", "/debug", "/events", "/globals", "/logs", "/stream", "/metrics"},
	})
}

// Health returns health status
func (h *Handlers) Health(c *gin.Context) {
	status := http.StatusOK
	if h.shell.Phase() != shell.PhaseLaunched {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":         http.StatusText(status),
		"phase":          h.shell.Phase().String(),
		"system_ready":   h.shell.State().System() != nil,
		"heartbeat":      h.shell.State().HasHeartbeat(),
		"uptime_seconds": time.Since(h.started).Seconds(),
	})
}

// System returns the host system record once the launch query resolved
func (h *Handlers) System(c *gin.Context) {
	info := h.shell.State().System()
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "system info not available yet"})
		return
	}
	c.JSON(http.StatusOK, info)
}

type debugRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// GetDebug returns the debug flag
func (h *Handlers) GetDebug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"enabled": h.shell.State().Debug()})
}

// SetDebug toggles the debug flag
func (h *Handlers) SetDebug(c *gin.Context) {
	var req debugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected {\"enabled\": bool}"})
		return
	}

	h.shell.State().SetDebug(*req.Enabled)
	h.logger.Info("debug flag changed", zap.Bool("enabled", *req.Enabled))

	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

// ListEvents returns handler counts by event name
func (h *Handlers) ListEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": h.shell.Bus().Names()})
}

// EmitEvent emits the JSON request body as the payload of :name
func (h *Handlers) EmitEvent(c *gin.Context) {
	name := c.Param("name")

	payload, err := readPayload(c)
	if err != nil {
		payloadError(c, err, "invalid JSON payload")
		return
	}

	listeners := h.shell.Bus().Count(name)
	h.shell.Emit(name, payload)

	c.JSON(http.StatusOK, gin.H{
		"event":     name,
		"listeners": listeners,
	})
}

// ListGlobals returns the whole global data bag
func (h *Handlers) ListGlobals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"keys":  h.shell.State().GlobalData().Keys(),
		"items": h.shell.State().GlobalData().Items(),
	})
}

// GetGlobal returns one global value
func (h *Handlers) GetGlobal(c *gin.Context) {
	key := c.Param("key")
	value, ok := h.shell.State().GlobalData().Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// SetGlobal stores the JSON request body under :key
func (h *Handlers) SetGlobal(c *gin.Context) {
	key := c.Param("key")

	value, err := readPayload(c)
	if err != nil {
		payloadError(c, err, "invalid JSON payload")
		return
	}

	h.shell.State().GlobalData().Set(key, value)
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// DeleteGlobal removes :key
func (h *Handlers) DeleteGlobal(c *gin.Context) {
	key := c.Param("key")
	globals := h.shell.State().GlobalData()

	if !globals.Has(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}
	globals.Delete(key)
	c.Status(http.StatusNoContent)
}

// MetricsSnapshot returns current metric values as JSON
func (h *Handlers) MetricsSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetSnapshot())
}

// readPayload decodes an optional JSON body. An empty body is nil.
func readPayload(c *gin.Context) (any, error) {
	limitBody(c)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}

	var payload any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// limitBody caps the request body at MaxPayloadBytes
func limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPayloadBytes)
}

// payloadError answers 413 for an oversized body and 400 otherwise
func payloadError(c *gin.Context, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
