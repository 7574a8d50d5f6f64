package ws

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/miniapp/backend/internal/domain/events"
	"github.com/GriffinCanCode/miniapp/backend/internal/domain/shell"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/miniapp/backend/internal/shared/id"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // console is local tooling
	},
}

// Handler manages WebSocket connections
type Handler struct {
	shell   *shell.Shell
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(sh *shell.Shell, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{shell: sh, metrics: metrics, logger: logger}
}

// client is one connected stream
type client struct {
	id   id.ClientID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu     sync.RWMutex
	filter map[string]struct{}

	dropped atomic.Int64
}

func (cl *client) wants(name string) bool {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	if len(cl.filter) == 0 {
		return true
	}
	_, ok := cl.filter[name]
	return ok
}

func (cl *client) setFilter(names []string) {
	filter := make(map[string]struct{}, len(names))
	for _, n := range names {
		filter[n] = struct{}{}
	}
	cl.mu.Lock()
	cl.filter = filter
	cl.mu.Unlock()
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   id.NewClientID(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	log := h.logger.With(zap.String("client_id", cl.id.String()))

	h.incConnections()
	log.Debug("stream client connected")

	sub := h.shell.Bus().OnAny(func(e events.Event) {
		if cl.wants(e.Name) {
			h.enqueue(cl, Frame{Type: "event", Name: e.Name, Payload: e.Payload})
		}
	})

	var writerDone sync.WaitGroup
	writerDone.Add(1)
	go func() {
		defer writerDone.Done()
		h.writeLoop(cl, log)
	}()

	h.enqueue(cl, Frame{Type: "system", ClientID: cl.id.String(), Message: "connected to miniapp shell"})
	h.readLoop(cl, log)

	sub.Cancel()
	close(cl.done)
	writerDone.Wait()
	conn.Close()

	h.decConnections()
	log.Debug("stream client disconnected", zap.Int64("dropped", cl.dropped.Load()))
}

func (h *Handler) readLoop(cl *client, log *zap.Logger) {
	for {
		var msg Message
		if err := cl.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.recordMessage("in", msg.Type)

		switch msg.Type {
		case "ping":
			h.enqueue(cl, Frame{Type: "pong"})
		case "emit":
			if msg.Name == "" {
				h.enqueue(cl, Frame{Type: "error", Message: "emit requires a name"})
				continue
			}
			h.shell.Emit(msg.Name, msg.Payload)
			h.enqueue(cl, Frame{Type: "ack", Name: msg.Name})
		case "subscribe":
			cl.setFilter(msg.Names)
			h.enqueue(cl, Frame{Type: "ack", Payload: msg.Names})
		default:
			h.enqueue(cl, Frame{Type: "error", Message: "unknown message type"})
		}
	}
}

func (h *Handler) writeLoop(cl *client, log *zap.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug("WebSocket write error", zap.Error(err))
				cl.conn.Close()
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.conn.Close()
				return
			}
		case <-cl.done:
			return
		}
	}
}

// enqueue never blocks the emitter; a full buffer drops the frame
func (h *Handler) enqueue(cl *client, f Frame) {
	f.Timestamp = time.Now().UnixMilli()

	data, err := sonic.Marshal(f)
	if err != nil {
		f.Payload = nil
		f.Message = "payload is not JSON encodable"
		data, _ = sonic.Marshal(f)
	}

	select {
	case <-cl.done:
		return
	default:
	}

	select {
	case cl.send <- data:
		h.recordMessage("out", f.Type)
	default:
		cl.dropped.Add(1)
		h.recordMessage("dropped", f.Type)
	}
}

func (h *Handler) recordMessage(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

func (h *Handler) incConnections() {
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
}

func (h *Handler) decConnections() {
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
}
