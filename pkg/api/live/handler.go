// Package live recalculates an offer over a websocket as the user edits it.
// Each connection owns one editing session.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/session"
	"offer_analyzer/pkg/core/store"
	"offer_analyzer/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Inbound message types
const (
	MsgUpdate = "update"
	MsgReset  = "reset"
	MsgSave   = "save"
	MsgLoad   = "load"
	MsgLeave  = "leave"
)

// Outbound message types
const (
	MsgResult = "result"
	MsgSaved  = "saved"
	MsgError  = "error"
)

// Message is what the client sends. Assumptions may be partial for update.
type Message struct {
	Type        string          `json:"type"`
	Assumptions json.RawMessage `json:"assumptions,omitempty"`
	Name        string          `json:"name,omitempty"`
	ID          string          `json:"id,omitempty"`
}

// Reply is what the server sends back
type Reply struct {
	Type        string                  `json:"type"`
	Output      *analysis.Output        `json:"output,omitempty"`
	Assumptions *assumption.Assumptions `json:"assumptions,omitempty"`
	State       session.State           `json:"state"`
	Dirty       bool                    `json:"dirty"`
	ScenarioID  string                  `json:"scenario_id,omitempty"`
	Name        string                  `json:"name,omitempty"`
	Warn        bool                    `json:"warn,omitempty"`
	Error       string                  `json:"error,omitempty"`
	SaveError   string                  `json:"save_error,omitempty"`
}

// Handler upgrades requests and runs one client per connection
type Handler struct {
	engine   *analysis.AnalysisEngine
	repo     store.ScenarioRepository
	upgrader websocket.Upgrader
}

// NewHandler creates a live handler. An empty or "*" origin accepts any origin.
func NewHandler(engine *analysis.AnalysisEngine, repo store.ScenarioRepository, allowedOrigin string) *Handler {
	return &Handler{
		engine: engine,
		repo:   repo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Register mounts GET /ws/offer
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ws/offer", h.ServeWS)
}

type client struct {
	conn    *websocket.Conn
	send    chan Reply
	session *session.Session
	h       *Handler
}

// ServeWS starts a session on the default assumptions, or on ?scenario=<id> when given
func (h *Handler) ServeWS(c *gin.Context) {
	sess := session.New(assumption.Default())
	if id := c.Query("scenario"); id != "" {
		s, err := h.repo.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Scenario not found: %s", id)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		sess.Load(s.ID, s.Name, s.Assumptions)
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		fmt.Printf("[LIVE] Upgrade failed: %v\n", err)
		return
	}
	fmt.Printf("[LIVE] Client connected from %s\n", c.Request.RemoteAddr)

	cl := &client{conn: ws, send: make(chan Reply, 16), session: sess, h: h}
	cl.send <- cl.result()

	go cl.writePump()
	cl.readPump(c.Request.Context())
}

func (c *client) readPump(ctx context.Context) {
	defer func() {
		close(c.send)
		c.conn.Close()
		fmt.Printf("[LIVE] Client disconnected (state %s)\n", c.session.State())
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				fmt.Printf("[LIVE] Read error: %v\n", err)
			}
			return
		}
		c.send <- c.handle(ctx, msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case reply, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(reply); err != nil {
				fmt.Printf("[LIVE] Write error: %v\n", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle applies one message to the session and builds the reply
func (c *client) handle(ctx context.Context, msg Message) Reply {
	switch msg.Type {
	case MsgUpdate:
		if len(msg.Assumptions) == 0 {
			return c.fail(fmt.Errorf("update needs assumptions"))
		}
		if _, err := c.session.Apply(msg.Assumptions); err != nil {
			return c.fail(err)
		}
		return c.result()

	case MsgReset:
		a := assumption.Default()
		if len(msg.Assumptions) > 0 {
			parsed, err := assumption.Parse(string(msg.Assumptions))
			if err != nil {
				return c.fail(err)
			}
			a = parsed
		}
		c.session.Reset(a)
		return c.result()

	case MsgLoad:
		s, err := c.h.repo.Get(ctx, msg.ID)
		if err != nil {
			return c.fail(err)
		}
		c.session.Load(s.ID, s.Name, s.Assumptions)
		return c.result()

	case MsgSave:
		return c.save(ctx, msg.Name)

	case MsgLeave:
		reply := c.status(MsgLeave)
		reply.Warn = c.session.WarnOnLeave(false)
		return reply

	default:
		return c.fail(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (c *client) save(ctx context.Context, name string) Reply {
	if name != "" {
		c.session.Rename(name)
	}
	snapshot, err := c.session.BeginSave()
	if err != nil {
		return c.fail(err)
	}

	s := &models.Scenario{ID: c.session.ScenarioID(), Name: c.session.Name()}
	if s.ID != "" {
		if existing, err := c.h.repo.Get(ctx, s.ID); err == nil {
			s = existing
			s.Name = c.session.Name()
		}
	}
	s.Assumptions = snapshot

	if err := c.h.repo.Save(ctx, s); err != nil {
		fmt.Printf("[LIVE] Save failed: %v\n", err)
		c.session.FailSave(err)
		return c.fail(err)
	}
	c.session.CompleteSave(s.ID)
	return c.status(MsgSaved)
}

func (c *client) result() Reply {
	a := c.session.Current()
	out := c.h.engine.Analyze(a)
	reply := c.status(MsgResult)
	reply.Output = &out
	reply.Assumptions = &a
	return reply
}

func (c *client) status(kind string) Reply {
	reply := Reply{
		Type:       kind,
		State:      c.session.State(),
		Dirty:      c.session.HasUnsavedChanges(),
		ScenarioID: c.session.ScenarioID(),
		Name:       c.session.Name(),
	}
	// a failed save stays visible until a later save succeeds
	if err := c.session.LastError(); err != nil {
		reply.SaveError = err.Error()
	}
	return reply
}

func (c *client) fail(err error) Reply {
	reply := c.status(MsgError)
	reply.Error = err.Error()
	return reply
}
