package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/votecnp/election-api/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// LiveHandler pushes vote statistics to WebSocket subscribers. Run owns the
// set of clients; every other goroutine talks to it through channels.
type LiveHandler struct {
	stats    VoteStatisticsReader
	upgrader websocket.Upgrader

	clients    map[*liveClient]struct{}
	register   chan *liveClient
	unregister chan *liveClient
	refresh    chan struct{}
	done       chan struct{}
}

func NewLiveHandler(stats VoteStatisticsReader, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		stats: stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		clients:    make(map[*liveClient]struct{}),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		refresh:    make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}

		return slices.Contains(allowed, u.Scheme+"://"+u.Host)
	}
}

// Run serves the hub until ctx is cancelled.
func (h *LiveHandler) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			close(client.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case <-h.refresh:
			h.broadcast(ctx)
		}
	}
}

// BallotCast schedules a broadcast. Signals arriving while one is pending
// collapse into it.
func (h *LiveHandler) BallotCast(context.Context, domain.Ballot) {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

func (h *LiveHandler) broadcast(ctx context.Context) {
	if len(h.clients) == 0 {
		return
	}

	message, err := h.snapshot(ctx)
	if err != nil {
		zap.L().Warn("loading live vote statistics failed", zap.Error(err))
		return
	}

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Too slow to keep up.
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *LiveHandler) snapshot(ctx context.Context) ([]byte, error) {
	stats, err := h.stats.VoteStatistics(ctx)
	if err != nil {
		return nil, err
	}

	return json.Marshal(stats)
}

// HandleLiveResults godoc
// @Summary      Live vote statistics
// @Description  Upgrades to a WebSocket. The current statistics are sent on connect and again after every ballot. Browsers may pass the session token as the token query parameter.
// @Tags         votes
// @Produce      json
// @Param        token  query     string  false  "Session token"
// @Success      101    {object}  domain.VoteStatistics
// @Failure      401    {object}  response.Err
// @Router       /votes/live [get]
// @Security BearerAuth
func (h *LiveHandler) HandleLiveResults(ctx *gin.Context) {
	initial, err := h.snapshot(ctx.Request.Context())
	if err != nil {
		renderUnexpectedErr(ctx, err)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already answered the client.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	client.send <- initial

	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the connection going away; clients never send
// anything meaningful.
func (c *liveClient) readPump(h *LiveHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("live results client closed", zap.Error(err))
			}
			return
		}
	}
}
