package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/campusconnect/campus-backend/config"
	"github.com/campusconnect/campus-backend/logger"
	"github.com/campusconnect/campus-backend/middleware"
	"github.com/campusconnect/campus-backend/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Message types exchanged with clients.
const (
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeSubscribe    = "subscribe"
	MessageTypeUnsubscribe  = "unsubscribe"
	MessageTypeSubscribed   = "subscribed"
	MessageTypeUnsubscribed = "unsubscribed"
	MessageTypeEvent        = "event"
	MessageTypeConnected    = "connected"
	MessageTypeError        = "error"
)

type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SubscribePayload names a public topic to follow: "club", "event" or
// "lostfound". Another user's notification scope is never reachable.
type SubscribePayload struct {
	Topic string `json:"topic"`
	ID    string `json:"id"`
}

// Scope is empty for unknown topics or a missing id.
func (p SubscribePayload) Scope() string {
	if p.ID == "" {
		return ""
	}
	switch p.Topic {
	case "club":
		return types.ClubScope(p.ID)
	case "event":
		return types.EventScope(p.ID)
	case "lostfound":
		return types.LostFoundScope(p.ID)
	}
	return ""
}

// Handler upgrades authenticated requests to the realtime stream.
type Handler struct {
	log    *zap.SugaredLogger
	hub    *Hub
	accept websocket.AcceptOptions
}

func NewHandler(hub *Hub, serverCfg *config.ServerConfig) *Handler {
	accept := websocket.AcceptOptions{CompressionMode: websocket.CompressionContextTakeover}
	if serverCfg.Environment == config.EnvDevelopment {
		accept.InsecureSkipVerify = true
	} else {
		accept.OriginPatterns = originPatterns(serverCfg.AllowedOrigins)
	}
	return &Handler{
		log:    logger.GetLogger().Named("websocket_handler"),
		hub:    hub,
		accept: accept,
	}
}

// originPatterns strips the scheme from configured origins.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		patterns = append(patterns, o)
	}
	return patterns
}

// HandleWebSocket godoc
// @Summary Realtime notification stream
// @Description Upgrades to a WebSocket that streams notifications and club activity. The token may be passed as the token query parameter.
// @Tags notifications
// @Param token query string false "Access token for clients that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} middleware.ErrorResponse
// @Router /notifications/ws [get]
// @Security BearerAuth
func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ws, err := websocket.Accept(c.Writer, c.Request, &h.accept)
	if err != nil {
		h.log.Warnw("Websocket upgrade rejected", "userID", userID, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	conn, err := h.hub.Register(ctx, userID, ws)
	if err != nil {
		_ = ws.Close(websocket.StatusInternalError, "registration failed")
		return
	}
	defer h.hub.Detach(conn)

	s := &session{
		log:          h.log.With("userID", userID),
		hub:          h.hub,
		ws:           ws,
		conn:         conn,
		writeTimeout: h.hub.cfg.WriteTimeout,
	}
	if err := s.send(ctx, ServerMessage{
		Type:    MessageTypeConnected,
		Payload: map[string]interface{}{"userId": userID, "scopes": h.hub.Scopes(userID)},
	}); err != nil {
		return
	}
	err = s.run(ctx, h.hub.cfg.PingInterval)
	if err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		s.log.Debugw("Websocket session ended", "error", err)
	}
}

// session drives one socket. Writes from the event pump and from replies
// share the socket; nhooyr.io/websocket serializes concurrent writers.
type session struct {
	log          *zap.SugaredLogger
	hub          *Hub
	ws           *websocket.Conn
	conn         *Connection
	writeTimeout time.Duration
}

// run returns when the first of the reader, writer or pinger stops.
func (s *session) run(ctx context.Context, pingEvery time.Duration) error {
	stopped := make(chan error, 3)
	go func() { stopped <- s.read(ctx) }()
	go func() { stopped <- s.forward(ctx) }()
	go func() { stopped <- s.keepAlive(ctx, pingEvery) }()
	return <-stopped
}

func (s *session) send(ctx context.Context, msg ServerMessage) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, s.ws, msg)
}

func (s *session) read(ctx context.Context) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, s.ws, &msg); err != nil {
			return err
		}
		if err := s.send(ctx, s.reply(ctx, msg)); err != nil {
			return err
		}
	}
}

func (s *session) forward(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.conn.Done():
			return nil
		case event := <-s.conn.SendChannel():
			if err := s.send(ctx, ServerMessage{Type: MessageTypeEvent, Payload: event}); err != nil {
				return err
			}
		}
	}
}

func (s *session) keepAlive(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
			err := s.ws.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// reply answers one client message.
func (s *session) reply(ctx context.Context, msg ClientMessage) ServerMessage {
	userID := s.conn.UserID
	switch msg.Type {
	case MessageTypePing:
		return ServerMessage{Type: MessageTypePong}
	case MessageTypeSubscribe, MessageTypeUnsubscribe:
		var p SubscribePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Scope() == "" {
			return ServerMessage{Type: MessageTypeError, Error: "Invalid request: topic and id required"}
		}
		if msg.Type == MessageTypeSubscribe {
			if err := s.hub.AddSubscription(ctx, userID, p.Scope()); err != nil {
				s.log.Warnw("Subscribe failed", "scope", p.Scope(), "error", err)
				return ServerMessage{Type: MessageTypeError, Error: "Failed to subscribe"}
			}
			return ServerMessage{Type: MessageTypeSubscribed, Payload: p}
		}
		if err := s.hub.RemoveSubscription(ctx, userID, p.Scope()); err != nil {
			return ServerMessage{Type: MessageTypeError, Error: "Failed to unsubscribe"}
		}
		return ServerMessage{Type: MessageTypeUnsubscribed, Payload: p}
	}
	return ServerMessage{Type: MessageTypeError, Error: "Unknown message type"}
}
