package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/infrastructure/http/middleware"
	"github.com/meetscribe/meetscribe/internal/infrastructure/realtime"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// WSHandler upgrades clients to a websocket and streams their events.
type WSHandler struct {
	hub      *realtime.Hub
	auth     middleware.SessionValidator
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWSHandler creates a websocket handler
func NewWSHandler(hub *realtime.Hub, auth middleware.SessionValidator, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS layer in front of this.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve handles GET /v1/ws. Browsers cannot set the Authorization header on
// websocket requests, so the token may also come in as ?token=.
func (h *WSHandler) Serve(c echo.Context) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		token = c.QueryParam("token")
	}

	user, err := h.auth.ValidateSession(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	events, unsubscribe := h.hub.Subscribe(user.ID)
	defer unsubscribe()

	if h.logger != nil {
		h.logger.Info("🔌 Websocket client connected", zap.String("user_id", user.ID.String()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go h.readLoop(conn, cancel, user)
	h.writeLoop(ctx, conn, events)

	conn.Close()
	return nil
}

// readLoop drains client frames so pings and close frames are processed.
func (h *WSHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc, user *entities.User) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.logger != nil {
				h.logger.Info("🔌 Websocket client disconnected", zap.String("user_id", user.ID.String()))
			}
			return
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, events <-chan realtime.Envelope) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-events:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
