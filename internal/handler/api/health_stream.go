package api

import (
	"time"

	"avesto/internal/usecase"
	xhttp "avesto/pkg/http"
	xlogger "avesto/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// HealthStreamHandler pushes periodic health snapshots over a WebSocket.
// Snapshots are recomputed from a fresh profile fetch on every tick, so a
// connected dashboard sees new transactions as the profile source ingests
// them.
type HealthStreamHandler struct {
	logger   *xlogger.Logger
	engine   *usecase.Engine
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewHealthStreamHandler(logger *xlogger.Logger, engine *usecase.Engine, interval time.Duration) *HealthStreamHandler {
	return &HealthStreamHandler{
		logger:   logger,
		engine:   engine,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (h *HealthStreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/health-stream", h.Stream)
}

func (h *HealthStreamHandler) Stream(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "user_id",
			Message: "user_id is required",
		}})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	// read pump: the client never sends data frames, but reading is how we
	// learn about a close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// optional per-connection override, capped at one minute
	interval := h.interval
	if secs := xhttp.ParseIntDefault(c.QueryParam("interval_seconds"), 0); secs > 0 {
		interval = time.Duration(secs) * time.Second
		if interval > time.Minute {
			interval = time.Minute
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// first snapshot immediately, then on every tick
	if err := h.push(c, conn, userID); err != nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			if err := h.push(c, conn, userID); err != nil {
				return nil
			}
		}
	}
}

func (h *HealthStreamHandler) push(c echo.Context, conn *websocket.Conn, userID string) error {
	snap, err := h.engine.Health(c.Request().Context(), userID, nil)
	if err != nil {
		h.logger.Warn("health stream snapshot failed",
			xlogger.String("user_id", userID),
			xlogger.Error(err))
		_ = conn.WriteJSON(map[string]string{"error": "snapshot unavailable"})
		return nil
	}
	if err := conn.WriteJSON(snap); err != nil {
		h.logger.Debug("health stream write failed", xlogger.Error(err))
		return err
	}
	return nil
}
