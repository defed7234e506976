package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	apierrors "github.com/narvanalabs/scalingo-dashboard/internal/api/errors"
	"github.com/narvanalabs/scalingo-dashboard/internal/logs"
	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var errLiveTailDisabled = apierrors.NewNotFoundError("Live tail is not enabled")

// LogHandler serves application logs.
type LogHandler struct {
	scalingo     ScalingoAPI
	broker       *logs.Broker
	defaultLines int
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewLogHandler creates a new log handler. broker may be nil, in which case
// the live tail endpoint is unavailable.
func NewLogHandler(api ScalingoAPI, broker *logs.Broker, defaultLines int, logger *slog.Logger) *LogHandler {
	if defaultLines <= 0 {
		defaultLines = logs.DefaultTailLines
	}
	return &LogHandler{
		scalingo:     api,
		broker:       broker,
		defaultLines: defaultLines,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// LogsResponse carries parsed log entries, oldest first.
type LogsResponse struct {
	Logs []models.LogEntry `json:"logs"`
}

// Get handles GET /api/scalingo/applications/{id}/logs - the last lines of the application log.
func (h *LogHandler) Get(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}
	lines, ok := queryInt(r.URL.Query(), "lines", h.defaultLines, 1, MaxLines)
	if !ok {
		WriteBadRequest(w, r, rangeMessage("lines", 1, MaxLines))
		return
	}

	entries, err := h.scalingo.Logs(r.Context(), appID, lines)
	if err != nil {
		WriteServiceError(w, r, h.logger, "failed to fetch logs", err)
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}

	WriteJSON(w, http.StatusOK, LogsResponse{Logs: entries})
}

// Stream handles GET /api/scalingo/applications/{id}/logs/ws - a websocket that
// first replays the entries already collected for the application and then
// pushes every new entry as a JSON message.
func (h *LogHandler) Stream(w http.ResponseWriter, r *http.Request) {
	appID, ok := applicationID(w, r)
	if !ok {
		return
	}
	if h.broker == nil {
		WriteServiceError(w, r, h.logger, "live tail disabled", errLiveTailDisabled)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket", "error", err, "app_id", appID)
		return
	}
	defer conn.Close()

	sub, backlog := h.broker.Subscribe(appID)
	if sub == nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(wsWriteWait))
		return
	}
	defer h.broker.Unsubscribe(sub)

	h.logger.Info("log stream started", "app_id", appID, "subscriber_id", sub.ID)

	// Reader: handles pongs and notices the client going away.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, entry := range backlog {
		if err := h.writeEntry(conn, entry); err != nil {
			return
		}
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			h.logger.Info("log stream closed by client", "app_id", appID, "subscriber_id", sub.ID)
			return
		case entry, ok := <-sub.Ch:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := h.writeEntry(conn, entry); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *LogHandler) writeEntry(conn *websocket.Conn, entry models.LogEntry) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(entry); err != nil {
		h.logger.Debug("failed to write log entry", "error", err)
		return err
	}
	return nil
}
