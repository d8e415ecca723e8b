package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-scribe/internal/storage"
	"github.com/goliatone/go-scribe/pkg/interfaces"
)

const (
	eventWriteTimeout = 10 * time.Second
	eventReadTimeout  = 60 * time.Second

	// eventReady is sent once the subscription is live.
	eventReady interfaces.StoreChangeType = "ready"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// eventMessage is the frame sent for every store change. ProjectID is set
// for project keys.
type eventMessage struct {
	Type      interfaces.StoreChangeType `json:"type"`
	Key       string                     `json:"key"`
	ProjectID string                     `json:"projectId,omitempty"`
	At        time.Time                  `json:"at"`
}

// streamEvents upgrades to a websocket and forwards store change events until
// the client goes away. The first frame has type "ready".
func (api *API) streamEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		api.logger.Warn("http.events.upgrade_failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, err := api.events.Subscribe(ctx)
	if err != nil {
		api.logger.Error("http.events.subscribe_failed", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(eventWriteTimeout))
		return
	}
	api.logger.Debug("http.events.connected", "remote", c.ClientIP())

	_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
	if err := conn.WriteJSON(eventMessage{Type: eventReady, At: time.Now().UTC()}); err != nil {
		return
	}

	go api.readEvents(conn, cancel)

	ticker := time.NewTicker(api.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			msg := eventMessage{Type: evt.Type, Key: evt.Key, At: time.Now().UTC()}
			if id, ok := storage.ProjectIDFromKey(evt.Key); ok {
				msg.ProjectID = id
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				api.logger.Debug("http.events.write_failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readEvents drains client frames so pongs and close frames are processed.
// Any read error ends the stream.
func (api *API) readEvents(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(eventReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventReadTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
