package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks are left to the CORS middleware in front of the router.
	CheckOrigin: func(*http.Request) bool { return true },
}

// StreamSession handles GET /sessions/{id}/stream.
// After the upgrade the server pushes the session's state as a JSON text
// message on every change, starting with the current one. Client messages
// are read only to track pongs and detect the close.
func (s *Server) StreamSession(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionFromPath(w, r)
	if !ok {
		return
	}
	id, _ := pathUUID(r, "id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		s.log.WarnContext(r.Context(), "websocket upgrade failed", "session_id", id.String(), "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		defer close(done)
		readUntilClosed(conn)
	}()

	states := c.Subscribe(ctx)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case st, ok := <-states:
			if !ok {
				// Session deleted or server shutting down.
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				//nolint:errcheck
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(SessionResponse{ID: id, State: stateToResponse(st)}); err != nil {
				s.log.DebugContext(ctx, "websocket write failed", "session_id", id.String(), "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readUntilClosed drains client frames so control messages are processed,
// returning when the connection fails or the client closes it.
func readUntilClosed(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
