package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades to WebSocket and pushes a refresh event each
// time the session is replaced (upload or watch-mode re-parse). The
// client then re-fetches /api/report.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	refresh := s.session.Subscribe()
	defer s.session.Unsubscribe(refresh)

	// Read pump — detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case _, ok := <-refresh:
			if !ok {
				return
			}
			if err := conn.WriteJSON(gin.H{"event": "report"}); err != nil {
				s.log.Warn().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}
