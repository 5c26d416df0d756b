package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/atikulmunna/piqlog/internal/output"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades to WebSocket and streams entries to the client as
// JSON. An optional ?level=E,F query narrows the stream.
func (s *Server) handleWebSocket(c *gin.Context) {
	filter := output.ParseLevels(c.Query("level"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub := s.hub.Subscribe(filter.Allow)
	defer func() {
		s.hub.Unsubscribe(sub)
		if n := sub.Dropped(); n > 0 {
			log.Printf("websocket %s: %d entries dropped", c.Request.RemoteAddr, n)
		}
	}()

	// Read pump: a read error means the client went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Write pump.
	for {
		select {
		case <-gone:
			return
		case entry, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(entry); err != nil {
				log.Printf("websocket write failed: %v", err)
				return
			}
		}
	}
}
