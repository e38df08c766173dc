package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/AaronLay10/SliderEngine/internal/events"
)

const (
	// Number of recent events to send on connection
	recentEventsCount = 50

	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Embeds are hosted on arbitrary sites.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsEmbedHandler streams the notifications of one embed session: its
// buffered events first, then live ones until either side closes.
func (s *Server) wsEmbedHandler(w http.ResponseWriter, r *http.Request) {
	embedID := mux.Vars(r)["id"]
	if _, err := s.embeds.Get(embedID); err != nil {
		s.embedError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", "embed_id", embedID, "error", err)
		return
	}

	sub := events.Subscribe()
	closeAll := func() {
		events.Unsubscribe(sub)
		conn.Close()
	}

	recent := events.ForEmbed(embedID)
	if len(recent) > recentEventsCount {
		recent = recent[len(recent)-recentEventsCount:]
	}
	for _, e := range recent {
		if err := writeEvent(conn, e); err != nil {
			s.log.Debug("ws write recent event failed", "embed_id", embedID, "error", err)
			closeAll()
			return
		}
	}

	// Reader goroutine - handles pongs and close messages
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			closeAll()
			return

		case e, ok := <-sub:
			if !ok {
				conn.Close()
				return
			}
			if e.Field("embed_id") != embedID {
				continue
			}
			if err := writeEvent(conn, e); err != nil {
				s.log.Debug("ws write event failed", "embed_id", embedID, "error", err)
				closeAll()
				return
			}
			if e.Name == "embed.detached" {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "embed detached"))
				closeAll()
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				closeAll()
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
