package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bbernstein/lacylights-console/internal/services/pubsub"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPingInterval   = 10 * time.Second
	wsPongWait       = 2 * wsPingInterval
	wsSendBufferSize = 64
	wsReadLimit      = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for WebSocket
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWS streams pubsub messages to the client as {"topic","data"}
// frames, starting with the current scene. Clients that miss a message
// because their buffer filled up are disconnected.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️  WebSocket upgrade failed: %v", err)
		return
	}

	sub := s.pubsub.Subscribe(wsSendBufferSize)
	done := make(chan struct{})

	go s.wsReadPump(conn, done)
	s.wsWritePump(conn, sub, done)
}

func (s *Server) wsWritePump(conn *websocket.Conn, sub *pubsub.Subscriber, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		s.pubsub.Unsubscribe(sub)
		_ = conn.Close()
	}()

	initial := pubsub.Message{Topic: pubsub.TopicSceneUpdated, Data: s.store.Snapshot()}
	if err := writeMessage(conn, initial); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case msg, ok := <-sub.Channel:
			if !ok {
				return
			}
			if err := writeMessage(conn, msg); err != nil {
				return
			}
		case <-sub.Overflow:
			evictSlowClient(conn)
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func evictSlowClient(conn *websocket.Conn) {
	log.Printf("⚠️  WebSocket client evicted (too slow)")
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too slow"),
		time.Now().Add(wsWriteWait))
}

func writeMessage(conn *websocket.Conn, msg pubsub.Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

// wsReadPump discards client frames and closes done when the client goes
// away or stops answering pings.
func (s *Server) wsReadPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
