package http

import (
	"encoding/json"
	"log"
	"net/http"

	"quiz-service/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler pushes live events to connected viewers (leaderboards, dashboards).
type WSHandler struct {
	broadcaster *app.Broadcaster
	upgrader    websocket.Upgrader
}

func NewWSHandler(broadcaster *app.Broadcaster) *WSHandler {
	return &WSHandler{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

const (
	msgConnected    = "connected"
	msgPing         = "ping"
	msgPong         = "pong"
	msgSubmitAnswer = "submit-answer"
	msgError        = "error"
)

func (h *WSHandler) Handle(c *gin.Context) {
	h.ServeWS(c.Writer, c.Request)
}

// ServeWS upgrades HTTP requests to websockets and streams scores-updated signals until the viewer leaves.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.broadcaster.Subscribe()
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer goroutine; gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case ev, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: ev.Type}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	reply(outboundMessage{Type: msgConnected})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case msgPing:
			reply(outboundMessage{Type: msgPong})
		case msgSubmitAnswer:
			// submissions go through POST /api/quiz/submit, which triggers the broadcast itself
		default:
			reply(outboundMessage{Type: msgError, Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
