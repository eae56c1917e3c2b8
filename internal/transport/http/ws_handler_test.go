package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketScoresUpdatedAfterSubmit(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// the connected frame is sent after the subscription exists
	if typ := readNext(t, conn); typ != msgConnected {
		t.Fatalf("expected %s, got %s", msgConnected, typ)
	}

	rec := s.do(t, http.MethodPost, "/api/quiz/submit", map[string]any{
		"candidateId": "cand-ws",
		"answers":     []map[string]any{{"questionId": s.questions[0].ID, "selectedAnswer": 0}},
		"timeTaken":   5,
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}

	if typ := readNext(t, conn); typ != "scores-updated" {
		t.Fatalf("expected scores-updated, got %s", typ)
	}
}

func TestWebSocketPingAndUnknownMessages(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(t, conn)

	if err := conn.WriteJSON(map[string]any{"type": msgSubmitAnswer}); err != nil {
		t.Fatalf("write submit-answer: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": msgPing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	// submit-answer produces no reply, so the next frame is the pong
	if typ := readNext(t, conn); typ != msgPong {
		t.Fatalf("expected %s, got %s", msgPong, typ)
	}

	if err := conn.WriteJSON(map[string]any{"type": "bogus"}); err != nil {
		t.Fatalf("write bogus: %v", err)
	}
	if typ := readNext(t, conn); typ != msgError {
		t.Fatalf("expected %s, got %s", msgError, typ)
	}
}

func TestWebSocketUnsubscribesOnClose(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readNext(t, conn)
	if got := s.services.Broadcaster.Viewers(); got != 1 {
		t.Fatalf("expected 1 viewer, got %d", got)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.services.Broadcaster.Viewers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("viewer still subscribed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg outboundMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg.Type
}
