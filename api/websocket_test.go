package api_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lookbusy1344/ppc-interp/api"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
)

func TestWebSocket_StreamsSessionEvents(t *testing.T) {
	server := api.NewServer("127.0.0.1:0")
	testServer := httptest.NewServer(server.Handler())
	defer testServer.Close()

	createRec := postJSON(t, server.Handler(), "/api/v1/sessions", api.SessionCreateRequest{Source: ".exit\n"})
	var created api.SessionCreateResponse
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(testServer.URL, "http") + "/api/v1/sessions/" + created.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	server.Broadcaster().BroadcastOutput(created.ID, "hello from session")

	if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("failed to set read deadline: %v", err)
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var ev api.BroadcastEvent
	if err := json.Unmarshal(message, &ev); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if ev.Type != api.EventOutput || ev.SessionID != created.ID {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Data["text"] != "hello from session" {
		t.Errorf("unexpected event data: %+v", ev.Data)
	}
}

func TestWebSocket_UnknownSessionRejectsUpgrade(t *testing.T) {
	server := api.NewServer("127.0.0.1:0")
	testServer := httptest.NewServer(server.Handler())
	defer testServer.Close()

	wsURL := "ws" + strings.TrimPrefix(testServer.URL, "http") + "/api/v1/sessions/nonexistent/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown session")
	}
	if resp == nil || resp.StatusCode != 404 {
		status := -1
		if resp != nil {
			status = resp.StatusCode
		}
		t.Errorf("expected 404 response, got %d", status)
	}
}
