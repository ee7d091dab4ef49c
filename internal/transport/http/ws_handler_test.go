package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/whojaskaran/EchoShare/internal/config"
	"github.com/whojaskaran/EchoShare/internal/core"
	"github.com/whojaskaran/EchoShare/internal/proto"
)

type testOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func startTestServer(t *testing.T) (*httptest.Server, context.CancelFunc) {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(&logger, nil, core.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		AllowedOrigins:    []string{"*"},
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		SendBuffer:        32,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, cancel
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	var raw json.RawMessage
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s data: %v", msgType, err)
		}
		raw = payload
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) testOutbound {
	t.Helper()

	for {
		var outbound testOutbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if outbound.Type == proto.OutboundTypeEvent && outbound.Event == event {
			return outbound
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	for _, path := range []string{"/", "/health"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("health request %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("unexpected status for %s: %d", path, resp.StatusCode)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestCreateJoinAndRelayRoundTrip(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dialWS(t, ctx, ts)
	defer connB.Close(websocket.StatusNormalClosure, "done")

	// A creates a room.
	send(t, ctx, connA, proto.InboundTypeCreateRoom, nil)
	created := readEvent(t, ctx, connA, proto.EventRoomCreated)

	var ack proto.RoomAck
	if err := json.Unmarshal(created.Data, &ack); err != nil {
		t.Fatalf("unmarshal create ack: %v", err)
	}
	if !ack.Success || ack.Room == "" {
		t.Fatalf("unexpected create ack: %+v", ack)
	}

	// B joins and gets the empty history replay.
	send(t, ctx, connB, proto.InboundTypeJoinRoom, proto.JoinData{Room: ack.Room})
	joined := readEvent(t, ctx, connB, proto.EventRoomJoined)
	var joinAck proto.RoomAck
	if err := json.Unmarshal(joined.Data, &joinAck); err != nil {
		t.Fatalf("unmarshal join ack: %v", err)
	}
	if !joinAck.Success || joinAck.Room != ack.Room {
		t.Fatalf("unexpected join ack: %+v", joinAck)
	}

	past := readEvent(t, ctx, connB, proto.EventPastMessages)
	var pastMessages []proto.MessagePayload
	if err := json.Unmarshal(past.Data, &pastMessages); err != nil {
		t.Fatalf("unmarshal past messages: %v", err)
	}
	if len(pastMessages) != 0 {
		t.Fatalf("expected empty history, got %+v", pastMessages)
	}
	readEvent(t, ctx, connB, proto.EventPastFiles)

	// A sends a message; both connections receive the broadcast.
	send(t, ctx, connA, proto.InboundTypeSendMessage, proto.SendMessageData{
		Room:    ack.Room,
		Message: proto.MessagePayload{Text: "hi there", Timestamp: time.Now().UnixMilli()},
	})

	forA := readEvent(t, ctx, connA, proto.EventReceiveMessage)
	forB := readEvent(t, ctx, connB, proto.EventReceiveMessage)

	var msgA, msgB proto.MessagePayload
	if err := json.Unmarshal(forA.Data, &msgA); err != nil {
		t.Fatalf("unmarshal message for A: %v", err)
	}
	if err := json.Unmarshal(forB.Data, &msgB); err != nil {
		t.Fatalf("unmarshal message for B: %v", err)
	}
	if msgA.ID != msgB.ID || msgA.Text != msgB.Text {
		t.Fatalf("broadcast diverged: %+v vs %+v", msgA, msgB)
	}
	if msgB.Text != "hi there" || msgB.Sender == "" {
		t.Fatalf("unexpected message payload: %+v", msgB)
	}

	// A shares a file; B receives it with the blob intact.
	send(t, ctx, connA, proto.InboundTypeSendFile, proto.SendFileData{
		Room: ack.Room,
		File: proto.FilePayload{Name: "hello.txt", MediaType: "text/plain", Data: "data:text/plain;base64,aGVsbG8="},
	})
	fileEv := readEvent(t, ctx, connB, proto.EventReceiveFile)
	var file proto.FilePayload
	if err := json.Unmarshal(fileEv.Data, &file); err != nil {
		t.Fatalf("unmarshal file: %v", err)
	}
	if file.Name != "hello.txt" || file.Data != "data:text/plain;base64,aGVsbG8=" {
		t.Fatalf("unexpected file payload: %+v", file)
	}
}

func TestJoinUnknownRoomAcksFailure(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	send(t, ctx, conn, proto.InboundTypeJoinRoom, proto.JoinData{Room: "ZZZZZ"})
	joined := readEvent(t, ctx, conn, proto.EventRoomJoined)

	var ack proto.RoomAck
	if err := json.Unmarshal(joined.Data, &ack); err != nil {
		t.Fatalf("unmarshal join ack: %v", err)
	}
	if ack.Success || ack.Message == "" {
		t.Fatalf("expected failure ack with reason, got %+v", ack)
	}
}

func TestHistoryReplayAfterTraffic(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")

	send(t, ctx, connA, proto.InboundTypeCreateRoom, nil)
	created := readEvent(t, ctx, connA, proto.EventRoomCreated)
	var ack proto.RoomAck
	if err := json.Unmarshal(created.Data, &ack); err != nil {
		t.Fatalf("unmarshal create ack: %v", err)
	}

	for _, text := range []string{"one", "two", "three"} {
		send(t, ctx, connA, proto.InboundTypeSendMessage, proto.SendMessageData{
			Room:    ack.Room,
			Message: proto.MessagePayload{Text: text},
		})
		readEvent(t, ctx, connA, proto.EventReceiveMessage)
	}

	connB := dialWS(t, ctx, ts)
	defer connB.Close(websocket.StatusNormalClosure, "done")

	send(t, ctx, connB, proto.InboundTypeJoinRoom, proto.JoinData{Room: ack.Room})
	past := readEvent(t, ctx, connB, proto.EventPastMessages)

	var history []proto.MessagePayload
	if err := json.Unmarshal(past.Data, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	for i, text := range []string{"one", "two", "three"} {
		if history[i].Text != text {
			t.Fatalf("history out of order at %d: %+v", i, history)
		}
	}
}

func TestMalformedPayloadKeepsConnectionOpen(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	// A payload of the wrong JSON shape must be answered, not dropped.
	send(t, ctx, conn, proto.InboundTypeJoinRoom, 123)

	var outbound testOutbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read error response: %v", err)
	}
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil || outbound.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", outbound)
	}

	// The connection is still usable afterwards.
	send(t, ctx, conn, proto.InboundTypeCreateRoom, nil)
	created := readEvent(t, ctx, conn, proto.EventRoomCreated)
	var ack proto.RoomAck
	if err := json.Unmarshal(created.Data, &ack); err != nil {
		t.Fatalf("unmarshal create ack: %v", err)
	}
	if !ack.Success {
		t.Fatalf("expected successful create after malformed payload: %+v", ack)
	}
}

func TestUnknownInboundTypeReturnsError(t *testing.T) {
	ts, cancel := startTestServer(t)
	defer cancel()

	ctx, closeCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCtx()

	conn := dialWS(t, ctx, ts)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	send(t, ctx, conn, "bogus", nil)

	var outbound testOutbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read error response: %v", err)
	}
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil {
		t.Fatalf("expected error response, got %+v", outbound)
	}
}
