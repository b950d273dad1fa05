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

	"github.com/sketchpair/sketchpair-server/internal/config"
	"github.com/sketchpair/sketchpair-server/internal/core"
	"github.com/sketchpair/sketchpair-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := core.NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	st := createTestStore(t)
	authService := createTestAuthService(t, st, "testsecret")
	disabledLogger := zerolog.Nop()

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(hub, authService, &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// awaitEvent reads outbound envelopes until the named event arrives.
func awaitEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) proto.Outbound {
	t.Helper()

	for {
		var outbound proto.Outbound
		raw := struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}{}
		if err := wsjson.Read(ctx, conn, &raw); err != nil {
			t.Fatalf("read while waiting for %s: %v", event, err)
		}
		if raw.Event != event {
			continue
		}
		outbound.Type = raw.Type
		outbound.Event = raw.Event
		outbound.Data = raw.Data
		return outbound
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketPairingAndDrawRelay(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendInbound(t, ctx, connA, proto.InboundTypeLogin, proto.LoginData{User: "alice"})
	sendInbound(t, ctx, connB, proto.InboundTypeLogin, proto.LoginData{User: "bob"})

	awaitEvent(t, ctx, connA, proto.EventUpdateUserList)
	awaitEvent(t, ctx, connB, proto.EventUpdateUserList)

	sendInbound(t, ctx, connA, proto.InboundTypeInvite, proto.InviteData{Invitee: "bob"})

	inviteOut := awaitEvent(t, ctx, connB, proto.EventInvite)
	var invite proto.EventInviteData
	if err := json.Unmarshal(inviteOut.Data.(json.RawMessage), &invite); err != nil {
		t.Fatalf("unmarshal invite: %v", err)
	}
	if invite.InviterName != "alice" || invite.InviterRef == "" {
		t.Fatalf("unexpected invite payload: %+v", invite)
	}

	sendInbound(t, ctx, connB, proto.InboundTypeAcceptInvite, proto.AcceptInviteData{InviterRef: invite.InviterRef})

	acceptedOut := awaitEvent(t, ctx, connB, proto.EventInviteAccepted)
	var accepted proto.EventRoomData
	if err := json.Unmarshal(acceptedOut.Data.(json.RawMessage), &accepted); err != nil {
		t.Fatalf("unmarshal invite-accepted: %v", err)
	}
	startedOut := awaitEvent(t, ctx, connA, proto.EventStartDrawing)
	var started proto.EventRoomData
	if err := json.Unmarshal(startedOut.Data.(json.RawMessage), &started); err != nil {
		t.Fatalf("unmarshal start-drawing-session: %v", err)
	}
	if accepted.Room == "" || accepted.Room != started.Room {
		t.Fatalf("room mismatch: %q vs %q", accepted.Room, started.Room)
	}
	room := accepted.Room

	sendInbound(t, ctx, connA, proto.InboundTypeJoinRoom, proto.RoomData{Room: room})
	sendInbound(t, ctx, connB, proto.InboundTypeJoinRoom, proto.RoomData{Room: room})

	// Give the joins a moment to land before drawing.
	time.Sleep(100 * time.Millisecond)

	sendInbound(t, ctx, connA, proto.InboundTypeDrawLine, proto.DrawLineData{
		PrevPoint:    &proto.Point{X: 10, Y: 10},
		CurrentPoint: proto.Point{X: 20, Y: 20},
		Color:        "#000",
		Room:         room,
	})

	drawOut := awaitEvent(t, ctx, connB, proto.EventDrawLine)
	var draw proto.DrawLineData
	if err := json.Unmarshal(drawOut.Data.(json.RawMessage), &draw); err != nil {
		t.Fatalf("unmarshal draw-line: %v", err)
	}
	if draw.PrevPoint == nil || draw.PrevPoint.X != 10 || draw.CurrentPoint.X != 20 || draw.Color != "#000" {
		t.Fatalf("unexpected draw payload: %+v", draw)
	}

	sendInbound(t, ctx, connA, proto.InboundTypeLeaveRoom, proto.RoomData{Room: room})
	awaitEvent(t, ctx, connB, proto.EventPartnerLeft)
}

func TestWebSocketDisconnectNotifiesPartner(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	sendInbound(t, ctx, connA, proto.InboundTypeLogin, proto.LoginData{User: "alice"})
	sendInbound(t, ctx, connB, proto.InboundTypeLogin, proto.LoginData{User: "bob"})

	awaitEvent(t, ctx, connA, proto.EventUpdateUserList)
	awaitEvent(t, ctx, connB, proto.EventUpdateUserList)

	sendInbound(t, ctx, connA, proto.InboundTypeInvite, proto.InviteData{Invitee: "bob"})
	inviteOut := awaitEvent(t, ctx, connB, proto.EventInvite)
	var invite proto.EventInviteData
	if err := json.Unmarshal(inviteOut.Data.(json.RawMessage), &invite); err != nil {
		t.Fatalf("unmarshal invite: %v", err)
	}
	sendInbound(t, ctx, connB, proto.InboundTypeAcceptInvite, proto.AcceptInviteData{InviterRef: invite.InviterRef})
	awaitEvent(t, ctx, connB, proto.EventInviteAccepted)

	// Drop alice's transport; bob must see partner-disconnected, not
	// partner-left.
	connA.Close(websocket.StatusNormalClosure, "gone")
	awaitEvent(t, ctx, connB, proto.EventPartnerDisconnected)
}
