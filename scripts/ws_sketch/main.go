package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/sketchpair/sketchpair-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_sketch: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "display name to log in with")
	token := flag.String("token", "", "optional JWT from /api/login")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) {
		payload, err := json.Marshal(data)
		if err != nil {
			log.Printf("marshal %s: %v", msgType, err)
			return
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.InboundTypeLogin, proto.LoginData{User: *user, Token: *token})

	fmt.Printf("Connected to %s as %s\n", *addr, *user)
	fmt.Println("Commands: invite NAME | cancel NAME | accept REF | reject REF | join ROOM | leave ROOM | draw ROOM X Y [X2 Y2] | clear ROOM. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			fmt.Printf("server error: %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
			continue
		}

		switch outbound.Event {
		case proto.EventInvite:
			var evt proto.EventInviteData
			if decodeData(outbound.Data, &evt) {
				fmt.Printf("invite from %s (accept with: accept %s)\n", evt.InviterName, evt.InviterRef)
			}
		case proto.EventInviteAccepted, proto.EventStartDrawing:
			var evt proto.EventRoomData
			if decodeData(outbound.Data, &evt) {
				fmt.Printf("session ready, join with: join %s\n", evt.Room)
			}
		case proto.EventInviteRejected:
			var evt proto.EventInviteRejectedData
			if decodeData(outbound.Data, &evt) {
				fmt.Printf("%s declined your invite\n", evt.InviteeName)
			}
		case proto.EventInviteCancelled:
			var evt proto.EventInviteCancelledData
			if decodeData(outbound.Data, &evt) {
				fmt.Printf("%s withdrew their invite\n", evt.InviterName)
			}
		case proto.EventDrawLine:
			var evt proto.DrawLineData
			if decodeData(outbound.Data, &evt) {
				if evt.PrevPoint != nil {
					fmt.Printf("partner drew %v -> %v in %s\n", *evt.PrevPoint, evt.CurrentPoint, evt.Color)
				} else {
					fmt.Printf("partner dotted %v in %s\n", evt.CurrentPoint, evt.Color)
				}
			}
		case proto.EventClear:
			fmt.Println("partner cleared the canvas")
		case proto.EventCanvasState:
			var evt proto.CanvasStateData
			if decodeData(outbound.Data, &evt) {
				fmt.Printf("canvas snapshot received (%d bytes)\n", len(evt.State))
			}
		case proto.EventPartnerLeft:
			fmt.Println("partner left the session")
		case proto.EventPartnerDisconnected:
			fmt.Println("partner disconnected")
		case proto.EventUnauthorized:
			fmt.Println("unauthorized room access")
		default:
			fmt.Printf("event=%s data=%v\n", outbound.Event, outbound.Data)
		}
	}
}

func decodeData(data any, dst any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("marshal outbound data: %v", err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("unmarshal outbound data: %v", err)
		return false
	}
	return true
}

func writeLoop(ctx context.Context, send func(string, any)) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "invite":
				if len(fields) == 2 {
					send(proto.InboundTypeInvite, proto.InviteData{Invitee: fields[1]})
				}
			case "cancel":
				if len(fields) == 2 {
					send(proto.InboundTypeCancelInvite, proto.InviteData{Invitee: fields[1]})
				}
			case "accept":
				if len(fields) == 2 {
					send(proto.InboundTypeAcceptInvite, proto.AcceptInviteData{InviterRef: fields[1]})
				}
			case "reject":
				if len(fields) == 2 {
					send(proto.InboundTypeRejectInvite, proto.RejectInviteData{InviterRef: fields[1]})
				}
			case "join":
				if len(fields) == 2 {
					send(proto.InboundTypeJoinRoom, proto.RoomData{Room: fields[1]})
				}
			case "leave":
				if len(fields) == 2 {
					send(proto.InboundTypeLeaveRoom, proto.RoomData{Room: fields[1]})
				}
			case "draw":
				data, ok := parseDraw(fields[1:])
				if ok {
					send(proto.InboundTypeDrawLine, data)
				} else {
					fmt.Println("usage: draw ROOM X Y [X2 Y2]")
				}
			case "clear":
				if len(fields) == 2 {
					send(proto.InboundTypeClear, proto.RoomData{Room: fields[1]})
				}
			default:
				fmt.Printf("unknown command %q\n", fields[0])
			}
		}
	}
}

func parseDraw(args []string) (proto.DrawLineData, bool) {
	if len(args) != 3 && len(args) != 5 {
		return proto.DrawLineData{}, false
	}
	coords := make([]float64, 0, 4)
	for _, arg := range args[1:] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return proto.DrawLineData{}, false
		}
		coords = append(coords, v)
	}

	data := proto.DrawLineData{
		Room:         args[0],
		Color:        "#000000",
		CurrentPoint: proto.Point{X: coords[0], Y: coords[1]},
	}
	if len(coords) == 4 {
		data.PrevPoint = &proto.Point{X: coords[0], Y: coords[1]}
		data.CurrentPoint = proto.Point{X: coords[2], Y: coords[3]}
	}
	return data, true
}
