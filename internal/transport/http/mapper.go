package http

import (
	"encoding/json"

	"github.com/sketchpair/sketchpair-server/internal/core"
	"github.com/sketchpair/sketchpair-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeLogin:
		var login proto.LoginData
		if err := json.Unmarshal(inbound.Data, &login); err != nil {
			return nil, nil, err
		}
		if login.User == "" && login.Token == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "user or token is required"}, nil
		}
		return &core.Command{Kind: core.CommandLogin, User: login.User, Token: login.Token}, nil, nil

	case proto.InboundTypeInvite, proto.InboundTypeCancelInvite:
		var invite proto.InviteData
		if err := json.Unmarshal(inbound.Data, &invite); err != nil {
			return nil, nil, err
		}
		if invite.Invitee == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "invitee is required"}, nil
		}
		kind := core.CommandInvite
		if inbound.Type == proto.InboundTypeCancelInvite {
			kind = core.CommandCancelInvite
		}
		return &core.Command{Kind: kind, Invitee: invite.Invitee}, nil, nil

	case proto.InboundTypeAcceptInvite:
		var accept proto.AcceptInviteData
		if err := json.Unmarshal(inbound.Data, &accept); err != nil {
			return nil, nil, err
		}
		if accept.InviterRef == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "inviterRef is required"}, nil
		}
		return &core.Command{Kind: core.CommandAcceptInvite, InviterRef: accept.InviterRef}, nil, nil

	case proto.InboundTypeRejectInvite:
		var reject proto.RejectInviteData
		if err := json.Unmarshal(inbound.Data, &reject); err != nil {
			return nil, nil, err
		}
		if reject.InviterRef == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "inviterRef is required"}, nil
		}
		return &core.Command{Kind: core.CommandRejectInvite, InviterRef: reject.InviterRef}, nil, nil

	case proto.InboundTypeJoinRoom, proto.InboundTypeLeaveRoom, proto.InboundTypeClear:
		var room proto.RoomData
		if err := json.Unmarshal(inbound.Data, &room); err != nil {
			return nil, nil, err
		}
		if room.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		var kind core.CommandKind
		switch inbound.Type {
		case proto.InboundTypeJoinRoom:
			kind = core.CommandJoinRoom
		case proto.InboundTypeLeaveRoom:
			kind = core.CommandLeaveRoom
		default:
			kind = core.CommandClear
		}
		return &core.Command{Kind: kind, Room: room.Room}, nil, nil

	case proto.InboundTypeDrawLine:
		var draw proto.DrawLineData
		if err := json.Unmarshal(inbound.Data, &draw); err != nil {
			return nil, nil, err
		}
		if draw.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomName is required"}, nil
		}
		return &core.Command{
			Kind:   core.CommandDrawLine,
			Room:   draw.Room,
			Stroke: strokeFromWire(draw),
		}, nil, nil

	case proto.InboundTypeCanvasState:
		var state proto.CanvasStateData
		if err := json.Unmarshal(inbound.Data, &state); err != nil {
			return nil, nil, err
		}
		if state.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{Kind: core.CommandCanvasState, Room: state.Room, Snapshot: state.State}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

// strokeFromWire maps the nullable prevPoint wire shape onto the explicit
// dot-vs-segment stroke model.
func strokeFromWire(draw proto.DrawLineData) *core.Stroke {
	stroke := &core.Stroke{
		Kind:  core.StrokeDot,
		To:    core.Point{X: draw.CurrentPoint.X, Y: draw.CurrentPoint.Y},
		Color: draw.Color,
	}
	if draw.PrevPoint != nil {
		stroke.Kind = core.StrokeSegment
		stroke.From = core.Point{X: draw.PrevPoint.X, Y: draw.PrevPoint.Y}
	}
	return stroke
}

func strokeToWire(stroke *core.Stroke) proto.DrawLineData {
	data := proto.DrawLineData{
		CurrentPoint: proto.Point{X: stroke.To.X, Y: stroke.To.Y},
		Color:        stroke.Color,
	}
	if stroke.Kind == core.StrokeSegment {
		data.PrevPoint = &proto.Point{X: stroke.From.X, Y: stroke.From.Y}
	}
	return data
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventUserList:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventUpdateUserList, Data: event.Users}

	case core.EventUserStates:
		states := make(map[string]string, len(event.States))
		for identity, state := range event.States {
			states[identity] = string(state)
		}
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventUpdateUserStates, Data: states}

	case core.EventInvites:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventUpdateInvites, Data: event.Invites}

	case core.EventInvite:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventInvite,
			Data:  proto.EventInviteData{InviterRef: event.InviterRef, InviterName: event.Inviter},
		}

	case core.EventInviteAccepted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventInviteAccepted,
			Data:  proto.EventRoomData{Room: event.Room},
		}

	case core.EventInviteRejected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventInviteRejected,
			Data:  proto.EventInviteRejectedData{InviteeName: event.Invitee},
		}

	case core.EventInviteCancelled:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventInviteCancelled,
			Data:  proto.EventInviteCancelledData{InviterName: event.Inviter},
		}

	case core.EventStartDrawing:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventStartDrawing,
			Data:  proto.EventRoomData{Room: event.Room},
		}

	case core.EventPartnerLeft:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventPartnerLeft}

	case core.EventPartnerDisconnected:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventPartnerDisconnected}

	case core.EventUnauthorized:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventUnauthorized}

	case core.EventCanvasState:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCanvasState,
			Data:  proto.CanvasStateData{State: event.Snapshot},
		}

	case core.EventDrawLine:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventDrawLine,
			Data:  strokeToWire(event.Stroke),
		}

	case core.EventClear:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventClear}

	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}

	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
