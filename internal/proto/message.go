package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeLogin        = "login"
	InboundTypeInvite       = "invite"
	InboundTypeCancelInvite = "cancel-invite"
	InboundTypeAcceptInvite = "accept-invite"
	InboundTypeRejectInvite = "reject-invite"
	InboundTypeJoinRoom     = "join-room"
	InboundTypeLeaveRoom    = "leave-room"
	InboundTypeDrawLine     = "draw-line"
	InboundTypeClear        = "clear"
	InboundTypeCanvasState  = "canvas-state"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// Outbound event names as delivered to clients.
const (
	EventUpdateUserList      = "updateUserList"
	EventUpdateUserStates    = "updateUserStates"
	EventUpdateInvites       = "updateInvites"
	EventInvite              = "invite"
	EventInviteAccepted      = "invite-accepted"
	EventInviteRejected      = "invite-rejected"
	EventInviteCancelled     = "invite-cancelled"
	EventStartDrawing        = "start-drawing-session"
	EventPartnerLeft         = "partner-left"
	EventPartnerDisconnected = "partner-disconnected"
	EventUnauthorized        = "unauthorized-access"
	EventCanvasState         = "canvas-state-from-server"
	EventDrawLine            = "draw-line"
	EventClear               = "clear"
)

// LoginData announces the client's identity. When a token is present the
// server derives the identity from its verified subject instead.
type LoginData struct {
	User  string `json:"user"`
	Token string `json:"token,omitempty"`
}

// InviteData targets another user by name (invite, cancel-invite).
type InviteData struct {
	Invitee string `json:"invitee"`
}

// AcceptInviteData answers an invite using the inviter's session reference
// delivered with the invite event.
type AcceptInviteData struct {
	InviterRef string `json:"inviterRef"`
}

// RejectInviteData declines an invite.
type RejectInviteData struct {
	InviterRef  string `json:"inviterRef"`
	InviteeName string `json:"inviteeName,omitempty"`
}

// RoomData names a room (join-room, leave-room, clear).
type RoomData struct {
	Room string `json:"room"`
}

// Point is a canvas coordinate on the wire.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawLineData is one stroke step. A missing prevPoint marks the start of
// a new stroke (a dot).
type DrawLineData struct {
	PrevPoint    *Point `json:"prevPoint,omitempty"`
	CurrentPoint Point  `json:"currentPoint"`
	Color        string `json:"color"`
	Room         string `json:"roomName,omitempty"`
}

// CanvasStateData carries the opaque encoded canvas, both when a member
// uploads it and when the server serves it to a late joiner.
type CanvasStateData struct {
	Room  string `json:"room,omitempty"`
	State string `json:"state"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventInviteData notifies the invitee of a new invite.
type EventInviteData struct {
	InviterRef  string `json:"inviterRef"`
	InviterName string `json:"inviterName"`
}

// EventRoomData carries a room name (invite-accepted, start-drawing-session).
type EventRoomData struct {
	Room string `json:"room"`
}

// EventInviteRejectedData tells the inviter who declined.
type EventInviteRejectedData struct {
	InviteeName string `json:"inviteeName"`
}

// EventInviteCancelledData tells the invitee whose invite was withdrawn.
type EventInviteCancelledData struct {
	InviterName string `json:"inviterName"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
