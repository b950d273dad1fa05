package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventUserList delivers the full set of online identities.
	EventUserList EventKind = iota
	// EventUserStates delivers the full identity -> presence mapping.
	EventUserStates
	// EventInvites delivers the full inviter -> invitees mapping.
	EventInvites
	// EventInvite notifies the invitee of a new invite.
	EventInvite
	// EventInviteAccepted tells the accepting invitee which room was formed.
	EventInviteAccepted
	// EventInviteRejected tells the inviter who declined.
	EventInviteRejected
	// EventInviteCancelled tells the invitee the invite was withdrawn.
	EventInviteCancelled
	// EventStartDrawing tells the inviter which room to enter.
	EventStartDrawing
	// EventPartnerLeft tells the remaining member the partner left on purpose.
	EventPartnerLeft
	// EventPartnerDisconnected tells the remaining member the partner's
	// transport dropped.
	EventPartnerDisconnected
	// EventUnauthorized refuses a join to a room the client is not part of.
	EventUnauthorized
	// EventCanvasState delivers the room snapshot to a joining member.
	EventCanvasState
	// EventDrawLine relays one stroke from the room partner.
	EventDrawLine
	// EventClear relays a canvas reset from the room partner.
	EventClear
	// EventError notifies the client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind EventKind

	Users   []string
	States  map[string]PresenceState
	Invites map[string][]string

	// Invite participants. InviterRef is the inviter's session reference
	// so the invitee can answer without knowing connection internals.
	InviterRef string
	Inviter    string
	Invitee    string

	Room     string
	Stroke   *Stroke
	Snapshot string

	Error *CoreError
}
