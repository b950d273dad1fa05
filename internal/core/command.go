package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandLogin announces the client's identity and registers presence.
	CommandLogin CommandKind = iota
	// CommandInvite asks another online user to pair up.
	CommandInvite
	// CommandCancelInvite withdraws a pending invite the client sent.
	CommandCancelInvite
	// CommandAcceptInvite accepts a pending invite, forming a room.
	CommandAcceptInvite
	// CommandRejectInvite declines a pending invite.
	CommandRejectInvite
	// CommandJoinRoom attaches the client to its room for replication.
	CommandJoinRoom
	// CommandLeaveRoom voluntarily leaves the room, tearing it down.
	CommandLeaveRoom
	// CommandDrawLine relays one stroke to the room partner.
	CommandDrawLine
	// CommandClear resets the room canvas for both members.
	CommandClear
	// CommandCanvasState uploads the client's encoded canvas as the
	// room snapshot for late joiners.
	CommandCanvasState
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind

	// Login fields.
	User  string
	Token string

	// Invite fields. Invitee names the target identity; InviterRef is
	// the inviter's session reference as delivered by the invite event.
	Invitee    string
	InviterRef string

	// Room-scoped fields.
	Room     string
	Stroke   *Stroke
	Snapshot string
}
