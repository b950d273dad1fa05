package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdentityVerifier resolves an opaque token to the identity it carries.
// The auth service implements it; nil disables verification so the core
// trusts the client-claimed name (tests, trusted deployments).
type IdentityVerifier interface {
	VerifyIdentity(token string) (string, error)
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// Hub coordinates sessions: presence, invites, room lifecycle and stroke
// replication. All shared state is touched only from the Run goroutine;
// cross-client effects are non-blocking event sends.
type Hub struct {
	verifier IdentityVerifier
	log      zerolog.Logger

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand

	clients   map[*Client]struct{}
	byName    map[string]*Client
	bySession map[string]*Client

	presence *presenceRegistry
	invites  *inviteSet
	rooms    map[string]*Room
}

// NewHub creates a hub. verifier and logger may be nil.
func NewHub(verifier IdentityVerifier, logger *zerolog.Logger) *Hub {
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &Hub{
		verifier:   verifier,
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		clients:    make(map[*Client]struct{}),
		byName:     make(map[string]*Client),
		bySession:  make(map[string]*Client),
		presence:   newPresenceRegistry(),
		invites:    newInviteSet(),
		rooms:      make(map[string]*Room),
	}
}

// RegisterClient hands a new session channel to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a session channel, cleaning up all state the
// identity held (presence, invites, room membership).
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.bySession[c.ID] = c
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.dropClient(c)
		case cc := <-h.commands:
			if _, ok := h.clients[cc.client]; !ok {
				continue
			}
			h.dispatch(cc.client, cc.cmd)
		}
	}
}

// pump funnels one client's commands into the hub queue, preserving the
// per-connection FIFO order.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd := <-c.Commands:
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if cmd == nil {
		return
	}
	if cmd.Kind != CommandLogin && c.Name == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeNotLoggedIn, "login first")})
		return
	}

	switch cmd.Kind {
	case CommandLogin:
		h.handleLogin(c, cmd)
	case CommandInvite:
		h.handleInvite(c, cmd.Invitee)
	case CommandCancelInvite:
		h.handleCancelInvite(c, cmd.Invitee)
	case CommandAcceptInvite:
		h.handleAcceptInvite(c, cmd.InviterRef)
	case CommandRejectInvite:
		h.handleRejectInvite(c, cmd.InviterRef)
	case CommandJoinRoom:
		h.handleJoinRoom(c, cmd.Room)
	case CommandLeaveRoom:
		h.handleLeaveRoom(c, cmd.Room)
	case CommandDrawLine:
		h.handleDrawLine(c, cmd.Room, cmd.Stroke)
	case CommandClear:
		h.handleClear(c, cmd.Room)
	case CommandCanvasState:
		h.handleCanvasState(c, cmd.Room, cmd.Snapshot)
	}
}

// dropClient handles transport loss and normal closes alike: room
// disconnect teardown, invite purge, presence removal.
func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	delete(h.bySession, c.ID)

	if c.Name != "" {
		if room := h.rooms[c.Room]; room != nil {
			h.closeRoom(room, c.Name, EventPartnerDisconnected)
		}
		h.purgeInvites(c.Name)
		h.presence.remove(c.Name)
		delete(h.byName, c.Name)
		h.broadcastPresence()
		h.broadcastInvites()
		h.log.Info().Str("user", c.Name).Msg("session closed")
	}

	close(c.done)
}

func (h *Hub) handleLogin(c *Client, cmd *Command) {
	if c.Name != "" {
		return // already logged in, idempotent
	}

	name := cmd.User
	if h.verifier != nil && cmd.Token != "" {
		verified, err := h.verifier.VerifyIdentity(cmd.Token)
		if err != nil {
			h.log.Warn().Err(err).Str("session", c.ID).Msg("login token rejected")
			c.send(&Event{Kind: EventError, Error: coreError(ErrCodeUnauthorized, "invalid token")})
			return
		}
		name = verified
	}
	if name == "" {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "identity is required")})
		return
	}
	if _, taken := h.byName[name]; taken {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeIdentityInUse, "identity already connected")})
		return
	}

	c.Name = name
	h.byName[name] = c
	h.presence.setOnline(name)
	h.broadcastPresence()
	h.broadcastInvites()
	h.log.Info().Str("user", name).Str("session", c.ID).Msg("logged in")
}

func (h *Hub) handleInvite(c *Client, invitee string) {
	// Presence races and duplicates resolve as silent no-ops; the next
	// presence broadcast corrects the client's view.
	if invitee == "" || invitee == c.Name {
		return
	}
	if !h.presence.isOnline(c.Name) || !h.presence.isOnline(invitee) {
		return
	}
	if !h.invites.add(c.Name, invitee) {
		return
	}

	if target := h.byName[invitee]; target != nil {
		target.send(&Event{Kind: EventInvite, InviterRef: c.ID, Inviter: c.Name})
	}
	h.broadcastInvites()
	h.log.Debug().Str("inviter", c.Name).Str("invitee", invitee).Msg("invite created")
}

func (h *Hub) handleCancelInvite(c *Client, invitee string) {
	if !h.invites.remove(c.Name, invitee) {
		return
	}
	if target := h.byName[invitee]; target != nil {
		target.send(&Event{Kind: EventInviteCancelled, Inviter: c.Name})
	}
	h.broadcastInvites()
}

func (h *Hub) handleAcceptInvite(c *Client, inviterRef string) {
	inviter := h.bySession[inviterRef]
	if inviter == nil || inviter.Name == "" {
		return // inviter gone, stale accept
	}
	if !h.invites.remove(inviter.Name, c.Name) {
		return // no pending invite, benign race
	}

	// Resolving one negotiation invalidates every other invite touching
	// either party.
	h.purgeInvites(inviter.Name)
	h.purgeInvites(c.Name)

	room := NewRoom(h.newRoomName(inviter.Name, c.Name), inviter.Name, c.Name)
	h.rooms[room.Name] = room
	inviter.Room = room.Name
	c.Room = room.Name
	h.presence.setInGame(inviter.Name)
	h.presence.setInGame(c.Name)
	room.State = RoomActive

	c.send(&Event{Kind: EventInviteAccepted, Room: room.Name})
	inviter.send(&Event{Kind: EventStartDrawing, Room: room.Name})
	h.broadcastPresence()
	h.broadcastInvites()
	h.log.Info().Str("room", room.Name).Str("inviter", inviter.Name).Str("invitee", c.Name).Msg("room created")
}

func (h *Hub) handleRejectInvite(c *Client, inviterRef string) {
	inviter := h.bySession[inviterRef]
	if inviter == nil || inviter.Name == "" {
		return
	}
	if !h.invites.remove(inviter.Name, c.Name) {
		return
	}
	inviter.send(&Event{Kind: EventInviteRejected, Invitee: c.Name})
	h.broadcastInvites()
}

func (h *Hub) handleJoinRoom(c *Client, roomName string) {
	room := h.rooms[roomName]
	if room == nil || room.State != RoomActive || !room.IsMember(c.Name) {
		c.send(&Event{Kind: EventUnauthorized})
		return
	}
	room.Attach(c.Name)
	if room.snapshot != "" {
		c.send(&Event{Kind: EventCanvasState, Snapshot: room.snapshot})
	}
}

func (h *Hub) handleLeaveRoom(c *Client, roomName string) {
	room := h.rooms[roomName]
	if room == nil || room.State != RoomActive || !room.IsMember(c.Name) {
		return
	}
	h.closeRoom(room, c.Name, EventPartnerLeft)
	// The leaver stays connected and returns to the waiting room.
	h.presence.setOnline(c.Name)
	h.broadcastPresence()
}

func (h *Hub) handleDrawLine(c *Client, roomName string, stroke *Stroke) {
	room := h.rooms[roomName]
	if room == nil || room.State != RoomActive || !room.IsMember(c.Name) || stroke == nil {
		return
	}
	if partner := h.byName[room.Other(c.Name)]; partner != nil && room.Attached(partner.Name) {
		partner.send(&Event{Kind: EventDrawLine, Room: room.Name, Stroke: stroke})
	}
}

func (h *Hub) handleClear(c *Client, roomName string) {
	room := h.rooms[roomName]
	if room == nil || room.State != RoomActive || !room.IsMember(c.Name) {
		return
	}
	room.snapshot = ""
	if partner := h.byName[room.Other(c.Name)]; partner != nil && room.Attached(partner.Name) {
		partner.send(&Event{Kind: EventClear, Room: room.Name})
	}
}

func (h *Hub) handleCanvasState(c *Client, roomName, snapshot string) {
	room := h.rooms[roomName]
	if room == nil || room.State != RoomActive || !room.IsMember(c.Name) {
		return
	}
	room.snapshot = snapshot
}

// closeRoom tears down a room after leaver departed. The remaining member
// is notified with kind (partner-left vs partner-disconnected) and
// restored to online. The caller handles the leaver's own presence.
func (h *Hub) closeRoom(room *Room, leaver string, kind EventKind) {
	room.State = RoomClosing
	room.snapshot = ""

	remaining := room.Other(leaver)
	if partner := h.byName[remaining]; partner != nil {
		partner.send(&Event{Kind: kind})
		partner.Room = ""
	}
	if leaverClient := h.byName[leaver]; leaverClient != nil {
		leaverClient.Room = ""
	}
	h.presence.setOnline(remaining)

	room.State = RoomClosed
	delete(h.rooms, room.Name)
	h.log.Info().Str("room", room.Name).Str("leaver", leaver).Msg("room closed")
}

// purgeInvites drops every pending invite touching identity and notifies
// the counter-parties. Callers broadcast the invite mapping afterwards.
func (h *Hub) purgeInvites(identity string) {
	for _, pair := range h.invites.purge(identity) {
		if pair.Inviter != identity {
			// Inbound invite: the inviter reconciles through the full
			// invite mapping broadcast that follows.
			continue
		}
		if invitee := h.byName[pair.Invitee]; invitee != nil {
			invitee.send(&Event{Kind: EventInviteCancelled, Inviter: pair.Inviter})
		}
	}
}

func (h *Hub) newRoomName(a, b string) string {
	return fmt.Sprintf("%s-%s-%s", a, b, uuid.NewString()[:8])
}

// broadcastPresence sends the full user list and state mapping to every
// logged-in client. Consumers always receive the complete mapping.
func (h *Hub) broadcastPresence() {
	users := h.presence.users()
	states := h.presence.snapshot()
	for _, c := range h.byName {
		c.send(&Event{Kind: EventUserList, Users: users})
		c.send(&Event{Kind: EventUserStates, States: states})
	}
}

// broadcastInvites sends the full inviter -> invitees mapping to every
// logged-in client.
func (h *Hub) broadcastInvites() {
	invites := h.invites.snapshot()
	for _, c := range h.byName {
		c.send(&Event{Kind: EventInvites, Invites: invites})
	}
}
