package core

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustNoEvent drains ch for a short window and fails if kind shows up.
func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v received: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func login(t *testing.T, hub *Hub, id, name string) *Client {
	t.Helper()

	c := NewClient(id)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandLogin, User: name}
	mustEvent(t, c.Events, EventUserList)
	return c
}

// pairUp drives invite -> accept and returns the formed room name.
// inviteeName is passed explicitly so tests never read Client.Name, which
// belongs to the hub goroutine.
func pairUp(t *testing.T, inviter, invitee *Client, inviteeName string) string {
	t.Helper()

	inviter.Commands <- &Command{Kind: CommandInvite, Invitee: inviteeName}
	inviteEv := mustEvent(t, invitee.Events, EventInvite)

	invitee.Commands <- &Command{Kind: CommandAcceptInvite, InviterRef: inviteEv.InviterRef}
	accepted := mustEvent(t, invitee.Events, EventInviteAccepted)
	started := mustEvent(t, inviter.Events, EventStartDrawing)
	if accepted.Room != started.Room {
		t.Fatalf("room mismatch: invitee got %q, inviter got %q", accepted.Room, started.Room)
	}
	return accepted.Room
}
