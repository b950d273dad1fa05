package core

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkStrokeRelay(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	alice := NewClient("sa")
	bob := NewClient("sb")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	alice.Commands <- &Command{Kind: CommandLogin, User: "alice"}
	bob.Commands <- &Command{Kind: CommandLogin, User: "bob"}

	alice.Commands <- &Command{Kind: CommandInvite, Invitee: "bob"}
	var inviterRef string
	for ev := range bob.Events {
		if ev.Kind == EventInvite {
			inviterRef = ev.InviterRef
			break
		}
	}
	bob.Commands <- &Command{Kind: CommandAcceptInvite, InviterRef: inviterRef}

	var room string
	for ev := range bob.Events {
		if ev.Kind == EventInviteAccepted {
			room = ev.Room
			break
		}
	}
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: room}
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: room}

	// Drain everything except draw events on the receiving side.
	recv := make(chan *Event, 1)
	go func() {
		for ev := range bob.Events {
			if ev.Kind == EventDrawLine {
				recv <- ev
			}
		}
	}()
	go func() {
		for range alice.Events {
		}
	}()

	stroke := &Stroke{Kind: StrokeSegment, From: Point{X: 1, Y: 1}, To: Point{X: 2, Y: 2}, Color: "#000"}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		alice.Commands <- &Command{Kind: CommandDrawLine, Room: room, Stroke: stroke}
		<-recv
	}
}

func BenchmarkPresenceBroadcast(b *testing.B) {
	for _, clients := range []int{10, 100} {
		b.Run(fmt.Sprintf("clients_%d", clients), func(b *testing.B) {
			benchmarkPresenceBroadcast(b, clients)
		})
	}
}

func benchmarkPresenceBroadcast(b *testing.B, clients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, nil)
	go hub.Run(ctx)

	target := NewClient("target")
	hub.RegisterClient(target)
	target.Commands <- &Command{Kind: CommandLogin, User: "target"}

	for i := 0; i < clients; i++ {
		c := NewClient(fmt.Sprintf("s%d", i))
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandLogin, User: fmt.Sprintf("user%d", i)}
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}

	recv := make(chan struct{}, 1)
	go func() {
		for ev := range target.Events {
			if ev.Kind == EventInviteCancelled {
				recv <- struct{}{}
			}
		}
	}()

	inviter := NewClient("inviter")
	hub.RegisterClient(inviter)
	inviter.Commands <- &Command{Kind: CommandLogin, User: "inviter"}
	go func() {
		for range inviter.Events {
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()

	// Each iteration creates and cancels an invite, driving two full
	// invite-mapping broadcasts plus a targeted cancellation.
	for i := 0; i < b.N; i++ {
		inviter.Commands <- &Command{Kind: CommandInvite, Invitee: "target"}
		inviter.Commands <- &Command{Kind: CommandCancelInvite, Invitee: "target"}
		<-recv
	}
}
