package core

import "testing"

func TestInviteSetOrderedPairUniqueness(t *testing.T) {
	s := newInviteSet()

	if !s.add("alice", "bob") {
		t.Fatal("first add should succeed")
	}
	if s.add("alice", "bob") {
		t.Fatal("duplicate add should fail")
	}
	// The reverse direction is a distinct ordered pair.
	if !s.add("bob", "alice") {
		t.Fatal("reverse pair should be independent")
	}
}

func TestInviteSetPurgeTouchingIdentity(t *testing.T) {
	s := newInviteSet()
	s.add("alice", "bob")
	s.add("carol", "alice")
	s.add("carol", "dave")

	removed := s.purge("alice")
	if len(removed) != 2 {
		t.Fatalf("expected 2 purged pairs, got %d: %+v", len(removed), removed)
	}
	for _, pair := range removed {
		if pair.Inviter != "alice" && pair.Invitee != "alice" {
			t.Fatalf("purged pair does not touch alice: %+v", pair)
		}
	}
	if !s.has("carol", "dave") {
		t.Fatal("unrelated invite must survive the purge")
	}
}

func TestInviteSetSnapshotGroupsByInviter(t *testing.T) {
	s := newInviteSet()
	s.add("alice", "carol")
	s.add("alice", "bob")
	s.add("dave", "bob")

	snap := s.snapshot()
	if len(snap["alice"]) != 2 || snap["alice"][0] != "bob" || snap["alice"][1] != "carol" {
		t.Fatalf("unexpected alice invitees: %+v", snap["alice"])
	}
	if len(snap["dave"]) != 1 || snap["dave"][0] != "bob" {
		t.Fatalf("unexpected dave invitees: %+v", snap["dave"])
	}
}

func TestPresenceRegistryIdempotentAndSorted(t *testing.T) {
	p := newPresenceRegistry()

	p.setOnline("bob")
	p.setOnline("alice")
	p.setOnline("alice")

	users := p.users()
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Fatalf("unexpected users: %+v", users)
	}

	p.setInGame("alice")
	if p.isOnline("alice") {
		t.Fatal("in-game identity must not report online")
	}

	p.remove("alice")
	if _, tracked := p.snapshot()["alice"]; tracked {
		t.Fatal("removed identity must not be tracked")
	}
	if p.isOnline("ghost") {
		t.Fatal("unknown identity must not report online")
	}
}
