package core

import "sort"

// invitePair is one ordered (inviter, invitee) pairing.
type invitePair struct {
	Inviter string
	Invitee string
}

// inviteSet owns the pending invites. At most one pending invite exists
// per ordered pair. Mutated only from the hub goroutine.
type inviteSet struct {
	pending map[invitePair]struct{}
}

func newInviteSet() *inviteSet {
	return &inviteSet{pending: make(map[invitePair]struct{})}
}

// add records a pending invite. Returns false if the pair already has one.
func (s *inviteSet) add(inviter, invitee string) bool {
	pair := invitePair{Inviter: inviter, Invitee: invitee}
	if _, exists := s.pending[pair]; exists {
		return false
	}
	s.pending[pair] = struct{}{}
	return true
}

// remove deletes a pending invite. Returns false if none existed.
func (s *inviteSet) remove(inviter, invitee string) bool {
	pair := invitePair{Inviter: inviter, Invitee: invitee}
	if _, exists := s.pending[pair]; !exists {
		return false
	}
	delete(s.pending, pair)
	return true
}

func (s *inviteSet) has(inviter, invitee string) bool {
	_, exists := s.pending[invitePair{Inviter: inviter, Invitee: invitee}]
	return exists
}

// purge removes every invite touching identity, inbound and outbound, and
// returns the removed pairs so counter-parties can be notified.
func (s *inviteSet) purge(identity string) []invitePair {
	var removed []invitePair
	for pair := range s.pending {
		if pair.Inviter == identity || pair.Invitee == identity {
			delete(s.pending, pair)
			removed = append(removed, pair)
		}
	}
	return removed
}

// snapshot returns the full inviter -> invitees mapping with sorted
// invitee lists for broadcast.
func (s *inviteSet) snapshot() map[string][]string {
	out := make(map[string][]string)
	for pair := range s.pending {
		out[pair.Inviter] = append(out[pair.Inviter], pair.Invitee)
	}
	for inviter := range out {
		sort.Strings(out[inviter])
	}
	return out
}
