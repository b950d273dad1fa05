package core

import "sort"

// PresenceState is the availability of a connected identity. Identities
// without an entry are offline and not tracked.
type PresenceState string

const (
	PresenceOnline PresenceState = "online"
	PresenceInGame PresenceState = "in-game"
)

// presenceRegistry owns the identity -> state mapping. It is mutated only
// from the hub goroutine; all operations are idempotent.
type presenceRegistry struct {
	states map[string]PresenceState
}

func newPresenceRegistry() *presenceRegistry {
	return &presenceRegistry{states: make(map[string]PresenceState)}
}

func (p *presenceRegistry) setOnline(identity string) {
	p.states[identity] = PresenceOnline
}

func (p *presenceRegistry) setInGame(identity string) {
	p.states[identity] = PresenceInGame
}

func (p *presenceRegistry) remove(identity string) {
	delete(p.states, identity)
}

func (p *presenceRegistry) isOnline(identity string) bool {
	return p.states[identity] == PresenceOnline
}

// users returns the sorted list of all tracked identities.
func (p *presenceRegistry) users() []string {
	users := make([]string, 0, len(p.states))
	for identity := range p.states {
		users = append(users, identity)
	}
	sort.Strings(users)
	return users
}

// snapshot returns a copy of the full mapping for broadcast.
func (p *presenceRegistry) snapshot() map[string]PresenceState {
	out := make(map[string]PresenceState, len(p.states))
	for identity, state := range p.states {
		out[identity] = state
	}
	return out
}
