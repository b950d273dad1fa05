package core

// RoomState tracks the room lifecycle. Closed is terminal; room names are
// never reused.
type RoomState int

const (
	RoomForming RoomState = iota
	RoomActive
	RoomClosing
	RoomClosed
)

// Room is an exclusive two-member drawing session. Members are fixed at
// creation; the room never holds fewer or more than two declared members.
type Room struct {
	Name    string
	State   RoomState
	Members [2]string

	// attached marks members that have sent join-room and therefore
	// receive replication events.
	attached map[string]struct{}

	// snapshot is the opaque encoded canvas for late joiners, owned by
	// the stroke replication side of the hub. Empty means blank canvas.
	snapshot string
}

// NewRoom constructs a forming room for the two given identities.
func NewRoom(name, memberA, memberB string) *Room {
	return &Room{
		Name:     name,
		State:    RoomForming,
		Members:  [2]string{memberA, memberB},
		attached: make(map[string]struct{}),
	}
}

// IsMember reports whether identity is one of the two declared members.
func (r *Room) IsMember(identity string) bool {
	return r.Members[0] == identity || r.Members[1] == identity
}

// Other returns the partner of identity, or "" if identity is not a member.
func (r *Room) Other(identity string) string {
	switch identity {
	case r.Members[0]:
		return r.Members[1]
	case r.Members[1]:
		return r.Members[0]
	}
	return ""
}

// Attach marks a member as joined for replication.
func (r *Room) Attach(identity string) {
	r.attached[identity] = struct{}{}
}

// Attached reports whether the member has joined for replication.
func (r *Room) Attached(identity string) bool {
	_, ok := r.attached[identity]
	return ok
}
