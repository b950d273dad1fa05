package core

// Client is one session channel as seen by the core layer. ID is the
// session reference handed out in invite events; Name is set once the
// client logs in.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event

	// Room is the name of the room this client is a member of, empty
	// while idle. Written only by the hub goroutine.
	Room string

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 16),
		done:     make(chan struct{}),
	}
}

// send delivers an event without blocking the hub. Slow consumers drop.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
