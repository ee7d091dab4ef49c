package core

// Client is a connected relay participant as seen by the core layer. The ID is
// a transient transport-assigned identity, not persisted anywhere.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
	Rooms    map[string]struct{}
}

// NewClient constructs a client with channels buffered to the given size.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 8
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		Rooms:    make(map[string]struct{}),
	}
}
