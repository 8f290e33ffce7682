package core

// Client is one realtime connection as seen by the hub. Commands flow from
// the transport into the hub; Events flow back out. The transport owns the
// websocket, the hub owns everything else.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		done:     make(chan struct{}),
	}
}
