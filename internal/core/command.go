package core

// CommandKind describes what a connected client wants to do.
type CommandKind int

const (
	// CommandSelectChat asks for a fresh snapshot of another chat.
	CommandSelectChat CommandKind = iota
	// CommandPostMessage submits a text or image message to a chat.
	CommandPostMessage
	// CommandClearChat wipes a chat's messages; fallback for clients that
	// cannot reach the REST clear endpoint.
	CommandClearChat
)

// Command represents an action requested by a client.
type Command struct {
	Kind   CommandKind
	ChatID int64
	Name   string
	Text   string
	Image  string
	Mime   string
}
