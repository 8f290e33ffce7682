package core

// EventKind is a notification the hub emits to clients.
type EventKind int

const (
	// EventChatList carries the authoritative set of chat ids.
	EventChatList EventKind = iota
	// EventChatInit delivers a full chat snapshot to a single client after
	// connect or chat selection.
	EventChatInit
	// EventChatMessage announces one new message to every client.
	EventChatMessage
	// EventChatNames refreshes the mention-candidate list for a chat.
	EventChatNames
	// EventChatCleared tells every client a chat was wiped.
	EventChatCleared
	// EventFilesUpdate pings clients to refresh the shared-files view.
	EventFilesUpdate
)

// Event describes a state change to be rendered by clients. Which fields are
// set depends on Kind.
type Event struct {
	Kind     EventKind
	ChatID   int64
	Chats    []int64
	Message  Message
	Messages []Message
	Names    []string
}
