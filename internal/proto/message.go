package proto

import "encoding/json"

// Wire vocabulary. Event names are shared with the browser client, so they
// keep the chat:*/chats:*/files:* naming.
const (
	InboundTypeSelect  = "chat:select"
	InboundTypeMessage = "chat:message"
	InboundTypeClear   = "chat:clear"

	OutboundTypeChatList    = "chats:list"
	OutboundTypeChatInit    = "chat:init"
	OutboundTypeChatMessage = "chat:message"
	OutboundTypeChatNames   = "chat:names"
	OutboundTypeChatCleared = "chat:cleared"
	OutboundTypeFilesUpdate = "files:update"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// SelectData requests a snapshot of a specific chat.
type SelectData struct {
	ID int64 `json:"id"`
}

// MessageData is a chat message submission. Image is a URL previously
// returned by the chat-image upload endpoint.
type MessageData struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
	Mime  string `json:"mime,omitempty"`
}

// ClearData requests wiping a chat's messages; fallback for the REST clear
// endpoint.
type ClearData struct {
	ID int64 `json:"id"`
}

// ChatListData carries the authoritative set of chat ids, ascending.
type ChatListData struct {
	Chats []int64 `json:"chats"`
}

// MessagePayload is one message as rendered to clients. The id field is the
// chat the message belongs to; clients filter the global stream with it.
type MessagePayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Time  int64  `json:"time"`
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
	Mime  string `json:"mime,omitempty"`
}

// ChatInitData is the full snapshot for a (re)selected chat.
type ChatInitData struct {
	ID       int64            `json:"id"`
	Messages []MessagePayload `json:"messages"`
	Names    []string         `json:"names"`
}

// ChatNamesData refreshes the mention-candidate list for a chat.
type ChatNamesData struct {
	ID    int64    `json:"id"`
	Names []string `json:"names"`
}

// ChatClearedData announces that a chat's messages and names were wiped.
type ChatClearedData struct {
	ID    int64    `json:"id"`
	Names []string `json:"names"`
}
