package core

import (
	"slices"
	"strings"
	"time"
)

// State owns every chat's messages and known names. It is not safe for
// concurrent use: the hub serializes all access through its run loop, and
// tests construct isolated instances per case.
type State struct {
	chats map[int64]*chat
}

// NewState builds a state with the default chat 1 already present.
func NewState() *State {
	s := &State{chats: make(map[int64]*chat)}
	s.Ensure(1)
	return s
}

// Ensure guarantees a chat exists for id, creating an empty one if absent.
// Non-positive ids normalize to the default chat 1. Returns the normalized id.
func (s *State) Ensure(id int64) int64 {
	if id < 1 {
		id = 1
	}
	if _, ok := s.chats[id]; !ok {
		s.chats[id] = newChat()
	}
	return id
}

// Has reports whether a chat with the given id exists.
func (s *State) Has(id int64) bool {
	_, ok := s.chats[id]
	return ok
}

// List returns all chat ids in ascending order.
func (s *State) List() []int64 {
	ids := make([]int64, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Resolve maps a requested chat id onto an existing one: the id itself when
// known, otherwise the lowest existing id.
func (s *State) Resolve(want int64) int64 {
	if s.Has(want) {
		return want
	}
	if ids := s.List(); len(ids) > 0 {
		return ids[0]
	}
	return 1
}

// NextID returns max(existing ids)+1, or 1 when no chats exist. Ids are never
// reused: deletes do not lower the maximum below ids handed out earlier as
// long as any higher chat remains.
func (s *State) NextID() int64 {
	var max int64
	for id := range s.chats {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Create allocates the next id and ensures an empty chat for it.
func (s *State) Create() int64 {
	return s.Ensure(s.NextID())
}

// Delete removes a chat unconditionally; deleting an unknown id is a no-op.
// If the last chat goes away, chat 1 is recreated empty so the registry is
// never left without a chat.
func (s *State) Delete(id int64) {
	delete(s.chats, id)
	if len(s.chats) == 0 {
		s.Ensure(1)
	}
}

// Clear wipes a chat's messages and names, creating the chat first if needed.
// Returns the normalized chat id.
func (s *State) Clear(id int64) int64 {
	id = s.Ensure(id)
	s.chats[id].clear()
	return id
}

// Snapshot returns the message tail and known names for a chat, creating it
// empty when absent. The caps bound the payload handed to a (re)connecting
// client; stored history keeps its own, larger cap.
func (s *State) Snapshot(id int64) ([]Message, []string) {
	id = s.Ensure(id)
	c := s.chats[id]
	return c.messages.Tail(SnapshotMessages), c.names()
}

// Names returns the bounded known-names view for a chat.
func (s *State) Names(id int64) []string {
	id = s.Ensure(id)
	return s.chats[id].names()
}

// Append validates and stores a new message. The sender name is capped at
// MaxNameLen runes and defaults to DefaultName when blank. Text is capped at
// MaxTextLen runes. An image reference is only honored when it points under
// the chat-image upload area; when both text and an image survive validation
// the image wins and the text is discarded. A submission left with neither is
// rejected with ErrEmptyMessage and no state changes.
func (s *State) Append(chatID int64, name, text, image, mime string) (Message, error) {
	if chatID < 1 {
		return Message{}, ErrBadChatID
	}

	if name == "" {
		name = DefaultName
	}
	name = truncateRunes(name, MaxNameLen)
	text = truncateRunes(text, MaxTextLen)
	if !strings.HasPrefix(image, chatImagePrefix) || len(image) > MaxImageLen {
		image = ""
	}
	if image == "" {
		mime = ""
	} else {
		text = ""
	}
	if text == "" && image == "" {
		return Message{}, ErrEmptyMessage
	}

	chatID = s.Ensure(chatID)
	msg := Message{
		ChatID: chatID,
		Name:   name,
		Time:   time.Now().UnixMilli(),
		Text:   text,
		Image:  image,
		Mime:   mime,
	}
	c := s.chats[chatID]
	c.messages.Push(msg)
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		c.addName(trimmed)
	}
	return msg, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
