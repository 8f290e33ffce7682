package core

// chat holds the mutable per-chat state: the bounded message history and the
// set of sender names ever seen, kept in first-seen order so name snapshots
// are stable across broadcasts.
type chat struct {
	messages  *messageRing
	nameSet   map[string]struct{}
	nameOrder []string
}

func newChat() *chat {
	return &chat{
		messages: newMessageRing(MaxStoredMessages),
		nameSet:  make(map[string]struct{}),
	}
}

// addName records a sender name. Returns true if the name was not seen before.
func (c *chat) addName(name string) bool {
	if _, seen := c.nameSet[name]; seen {
		return false
	}
	c.nameSet[name] = struct{}{}
	c.nameOrder = append(c.nameOrder, name)
	return true
}

// names returns up to SnapshotNames known names. The full set is retained;
// only the view handed to clients is truncated.
func (c *chat) names() []string {
	n := len(c.nameOrder)
	if n > SnapshotNames {
		n = SnapshotNames
	}
	out := make([]string, n)
	copy(out, c.nameOrder[:n])
	return out
}

// clear wipes messages and known names in place; the chat keeps existing.
func (c *chat) clear() {
	c.messages.Reset()
	c.nameSet = make(map[string]struct{})
	c.nameOrder = nil
}
