package core

// messageRing is a fixed-capacity FIFO over messages. Pushing onto a full
// ring evicts the oldest entry, so memory stays bounded regardless of how
// many messages flow through a chat.
type messageRing struct {
	buf   []Message
	start int
	count int
}

func newMessageRing(capacity int) *messageRing {
	return &messageRing{buf: make([]Message, capacity)}
}

// Push appends a message, evicting the oldest one when the ring is full.
func (r *messageRing) Push(m Message) {
	if r.count == len(r.buf) {
		r.buf[r.start] = m
		r.start = (r.start + 1) % len(r.buf)
		return
	}
	r.buf[(r.start+r.count)%len(r.buf)] = m
	r.count++
}

// Len reports how many messages are currently stored.
func (r *messageRing) Len() int {
	return r.count
}

// Tail returns up to n of the most recent messages in append order.
func (r *messageRing) Tail(n int) []Message {
	if n > r.count {
		n = r.count
	}
	out := make([]Message, 0, n)
	for i := r.count - n; i < r.count; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// Reset drops all stored messages.
func (r *messageRing) Reset() {
	r.start = 0
	r.count = 0
}
