package core

// Caps applied to stored chat state and to snapshots sent on (re)connect.
const (
	// MaxStoredMessages bounds how many messages a chat keeps; oldest are
	// evicted first once the cap is exceeded.
	MaxStoredMessages = 1000
	// SnapshotMessages bounds the message tail included in a chat snapshot.
	SnapshotMessages = 200
	// SnapshotNames bounds the known-names list included in snapshots and
	// names updates.
	SnapshotNames = 500

	// MaxNameLen, MaxTextLen and MaxImageLen cap the corresponding message
	// fields in runes (bytes for the image URL).
	MaxNameLen  = 64
	MaxTextLen  = 10000
	MaxImageLen = 2048

	// DefaultName substitutes a blank sender name.
	DefaultName = "Anon"

	// chatImagePrefix is the only URL prefix accepted for image references;
	// it matches where the upload endpoint stores chat images.
	chatImagePrefix = "/uploads/chat/"
)

// Message is the domain model for a chat message. ChatID is denormalized onto
// the message so clients can filter the global broadcast stream. Exactly one
// of Text or Image is non-empty; Mime accompanies Image only.
type Message struct {
	ChatID int64
	Name   string
	Time   int64 // Unix milliseconds, assigned at append
	Text   string
	Image  string
	Mime   string
}
