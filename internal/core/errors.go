package core

import "errors"

// Rejection reasons for message appends. The hub drops rejected submissions
// without echoing anything back to the sender, but the reasons stay typed so
// callers and tests can tell them apart.
var (
	// ErrBadChatID means the chat id did not resolve to a positive integer.
	ErrBadChatID = errors.New("bad chat id")
	// ErrEmptyMessage means the submission carried neither text nor a usable
	// image reference.
	ErrEmptyMessage = errors.New("empty message")
)
