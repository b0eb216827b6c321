package mail

import "sort"

// Message is a single email as fetched from the mailbox provider.
// Messages are immutable once fetched; the pipeline never mutates them.
type Message struct {
	// ID is the provider-assigned message identifier.
	ID string

	// ThreadID groups messages belonging to the same conversation.
	ThreadID string

	// From is the sender address, possibly in "Name <addr>" form.
	From string

	// To and Cc are the recipient addresses.
	To []string
	Cc []string

	// ReplyTo is the Reply-To header value, if present.
	ReplyTo string

	Subject string
	Body    string

	// Date is the display form of the send time.
	Date string

	// Timestamp is the epoch-milliseconds send time used for ordering
	// and checkpointing.
	Timestamp int64

	// Unread reports whether the message still carries the UNREAD label.
	Unread bool

	// Labels are the provider label identifiers on the message.
	Labels []string
}

// Thread is an ordered sequence of messages sharing a thread identifier,
// ascending by timestamp.
type Thread []Message

// Sort orders the thread by timestamp ascending. Sorting is stable so
// messages with equal timestamps keep their fetch order.
func (t Thread) Sort() {
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].Timestamp < t[j].Timestamp
	})
}

// Latest returns the most recent message of the thread.
// The second return value is false for an empty thread.
func (t Thread) Latest() (Message, bool) {
	if len(t) == 0 {
		return Message{}, false
	}
	return t[len(t)-1], true
}
