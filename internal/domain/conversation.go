package domain

import "time"

// Turn is one message in a conversation timeline (user or assistant).
type Turn struct {
	ID             TurnID
	ConversationID ConversationID
	Sender         Sender
	Text           string

	// Seq is the stable insertion order inside the conversation. The
	// analysis engine reads turns in Seq order and never reorders them.
	Seq int

	// Timestamp is optional; uploaded transcripts frequently lack real
	// timing information, so nil is the common case.
	Timestamp *time.Time
}

// Conversation represents one finished chat between a user and the
// assistant. Turns are stored separately and fetched ordered by Seq.
type Conversation struct {
	ID        ConversationID
	Title     string
	CreatedAt Timestamp
}
