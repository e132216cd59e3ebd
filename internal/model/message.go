package model

import "time"

// Kind classifies a parsed chat message.
type Kind int

const (
	// TextMessage is a regular message with a sender and a text body.
	TextMessage Kind = iota
	// MediaMessage is an attachment the export replaced with a placeholder.
	MediaMessage
	// SystemMessage is a chat event (member added, encryption notice, ...)
	// and never carries a sender.
	SystemMessage
)

func (k Kind) String() string {
	switch k {
	case MediaMessage:
		return "media"
	case SystemMessage:
		return "system"
	default:
		return "text"
	}
}

// Message is a single parsed chat message. Body may span multiple input
// lines; continuation lines are joined with "\n".
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender,omitempty"` // empty for system messages
	Body      string    `json:"body"`
	Kind      Kind      `json:"kind"`
	Line      int       `json:"line"` // 1-based line number of the header line
}
