package model

import "time"

// Chat is an ordered sequence of messages parsed from one export.
type Chat struct {
	Source   string // file name or upload name
	Messages []Message
}

// Filter returns a new Chat containing only messages within the given time range.
// nil values for from/to mean no lower/upper bound.
func (c *Chat) Filter(from, to *time.Time) *Chat {
	filtered := &Chat{Source: c.Source}
	for _, msg := range c.Messages {
		if from != nil && msg.Timestamp.Before(*from) {
			continue
		}
		if to != nil && msg.Timestamp.After(*to) {
			continue
		}
		filtered.Messages = append(filtered.Messages, msg)
	}
	return filtered
}

// Senders returns the distinct sender names in first-seen order.
// System messages contribute nothing.
func (c *Chat) Senders() []string {
	seen := make(map[string]bool)
	var out []string
	for _, msg := range c.Messages {
		if msg.Sender == "" || seen[msg.Sender] {
			continue
		}
		seen[msg.Sender] = true
		out = append(out, msg.Sender)
	}
	return out
}

// Latest returns the last n messages in chronological order.
func (c *Chat) Latest(n int) []Message {
	if n <= 0 || len(c.Messages) == 0 {
		return nil
	}
	if n > len(c.Messages) {
		n = len(c.Messages)
	}
	return c.Messages[len(c.Messages)-n:]
}
