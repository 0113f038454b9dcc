package model

import "time"

// ChatSession is an append-only thread of messages. DocumentID is empty for
// free-standing chats; at most one session exists per document id.
type ChatSession struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id,omitempty"`
	Title      string    `json:"title"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *ChatSession) FreeStanding() bool {
	return s.DocumentID == ""
}

// LastMessage returns the most recent message, or nil for an empty session.
func (s *ChatSession) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// Clone returns a copy whose message slice does not alias the original.
func (s *ChatSession) Clone() ChatSession {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}
