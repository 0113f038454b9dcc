package model

import "time"

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one turn of a chat session. It is never modified after it is appended.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"type"`
	Content     string    `json:"content"`
	RawContent  string    `json:"raw_content,omitempty"` // text as typed, when Content was rewritten with document context
	CreatedAt   time.Time `json:"timestamp"`
	Attachments []string  `json:"attachments,omitempty"`
}
