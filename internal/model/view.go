package model

import "time"

// HistoryEntry is the sidebar projection of a ChatSession.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"last_message"`
	Timestamp   time.Time `json:"timestamp"`
	DocumentID  string    `json:"document_id,omitempty"`
}

type Selection struct {
	ActiveDocumentID string `json:"active_document_id,omitempty"`
	ActiveChatID     string `json:"active_chat_id,omitempty"`
}

type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is a user-facing notification, the toast of the presentation layer.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}
