package workspace

import (
	"docanalyzer/internal/model"
)

const (
	maxPreviewRunes   = 100
	untitledChatTitle = "New Chat"
	noMessagesPreview = "No messages yet"
)

func (w *Workspace) Documents() []model.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.documents.List()
}

// History lists every session in creation order for the sidebar.
func (w *Workspace) History() []model.HistoryEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	sessions := w.sessions.List()
	entries := make([]model.HistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		entry := model.HistoryEntry{
			ID:          session.ID,
			Title:       session.Title,
			LastMessage: noMessagesPreview,
			Timestamp:   session.CreatedAt,
			DocumentID:  session.DocumentID,
		}
		if entry.Title == "" {
			entry.Title = untitledChatTitle
		}
		if last := session.LastMessage(); last != nil {
			entry.LastMessage = truncate(last.Content, maxPreviewRunes)
			entry.Timestamp = last.CreatedAt
		}
		entries = append(entries, entry)
	}
	return entries
}

func (w *Workspace) Selection() model.Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection
}

// CurrentSession returns a copy of the session on screen, or nil. An active
// document selects its bound session, otherwise the active chat is used.
func (w *Workspace) CurrentSession() *model.ChatSession {
	w.mu.Lock()
	defer w.mu.Unlock()

	session := w.currentSessionLocked()
	if session == nil {
		return nil
	}
	out := session.Clone()
	return &out
}

func (w *Workspace) CurrentMessages() []model.Message {
	if session := w.CurrentSession(); session != nil {
		return session.Messages
	}
	return []model.Message{}
}

// CurrentDocument returns the active document, or nil.
func (w *Workspace) CurrentDocument() *model.Document {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selection.ActiveDocumentID == "" {
		return nil
	}
	doc := w.documents.GetByID(w.selection.ActiveDocumentID)
	if doc == nil {
		return nil
	}
	out := *doc
	return &out
}

func (w *Workspace) Session(sessionID string) (*model.ChatSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	session := w.sessions.GetByID(sessionID)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	out := session.Clone()
	return &out, nil
}

// Loading reports whether any analysis request is still in flight.
func (w *Workspace) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending) > 0
}

func (w *Workspace) PendingFor(sessionID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	count := 0
	for _, bound := range w.pending {
		if bound == sessionID {
			count++
		}
	}
	return count
}

// Notices returns the recorded notices, oldest first. drain empties the list.
func (w *Workspace) Notices(drain bool) []model.Notice {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]model.Notice, len(w.notices))
	copy(out, w.notices)
	if drain {
		w.notices = nil
	}
	return out
}

func (w *Workspace) currentSessionLocked() *model.ChatSession {
	if w.selection.ActiveDocumentID != "" {
		return w.sessions.GetByDocumentID(w.selection.ActiveDocumentID)
	}
	if w.selection.ActiveChatID != "" {
		return w.sessions.GetByID(w.selection.ActiveChatID)
	}
	return nil
}
