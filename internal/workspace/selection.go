package workspace

import (
	"docanalyzer/internal/model"
)

// SelectDocument makes documentID the active document, clears the active
// chat, and returns the document's session, creating it on first selection.
func (w *Workspace) SelectDocument(documentID string) (*model.ChatSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.documents.GetByID(documentID) == nil {
		return nil, ErrDocumentNotFound
	}
	w.selection = model.Selection{ActiveDocumentID: documentID}
	sessionID, _ := w.resolveLocked(w.selection)
	session := w.sessions.GetByID(sessionID).Clone()
	return &session, nil
}

// SelectChat restores both pointers from the session's binding.
func (w *Workspace) SelectChat(sessionID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	session := w.sessions.GetByID(sessionID)
	if session == nil {
		return ErrSessionNotFound
	}
	w.selection = model.Selection{
		ActiveChatID:     session.ID,
		ActiveDocumentID: session.DocumentID,
	}
	return nil
}

// NewChat opens an empty free-standing session and makes it the active chat.
// It is titled from its first message.
func (w *Workspace) NewChat() *model.ChatSession {
	w.mu.Lock()
	defer w.mu.Unlock()

	session := w.createSessionLocked(w.newID("chat"), "", "")
	w.selection = model.Selection{ActiveChatID: session.ID}
	out := session.Clone()
	return &out
}
