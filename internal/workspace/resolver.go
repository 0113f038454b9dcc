package workspace

import (
	"go.uber.org/zap"

	"docanalyzer/internal/model"
)

const documentTitlePrefix = "Analysis: "

// resolveLocked returns the session that receives the next message for sel.
//
// An active document wins: its bound session is returned, or created with an
// "Analysis: <name>" title when the document has none yet. Without an active
// document the active chat id is returned as is. ok is false when neither
// pointer is set; the caller decides whether to open a free-standing session.
//
// Document existence is not checked. The public actions clear the selection
// when a document is deleted, so a dangling document id never reaches here.
func (w *Workspace) resolveLocked(sel model.Selection) (sessionID string, ok bool) {
	if sel.ActiveDocumentID != "" {
		if existing := w.sessions.GetByDocumentID(sel.ActiveDocumentID); existing != nil {
			return existing.ID, true
		}
		name := sel.ActiveDocumentID
		if doc := w.documents.GetByID(sel.ActiveDocumentID); doc != nil {
			name = doc.Name
		}
		session := w.createSessionLocked(w.newID("chat"), sel.ActiveDocumentID, documentTitlePrefix+name)
		return session.ID, true
	}
	if sel.ActiveChatID != "" {
		return sel.ActiveChatID, true
	}
	return "", false
}

func (w *Workspace) createSessionLocked(id, documentID, title string) *model.ChatSession {
	session := &model.ChatSession{
		ID:         id,
		DocumentID: documentID,
		Title:      title,
		Messages:   []model.Message{},
		CreatedAt:  w.now(),
	}
	// Ids are fresh and document sessions are looked up first, so Create cannot
	// reject the session here.
	if err := w.sessions.Create(session); err != nil {
		w.logger.Error("create session failed", zap.String("session_id", id), zap.Error(err))
		if documentID != "" {
			return w.sessions.GetByDocumentID(documentID)
		}
		return w.sessions.GetByID(id)
	}
	w.logger.Debug("session created",
		zap.String("session_id", id),
		zap.String("document_id", documentID),
	)
	return session
}
