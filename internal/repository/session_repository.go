package repository

import (
	"errors"
	"fmt"

	"docanalyzer/internal/model"
)

var ErrDocumentAlreadyBound = errors.New("document already has a session")

// SessionRepository keeps chat sessions in creation order and indexes
// document-bound sessions by document id, so the one-session-per-document
// rule is enforced on Create. Not safe for concurrent use.
type SessionRepository struct {
	order      []string
	byID       map[string]*model.ChatSession
	byDocument map[string]string
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		byID:       make(map[string]*model.ChatSession),
		byDocument: make(map[string]string),
	}
}

func (r *SessionRepository) Create(session *model.ChatSession) error {
	if _, exists := r.byID[session.ID]; exists {
		return fmt.Errorf("create session failed: %w", ErrDuplicateID)
	}
	if session.DocumentID != "" {
		if _, bound := r.byDocument[session.DocumentID]; bound {
			return fmt.Errorf("create session failed: %w", ErrDocumentAlreadyBound)
		}
		r.byDocument[session.DocumentID] = session.ID
	}
	r.byID[session.ID] = session
	r.order = append(r.order, session.ID)
	return nil
}

// GetByID returns nil when the session does not exist.
func (r *SessionRepository) GetByID(id string) *model.ChatSession {
	return r.byID[id]
}

// GetByDocumentID returns the session bound to documentID, or nil.
func (r *SessionRepository) GetByDocumentID(documentID string) *model.ChatSession {
	id, ok := r.byDocument[documentID]
	if !ok {
		return nil
	}
	return r.byID[id]
}

func (r *SessionRepository) AppendMessage(sessionID string, msg model.Message) bool {
	session, ok := r.byID[sessionID]
	if !ok {
		return false
	}
	session.Messages = append(session.Messages, msg)
	return true
}

// List returns sessions in creation order. Callers must not mutate them.
func (r *SessionRepository) List() []*model.ChatSession {
	list := make([]*model.ChatSession, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.byID[id])
	}
	return list
}

// DeleteByDocumentID removes the session bound to documentID and returns it.
func (r *SessionRepository) DeleteByDocumentID(documentID string) *model.ChatSession {
	id, ok := r.byDocument[documentID]
	if !ok {
		return nil
	}
	session := r.byID[id]
	delete(r.byDocument, documentID)
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return session
}

func (r *SessionRepository) Count() int {
	return len(r.order)
}
