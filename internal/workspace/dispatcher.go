package workspace

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docanalyzer/internal/model"
)

const (
	maxTitleRunes = 50

	documentContextFormat = `Based on the document "%s", please answer the following: %s`

	// FailureFallback is shown when the analysis call fails without a detail.
	FailureFallback = "Failed to get AI response. Please try again."
)

// AnalysisRequest is the outgoing half of a send. SessionID is fixed at send
// time; the reply is routed by it, never by the selection current at reply time.
type AnalysisRequest struct {
	RequestID    string `json:"request_id"`
	SessionID    string `json:"session_id"`
	DocumentText string `json:"document_text"`
}

type SendResult struct {
	SessionID      string          `json:"session_id"`
	Message        model.Message   `json:"message"`
	Request        AnalysisRequest `json:"request"`
	CreatedSession bool            `json:"created_session"`
}

// Send appends a user message to the resolved session and registers the
// analysis request for it. The stored message is the text actually sent for
// analysis, which carries the document context when a document is active;
// the typed text is kept in RawContent.
func (w *Workspace) Send(text string) (*SendResult, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, ErrMessageEmpty
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	sel := w.selection
	content := raw
	if sel.ActiveDocumentID != "" {
		if doc := w.documents.GetByID(sel.ActiveDocumentID); doc != nil {
			content = fmt.Sprintf(documentContextFormat, doc.Name, raw)
		}
	}

	created := false
	sessionID, ok := w.resolveLocked(sel)
	switch {
	case !ok:
		session := w.createSessionLocked(w.newID("chat"), "", truncate(content, maxTitleRunes))
		sessionID = session.ID
		w.selection.ActiveChatID = session.ID
		created = true
	case w.sessions.GetByID(sessionID) == nil:
		// An active chat id with no session behind it keeps its id.
		w.createSessionLocked(sessionID, "", truncate(content, maxTitleRunes))
		created = true
	}

	session := w.sessions.GetByID(sessionID)
	if session.Title == "" {
		session.Title = truncate(content, maxTitleRunes)
	}

	msg := model.Message{
		ID:        w.newID("msg"),
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: w.now(),
	}
	if content != raw {
		msg.RawContent = raw
	}
	w.sessions.AppendMessage(sessionID, msg)

	req := AnalysisRequest{
		RequestID:    w.newID("req"),
		SessionID:    sessionID,
		DocumentText: content,
	}
	w.pending[req.RequestID] = sessionID

	w.logger.Debug("user message appended",
		zap.String("session_id", sessionID),
		zap.String("request_id", req.RequestID),
		zap.Bool("created_session", created),
	)

	return &SendResult{
		SessionID:      sessionID,
		Message:        msg,
		Request:        req,
		CreatedSession: created,
	}, nil
}

// OnReplyReceived appends an AI message to sessionID. A reply for a session
// that no longer exists is dropped and false is returned.
func (w *Workspace) OnReplyReceived(sessionID, replyText string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.appendReplyLocked(sessionID, replyText)
}

// CompleteRequest settles a pending request with the collaborator's analysis.
// Unknown request ids (already settled or never issued) are ignored, which
// makes redelivered outcomes harmless.
func (w *Workspace) CompleteRequest(requestID, sessionID, analysis string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	bound, ok := w.pending[requestID]
	if !ok {
		w.logger.Debug("ignoring outcome for unknown request", zap.String("request_id", requestID))
		return false
	}
	delete(w.pending, requestID)
	if sessionID != "" && sessionID != bound {
		w.logger.Warn("outcome session differs from send binding",
			zap.String("request_id", requestID),
			zap.String("bound_session_id", bound),
			zap.String("outcome_session_id", sessionID),
		)
	}
	return w.appendReplyLocked(bound, analysis)
}

// FailRequest settles a pending request without a reply. The user message
// stays in place and detail, or FailureFallback, becomes an error notice.
func (w *Workspace) FailRequest(requestID, detail string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sessionID, ok := w.pending[requestID]
	if !ok {
		w.logger.Debug("ignoring failure for unknown request", zap.String("request_id", requestID))
		return
	}
	delete(w.pending, requestID)

	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = FailureFallback
	}
	w.logger.Info("analysis request failed",
		zap.String("request_id", requestID),
		zap.String("session_id", sessionID),
		zap.String("detail", detail),
	)
	w.notifyLocked(model.NoticeError, "Error", detail)
}

func (w *Workspace) appendReplyLocked(sessionID, replyText string) bool {
	msg := model.Message{
		ID:        w.newID("msg"),
		Role:      model.RoleAI,
		Content:   replyText,
		CreatedAt: w.now(),
	}
	if !w.sessions.AppendMessage(sessionID, msg) {
		w.logger.Debug("dropping reply for removed session", zap.String("session_id", sessionID))
		return false
	}
	return true
}
