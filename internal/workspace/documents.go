package workspace

import (
	"fmt"

	"go.uber.org/zap"

	"docanalyzer/internal/model"
)

// Upload records one document per file. Files are not read or validated here;
// the caller applies the upload policy first.
func (w *Workspace) Upload(files []model.FileMeta) []model.Document {
	if len(files) == 0 {
		return []model.Document{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	docs := make([]model.Document, 0, len(files))
	for _, file := range files {
		doc := &model.Document{
			ID:         w.newID("doc"),
			Name:       file.Name,
			Size:       file.Size,
			Type:       fileType(file.Name),
			UploadedAt: w.now(),
		}
		if err := w.documents.Create(doc); err != nil {
			w.logger.Error("create document failed", zap.String("name", file.Name), zap.Error(err))
			continue
		}
		docs = append(docs, *doc)
	}

	w.notifyLocked(model.NoticeInfo, "Documents uploaded successfully",
		fmt.Sprintf("%d document(s) added.", len(docs)))
	return docs
}

// DeleteDocument removes the document and its chat session together. When
// either was selected, both selection pointers are cleared.
func (w *Workspace) DeleteDocument(documentID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.documents.GetByID(documentID) == nil {
		return ErrDocumentNotFound
	}

	removed := w.sessions.DeleteByDocumentID(documentID)
	w.documents.DeleteByID(documentID)

	activeSession := removed != nil && w.selection.ActiveChatID == removed.ID
	if w.selection.ActiveDocumentID == documentID || activeSession {
		w.selection = model.Selection{}
	}

	fields := []zap.Field{zap.String("document_id", documentID)}
	if removed != nil {
		fields = append(fields, zap.String("session_id", removed.ID), zap.Int("messages", len(removed.Messages)))
	}
	w.logger.Info("document deleted", fields...)

	w.notifyLocked(model.NoticeInfo, "Document deleted", "Document and associated chat have been removed.")
	return nil
}
