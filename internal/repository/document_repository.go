package repository

import (
	"errors"
	"fmt"

	"docanalyzer/internal/model"
)

var ErrDuplicateID = errors.New("duplicate id")

// DocumentRepository keeps documents in upload order. It is not safe for
// concurrent use; the workspace serialises access.
type DocumentRepository struct {
	order []string
	byID  map[string]*model.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{byID: make(map[string]*model.Document)}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if _, exists := r.byID[doc.ID]; exists {
		return fmt.Errorf("create document failed: %w", ErrDuplicateID)
	}
	r.byID[doc.ID] = doc
	r.order = append(r.order, doc.ID)
	return nil
}

// GetByID returns nil when the document does not exist.
func (r *DocumentRepository) GetByID(id string) *model.Document {
	return r.byID[id]
}

func (r *DocumentRepository) List() []model.Document {
	list := make([]model.Document, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, *r.byID[id])
	}
	return list
}

// DeleteByID reports whether a document was removed.
func (r *DocumentRepository) DeleteByID(id string) bool {
	if _, exists := r.byID[id]; !exists {
		return false
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *DocumentRepository) Count() int {
	return len(r.order)
}
