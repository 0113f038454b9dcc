package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docanalyzer/internal/model"
)

func TestSessionRepositoryOneSessionPerDocument(t *testing.T) {
	repo := NewSessionRepository()
	require.NoError(t, repo.Create(&model.ChatSession{ID: "chat_1", DocumentID: "doc_1"}))

	err := repo.Create(&model.ChatSession{ID: "chat_2", DocumentID: "doc_1"})
	assert.ErrorIs(t, err, ErrDocumentAlreadyBound)
	assert.Equal(t, 1, repo.Count())

	assert.Equal(t, "chat_1", repo.GetByDocumentID("doc_1").ID)
	assert.Nil(t, repo.GetByDocumentID("doc_2"))
}

func TestSessionRepositoryFreeStandingSessionsAreUnconstrained(t *testing.T) {
	repo := NewSessionRepository()
	require.NoError(t, repo.Create(&model.ChatSession{ID: "chat_1"}))
	require.NoError(t, repo.Create(&model.ChatSession{ID: "chat_2"}))
	assert.ErrorIs(t, repo.Create(&model.ChatSession{ID: "chat_2"}), ErrDuplicateID)

	ids := []string{}
	for _, s := range repo.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"chat_1", "chat_2"}, ids)
}

func TestSessionRepositoryAppendAndDelete(t *testing.T) {
	repo := NewSessionRepository()
	require.NoError(t, repo.Create(&model.ChatSession{ID: "chat_1", DocumentID: "doc_1"}))
	require.NoError(t, repo.Create(&model.ChatSession{ID: "chat_2"}))

	assert.True(t, repo.AppendMessage("chat_1", model.Message{ID: "msg_1"}))
	assert.False(t, repo.AppendMessage("chat_9", model.Message{ID: "msg_2"}))

	removed := repo.DeleteByDocumentID("doc_1")
	require.NotNil(t, removed)
	assert.Len(t, removed.Messages, 1)
	assert.Nil(t, repo.GetByID("chat_1"))
	assert.Nil(t, repo.DeleteByDocumentID("doc_1"))
	assert.Equal(t, 1, repo.Count())

	// the document id is free again
	assert.NoError(t, repo.Create(&model.ChatSession{ID: "chat_3", DocumentID: "doc_1"}))
}
