// Package workspace holds the document and chat-session state of one analyzer
// user and the rules that route every message to its chat session.
//
// A Workspace is the single owner of that state. Every action runs under one
// lock, so actions and analysis completions interleave but never overlap.
package workspace

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docanalyzer/internal/model"
	"docanalyzer/internal/repository"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrMessageEmpty     = errors.New("message content is empty")
)

const defaultNoticeLimit = 50

type Workspace struct {
	mu sync.Mutex

	documents *repository.DocumentRepository
	sessions  *repository.SessionRepository
	selection model.Selection

	// pending maps an in-flight analysis request id to the session it was sent from.
	pending map[string]string

	notices     []model.Notice
	noticeLimit int

	now    func() time.Time
	newID  func(prefix string) string
	logger *zap.Logger
}

type Option func(*Workspace)

func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

// WithIDGenerator replaces the uuid based generator. prefix is one of
// "doc", "chat", "msg" or "req".
func WithIDGenerator(newID func(prefix string) string) Option {
	return func(w *Workspace) {
		if newID != nil {
			w.newID = newID
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithNoticeLimit(limit int) Option {
	return func(w *Workspace) {
		if limit > 0 {
			w.noticeLimit = limit
		}
	}
}

func New(opts ...Option) *Workspace {
	w := &Workspace{
		documents:   repository.NewDocumentRepository(),
		sessions:    repository.NewSessionRepository(),
		pending:     make(map[string]string),
		noticeLimit: defaultNoticeLimit,
		now:         time.Now,
		newID:       defaultID,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func defaultID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func (w *Workspace) notifyLocked(kind model.NoticeKind, title, description string) {
	w.notices = append(w.notices, model.Notice{
		Kind:        kind,
		Title:       title,
		Description: description,
		CreatedAt:   w.now(),
	})
	if overflow := len(w.notices) - w.noticeLimit; overflow > 0 {
		w.notices = append([]model.Notice(nil), w.notices[overflow:]...)
	}
}
