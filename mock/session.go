package mock

import (
	"context"

	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.SessionStore = (*SessionStore)(nil)

// SessionStore is a mock implementation of prodcrawl.SessionStore.
type SessionStore struct {
	CreateSessionFn       func(ctx context.Context, session *prodcrawl.CrawlSession) error
	FindSessionByTargetFn func(ctx context.Context, baseURL string) (*prodcrawl.CrawlSession, error)
	SaveSessionFn         func(ctx context.Context, session *prodcrawl.CrawlSession) error
	DeleteSessionFn       func(ctx context.Context, id string) error
}

func (s *SessionStore) CreateSession(ctx context.Context, session *prodcrawl.CrawlSession) error {
	return s.CreateSessionFn(ctx, session)
}

func (s *SessionStore) FindSessionByTarget(ctx context.Context, baseURL string) (*prodcrawl.CrawlSession, error) {
	return s.FindSessionByTargetFn(ctx, baseURL)
}

func (s *SessionStore) SaveSession(ctx context.Context, session *prodcrawl.CrawlSession) error {
	return s.SaveSessionFn(ctx, session)
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}
