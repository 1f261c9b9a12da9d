// Package memory implements an in-memory storage.Store for tests and
// dependency-free development runs.
package memory

import (
	"context"
	"sync"

	"github.com/fitfindr/fitfindr-server/internal/model"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

// Store keeps every collection in process memory behind one RWMutex.
type Store struct {
	mu              sync.RWMutex
	users           []model.User
	items           []model.Item
	feedback        []model.Feedback
	recommendations []model.Recommendation
}

// New returns an empty in-memory Store.
func New() *Store {
	return &Store{}
}

// AppendUser adds a user record.
func (s *Store) AppendUser(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
	return nil
}

// LatestUser returns the most recently appended user.
func (s *Store) LatestUser(context.Context) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.users) == 0 {
		return model.User{}, storage.ErrNotFound
	}
	return s.users[len(s.users)-1], nil
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, storage.ErrNotFound
}

// ReplaceItems swaps in a copy of the given ordered list.
func (s *Store) ReplaceItems(_ context.Context, items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]model.Item(nil), items...)
	return nil
}

// ListItems returns a copy of the stored items.
func (s *Store) ListItems(context.Context) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Item(nil), s.items...), nil
}

// AppendFeedback adds a feedback record.
func (s *Store) AppendFeedback(_ context.Context, fb model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, fb)
	return nil
}

// ListFeedback returns a copy of all feedback records.
func (s *Store) ListFeedback(context.Context) ([]model.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Feedback(nil), s.feedback...), nil
}

// ReplaceRecommendations swaps in a copy of the given recommendations.
func (s *Store) ReplaceRecommendations(_ context.Context, recs []model.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendations = append([]model.Recommendation(nil), recs...)
	return nil
}

// ListRecommendations returns a copy of the stored recommendations.
func (s *Store) ListRecommendations(context.Context) ([]model.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Recommendation(nil), s.recommendations...), nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	return nil
}
