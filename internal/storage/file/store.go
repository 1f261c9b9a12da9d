// Package file implements storage.Store on top of JSON documents in a data
// directory, matching the service's original single-node deployment.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fitfindr/fitfindr-server/internal/model"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

// Document names inside the data directory.
const (
	usersFile           = "users.json"
	itemsFile           = "items.json"
	feedbackFile        = "feedback.json"
	recommendationsFile = "recommendations.json"
)

// Store persists each collection as one pretty-printed JSON file. A single
// mutex serializes writers; reads load from disk so external edits between
// requests are picked up.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the data directory if needed and verifies it is writable.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".writable_test")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return nil, fmt.Errorf("data dir is not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("clean up probe file: %w", err)
	}
	return &Store{dir: dir}, nil
}

// AppendUser adds a user to users.json.
func (s *Store) AppendUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []model.User
	if err := s.load(ctx, usersFile, &users); err != nil {
		return err
	}
	users = append(users, user)
	return s.save(ctx, usersFile, users)
}

// LatestUser returns the most recently appended user.
func (s *Store) LatestUser(ctx context.Context) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []model.User
	if err := s.load(ctx, usersFile, &users); err != nil {
		return model.User{}, err
	}
	if len(users) == 0 {
		return model.User{}, storage.ErrNotFound
	}
	return users[len(users)-1], nil
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []model.User
	if err := s.load(ctx, usersFile, &users); err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, storage.ErrNotFound
}

// ReplaceItems overwrites items.json with the given ordered list.
func (s *Store) ReplaceItems(ctx context.Context, items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, itemsFile, items)
}

// ListItems returns the stored items in their persisted order.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []model.Item
	if err := s.load(ctx, itemsFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AppendFeedback adds a feedback record to feedback.json.
func (s *Store) AppendFeedback(ctx context.Context, fb model.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Feedback
	if err := s.load(ctx, feedbackFile, &all); err != nil {
		return err
	}
	all = append(all, fb)
	return s.save(ctx, feedbackFile, all)
}

// ListFeedback returns all stored feedback records.
func (s *Store) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Feedback
	if err := s.load(ctx, feedbackFile, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// ReplaceRecommendations overwrites recommendations.json.
func (s *Store) ReplaceRecommendations(ctx context.Context, recs []model.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, recommendationsFile, recs)
}

// ListRecommendations returns the stored recommendations.
func (s *Store) ListRecommendations(ctx context.Context) ([]model.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var recs []model.Recommendation
	if err := s.load(ctx, recommendationsFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Close implements storage.Store; the file store holds no open handles.
func (s *Store) Close() error {
	return nil
}

func (s *Store) load(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, name string, in any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	payload, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	target := filepath.Join(s.dir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
