// Package postgres provides a Postgres-backed storage.Store.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitfindr/fitfindr-server/internal/model"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store persists collections in Postgres tables. Item and recommendation
// writes replace the whole table inside one transaction so readers always
// see a complete, ordered set.
type Store struct {
	pool pool
}

// New connects a pool using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: p}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(p pool) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: p}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// AppendUser inserts a user row.
func (s *Store) AppendUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, style, has_image, image_uri, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Style, user.HasImage, user.ImageURI, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// LatestUser returns the most recently created user.
func (s *Store) LatestUser(ctx context.Context) (model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, style, has_image, image_uri, created_at FROM users ORDER BY created_at DESC LIMIT 1`)
	return scanUser(row)
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, style, has_image, image_uri, created_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Style, &u.HasImage, &u.ImageURI, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return model.User{}, storage.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// ReplaceItems swaps the items table contents inside one transaction.
func (s *Store) ReplaceItems(ctx context.Context, items []model.Item) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace items: %w", err)
	}
	defer rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	for pos, it := range items {
		_, err := tx.Exec(ctx,
			`INSERT INTO items (position, id, title, description, image_url, source_url, style, creator, likes, saves, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			pos, it.ID, it.Title, it.Description, it.ImageURL, it.SourceURL, it.Style, it.Creator, it.Likes, it.Saves, it.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace items: %w", err)
	}
	return nil
}

// ListItems returns items in their stored order.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, image_url, source_url, style, creator, likes, saves, created_at
		 FROM items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.ImageURL, &it.SourceURL,
			&it.Style, &it.Creator, &it.Likes, &it.Saves, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// AppendFeedback inserts a feedback row.
func (s *Store) AppendFeedback(ctx context.Context, fb model.Feedback) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO feedback (id, user_id, item_id, feedback_type, created_at) VALUES ($1, $2, $3, $4, $5)`,
		fb.ID, fb.UserID, fb.ItemID, string(fb.Type), fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListFeedback returns all feedback rows in insertion order.
func (s *Store) ListFeedback(ctx context.Context) ([]model.Feedback, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, item_id, feedback_type, created_at FROM feedback ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	var all []model.Feedback
	for rows.Next() {
		var fb model.Feedback
		var fbType string
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.ItemID, &fbType, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		fb.Type = model.FeedbackType(fbType)
		all = append(all, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return all, nil
}

// ReplaceRecommendations swaps the recommendations table contents.
func (s *Store) ReplaceRecommendations(ctx context.Context, recs []model.Recommendation) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace recommendations: %w", err)
	}
	defer rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM recommendations`); err != nil {
		return fmt.Errorf("clear recommendations: %w", err)
	}
	for pos, rec := range recs {
		_, err := tx.Exec(ctx,
			`INSERT INTO recommendations (position, user_id, item, score, reason) VALUES ($1, $2, $3, $4, $5)`,
			pos, rec.UserID, rec.Item, rec.Score, rec.Reason,
		)
		if err != nil {
			return fmt.Errorf("insert recommendation for %s: %w", rec.Item.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace recommendations: %w", err)
	}
	return nil
}

// ListRecommendations returns recommendations in their stored order. The item
// column is JSONB and pgx decodes it directly into the Item struct.
func (s *Store) ListRecommendations(ctx context.Context) ([]model.Recommendation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, item, score, reason FROM recommendations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []model.Recommendation
	for rows.Next() {
		var rec model.Recommendation
		if err := rows.Scan(&rec.UserID, &rec.Item, &rec.Score, &rec.Reason); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return recs, nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	// Rollback after Commit is a no-op error by contract; ignore it.
	_ = tx.Rollback(ctx)
}
