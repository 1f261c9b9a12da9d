package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitfindr/fitfindr-server/internal/model"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store, err := NewWithPool(mock)
	require.NoError(t, err)
	return store, mock
}

func TestNewWithPoolRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewWithPool(nil)
	require.Error(t, err)
}

func TestAppendUserInsertsRow(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Unix(1700000000, 0).UTC()
	user := model.User{ID: "u1", Style: "y2k", HasImage: true, ImageURI: "file:///img.png", CreatedAt: now}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Style, user.HasImage, user.ImageURI, user.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.AppendUser(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestUserNotFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, style, has_image, image_uri, created_at FROM users ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "style", "has_image", "image_uri", "created_at"}))

	_, err := store.LatestUser(context.Background())
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserScansRow(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery("SELECT id, style, has_image, image_uri, created_at FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "style", "has_image", "image_uri", "created_at"}).
			AddRow("u1", "bohemian", false, "", now))

	user, err := store.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "bohemian", user.Style)
	assert.Equal(t, now, user.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceItemsRunsInTransaction(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	items := []model.Item{
		{ID: "a", Title: "A", Style: "y2k", Likes: 120, Saves: 40, CreatedAt: "2024-06-01T00:00:00Z"},
		{ID: "b", Title: "B", Style: "y2k", Likes: 80, Saves: 20, CreatedAt: "2024-06-02T00:00:00Z"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM items").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	for pos, it := range items {
		mock.ExpectExec("INSERT INTO items").
			WithArgs(pos, it.ID, it.Title, it.Description, it.ImageURL, it.SourceURL, it.Style, it.Creator, it.Likes, it.Saves, it.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, store.ReplaceItems(context.Background(), items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceItemsRollsBackOnInsertFailure(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM items").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO items").
		WithArgs(0, "a", "", "", "", "", "", "", 0, 0, "").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := store.ReplaceItems(context.Background(), []model.Item{{ID: "a"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListItemsPreservesOrder(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	cols := []string{"id", "title", "description", "image_url", "source_url", "style", "creator", "likes", "saves", "created_at"}

	mock.ExpectQuery("SELECT (.+) FROM items ORDER BY position").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("a", "A", "", "", "", "y2k", "", 120, 40, "2024-06-01T00:00:00Z").
			AddRow("b", "B", "", "", "", "y2k", "", 80, 20, "2024-06-02T00:00:00Z"))

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 120, items[0].Likes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendAndListFeedback(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	now := time.Unix(1700000000, 0).UTC()
	fb := model.Feedback{ID: "f1", UserID: "u1", ItemID: "a", Type: model.FeedbackLike, CreatedAt: now}

	mock.ExpectExec("INSERT INTO feedback").
		WithArgs(fb.ID, fb.UserID, fb.ItemID, "like", fb.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT id, user_id, item_id, feedback_type, created_at FROM feedback").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "item_id", "feedback_type", "created_at"}).
			AddRow("f1", "u1", "a", "like", now))

	require.NoError(t, store.AppendFeedback(context.Background(), fb))

	all, err := store.ListFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.FeedbackLike, all[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRecommendations(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	recs := []model.Recommendation{
		{UserID: "u1", Item: model.Item{ID: "a", Style: "y2k"}, Score: 0.9, Reason: "style match"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM recommendations").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(0, recs[0].UserID, recs[0].Item, recs[0].Score, recs[0].Reason).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, store.ReplaceRecommendations(context.Background(), recs))
	require.NoError(t, mock.ExpectationsWereMet())
}
