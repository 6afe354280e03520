package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCreateAndGetUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, 42))

	u, err := repo.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.TelegramID)
	assert.False(t, u.Active)
	assert.Zero(t, u.StartHour)
	assert.Zero(t, u.Frequency)

	// repeated registration is a no-op
	require.NoError(t, repo.CreateUser(ctx, 42))
}

func TestGetUser_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleFieldsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, 42))
	require.NoError(t, repo.SetWindow(ctx, 42, 11, 18, 15))
	require.NoError(t, repo.SetFrequency(ctx, 42, 3))
	require.NoError(t, repo.SetActive(ctx, 42, true))

	u, err := repo.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 11, u.StartHour)
	assert.Equal(t, 18, u.EndHour)
	assert.Equal(t, 3, u.Frequency)
	assert.Equal(t, 15, u.Minute)
	assert.True(t, u.Active)
}

func TestListActive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, 1))
	require.NoError(t, repo.CreateUser(ctx, 2))
	require.NoError(t, repo.CreateUser(ctx, 3))
	require.NoError(t, repo.SetActive(ctx, 1, true))
	require.NoError(t, repo.SetActive(ctx, 3, true))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, int64(1), active[0].TelegramID)
	assert.Equal(t, int64(3), active[1].TelegramID)

	require.NoError(t, repo.SetActive(ctx, 3, false))
	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestMarks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

	id1, err := repo.AddMark(ctx, 42, 3, base)
	require.NoError(t, err)
	id2, err := repo.AddMark(ctx, 42, 1, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	// another user, and one mark outside the window
	_, err = repo.AddMark(ctx, 7, 4, base)
	require.NoError(t, err)
	_, err = repo.AddMark(ctx, 42, 0, base.Add(48*time.Hour))
	require.NoError(t, err)

	marks, err := repo.ListMarks(ctx, 42, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, 3, marks[0].Value)
	assert.Equal(t, 1, marks[1].Value)
	assert.Equal(t, base, marks[0].CreatedAt)

	// [from, to) excludes the right edge
	marks, err = repo.ListMarks(ctx, 42, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, marks, 1)
}

func TestListUsersWithMarks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

	_, err := repo.AddMark(ctx, 42, 3, base)
	require.NoError(t, err)
	_, err = repo.AddMark(ctx, 42, 2, base.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.AddMark(ctx, 7, 4, base)
	require.NoError(t, err)
	_, err = repo.AddMark(ctx, 9, 1, base.Add(72*time.Hour))
	require.NoError(t, err)

	users, err := repo.ListUsersWithMarks(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 42}, users)
}
