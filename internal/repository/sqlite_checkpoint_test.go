package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRepo_GetEmpty(t *testing.T) {
	repo := NewSQLiteCheckpointRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckpointRepo_SaveReplaces(t *testing.T) {
	repo := NewSQLiteCheckpointRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s := domain.NewSession("a", testutil.Day(0, 9, 0))
	require.NoError(t, repo.Save(ctx, &domain.Checkpoint{Session: s, SeenAt: testutil.Day(0, 9, 0)}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Session.Category)
	assert.False(t, got.Session.HasSubcategory())
	assert.True(t, got.Session.StartedAt.Equal(testutil.Day(0, 9, 0)))

	next := domain.NewSession("b", testutil.Day(0, 10, 0)).WithSubcategory(9, "walk")
	require.NoError(t, repo.Save(ctx, &domain.Checkpoint{Session: next, SeenAt: testutil.Day(0, 10, 0)}))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Session.Category)
	assert.Equal(t, 9, got.Session.SubcatIndex)
	assert.Equal(t, "walk", got.Session.Note)
}

func TestCheckpointRepo_TouchAndClear(t *testing.T) {
	repo := NewSQLiteCheckpointRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	// Touch without a session is harmless.
	require.NoError(t, repo.Touch(ctx, testutil.Day(0, 8, 0)))

	s := domain.NewSession("a", testutil.Day(0, 9, 0))
	require.NoError(t, repo.Save(ctx, &domain.Checkpoint{Session: s, SeenAt: testutil.Day(0, 9, 0)}))
	require.NoError(t, repo.Touch(ctx, testutil.Day(0, 9, 5)))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.SeenAt.Equal(testutil.Day(0, 9, 5)))

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}
