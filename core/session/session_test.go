package session

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "researcher-7", map[string]any{
		"research_area": "marine biology",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "session_"))

	fetched, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "researcher-7", fetched.UserID)
	assert.Equal(t, "marine biology", fetched.Context["research_area"])
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "session_nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateNilContext(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "", nil)
	require.NoError(t, err)

	fetched, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, fetched.Context)
	assert.Empty(t, fetched.Context)
}

func TestUpdateContext(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "u", nil)
	require.NoError(t, err)

	err = store.UpdateContext(ctx, created.ID, map[string]any{"academic_stage": "Postdoc"})
	require.NoError(t, err)

	fetched, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Postdoc", fetched.Context["academic_stage"])
}

func TestUpdateContextMissing(t *testing.T) {
	store := openTestStore(t)

	err := store.UpdateContext(context.Background(), "session_nope", map[string]any{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryChronologicalWithLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "u", nil)
	require.NoError(t, err)

	require.NoError(t, store.AppendMessage(ctx, created.ID, "user", "first", ""))
	require.NoError(t, store.AppendMessage(ctx, created.ID, "assistant", "second", "Vent Validator"))
	require.NoError(t, store.AppendMessage(ctx, created.ID, "user", "third", ""))
	require.NoError(t, store.AppendMessage(ctx, created.ID, "assistant", "fourth", "PI Simulator"))

	history, err := store.History(ctx, created.ID, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "second", history[0].Content)
	assert.Equal(t, "third", history[1].Content)
	assert.Equal(t, "fourth", history[2].Content)

	all, err := store.History(ctx, created.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "first", all[0].Content)
}

func TestHistoryEmpty(t *testing.T) {
	store := openTestStore(t)

	history, err := store.History(context.Background(), "session_nope", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSummary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "u", nil)
	require.NoError(t, err)

	require.NoError(t, store.AppendMessage(ctx, created.ID, "user", "hi", ""))
	require.NoError(t, store.AppendMessage(ctx, created.ID, "assistant", "hello", "Vent Validator"))
	require.NoError(t, store.AppendMessage(ctx, created.ID, "user", "more", ""))
	require.NoError(t, store.AppendMessage(ctx, created.ID, "assistant", "sure", "The Scribe"))
	require.NoError(t, store.AppendMessage(ctx, created.ID, "assistant", "again", "Vent Validator"))

	summary, err := store.Summary(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.MessageCount)
	assert.Equal(t, []string{"The Scribe", "Vent Validator"}, summary.AgentsUsed)
}
