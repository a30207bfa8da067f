package vectorstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/kindred/core/embedding"
)

// fakeEmbedder returns fixed vectors per text, with a fallback for
// anything unmapped.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string, task embedding.TaskType) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func longText(label string) string {
	return label + ": " + strings.Repeat("a long struggle about research ", 3)
}

func profileWith(id string, vec []float32) PeerProfile {
	return PeerProfile{
		ProfileID:    id,
		Embedding:    vec,
		StruggleText: longText(id),
	}
}

func newTestStore(t *testing.T, embedder embedding.Embedder) *Store {
	t.Helper()
	return NewStore(Config{Embedder: embedder})
}

func TestAddValidation(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})

	t.Run("short struggle text rejected", func(t *testing.T) {
		added := store.Add(PeerProfile{
			ProfileID:    "short",
			Embedding:    []float32{1, 0, 0},
			StruggleText: "too short",
		}, true)
		assert.False(t, added)
	})

	t.Run("missing embedding rejected", func(t *testing.T) {
		added := store.Add(PeerProfile{
			ProfileID:    "novec",
			StruggleText: longText("novec"),
		}, true)
		assert.False(t, added)
	})

	t.Run("valid profile accepted", func(t *testing.T) {
		assert.True(t, store.Add(profileWith("ok", []float32{1, 0, 0}), true))
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		added := store.Add(PeerProfile{
			ProfileID:    "wrongdim",
			Embedding:    []float32{1, 0},
			StruggleText: longText("wrongdim"),
		}, true)
		assert.False(t, added)
	})
}

func TestAddDeduplication(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})

	require.True(t, store.Add(profileWith("base", []float32{1, 0, 0}), false))

	t.Run("near duplicate rejected", func(t *testing.T) {
		added := store.Add(profileWith("near", []float32{0.999, 0.01, 0}), false)
		assert.False(t, added)
	})

	t.Run("near duplicate accepted with skipDedup", func(t *testing.T) {
		added := store.Add(profileWith("near2", []float32{0.999, 0.02, 0}), true)
		assert.True(t, added)
	})

	t.Run("distinct profile accepted", func(t *testing.T) {
		added := store.Add(profileWith("distinct", []float32{0, 1, 0}), false)
		assert.True(t, added)
	})
}

func TestSearchRankingAndThreshold(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"my query": {1, 0, 0},
	}}
	store := newTestStore(t, embedder)

	require.True(t, store.Add(profileWith("exact", []float32{1, 0, 0}), true))
	require.True(t, store.Add(profileWith("close", []float32{0.8, 0.6, 0}), true))
	require.True(t, store.Add(profileWith("far", []float32{0.6, 0.8, 0}), true))
	require.True(t, store.Add(profileWith("orthogonal", []float32{0, 1, 0}), true))

	results := store.Search(context.Background(), "my query", 0, 0)

	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].ProfileID)
	assert.Equal(t, "close", results[1].ProfileID)
	assert.Greater(t, results[0].SimilarityScore, results[1].SimilarityScore)
	assert.True(t, results[0].SuggestedConnection)
	assert.Contains(t, results[0].MatchReason, "Similar struggle")
}

func TestSearchTopKLimit(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"my query": {1, 0, 0},
	}}
	store := newTestStore(t, embedder)

	require.True(t, store.Add(profileWith("exact", []float32{1, 0, 0}), true))
	require.True(t, store.Add(profileWith("close", []float32{0.8, 0.6, 0}), true))

	results := store.Search(context.Background(), "my query", 1, 0)
	require.Len(t, results, 1)
	assert.Equal(t, "exact", results[0].ProfileID)
}

func TestSearchEmptyStore(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	assert.Nil(t, store.Search(context.Background(), "anything", 0, 0))
}

func TestSearchEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newTestStore(t, embedder)
	require.True(t, store.Add(profileWith("one", []float32{1, 0, 0}), true))

	embedder.err = errors.New("quota exceeded")
	assert.Nil(t, store.Search(context.Background(), "anything", 0, 0))
}

func TestLinearScanMatchesIndex(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})

	require.True(t, store.Add(profileWith("exact", []float32{1, 0, 0}), true))
	require.True(t, store.Add(profileWith("close", []float32{0.8, 0.6, 0}), true))
	require.True(t, store.Add(profileWith("far", []float32{0.6, 0.8, 0}), true))

	query := []float32{1, 0, 0}

	store.mu.Lock()
	fromIndex, err := store.searchIndexLocked(query, 5, 0.5)
	require.NoError(t, err)
	fromLinear := store.searchLinearLocked(query, 5, 0.5)
	store.mu.Unlock()

	require.Equal(t, len(fromLinear), len(fromIndex))
	for i := range fromIndex {
		assert.Equal(t, fromLinear[i].ProfileID, fromIndex[i].ProfileID)
		assert.InDelta(t, fromLinear[i].SimilarityScore, fromIndex[i].SimilarityScore, 1e-5)
	}
}

func TestAddFromSessionDisabled(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})

	id := store.AddFromSession(context.Background(), longText("live"), "user-1", "", "", nil)
	assert.Equal(t, "", id)
	assert.Equal(t, 0, store.Stats().TotalProfiles)
}

func TestAddFromSessionEnabled(t *testing.T) {
	store := NewStore(Config{
		Embedder:        &fakeEmbedder{},
		CaptureUserData: true,
	})

	id := store.AddFromSession(context.Background(), longText("live"), "user-1",
		"3rd year PhD", "computational biology", []string{"frustration"})
	require.NotEmpty(t, id)
	assert.True(t, strings.HasPrefix(id, "user_"))

	profile, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "3rd year PhD", profile.AcademicStage)
	assert.Equal(t, "computational biology", profile.ResearchArea)
	assert.Equal(t, "user_session", profile.AnonymizedMetadata["source"])
	assert.Equal(t, []string{"frustration"}, profile.AnonymizedMetadata["emotional_tags"])
}

func TestAddFromSessionShortTextRejected(t *testing.T) {
	store := NewStore(Config{
		Embedder:        &fakeEmbedder{},
		CaptureUserData: true,
	})

	id := store.AddFromSession(context.Background(), "too short", "user-1", "", "", nil)
	assert.Equal(t, "", id)
}

func TestSaveAndLoadPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		longText("a"): {1, 0, 0},
		longText("b"): {0, 1, 0},
	}}

	source := NewStore(Config{Embedder: embedder, PersistencePath: path})
	require.True(t, source.Add(profileWith("a", []float32{1, 0, 0}), true))
	require.True(t, source.Add(profileWith("b", []float32{0, 1, 0}), true))
	require.NoError(t, source.Save())

	restored := NewStore(Config{Embedder: embedder, PersistencePath: path})
	require.NoError(t, restored.LoadPersisted(context.Background()))

	stats := restored.Stats()
	assert.Equal(t, 2, stats.TotalProfiles)
	assert.Equal(t, 2, stats.TotalEmbeddings)
	assert.True(t, stats.UsingIndex)

	profile, ok := restored.Get("a")
	require.True(t, ok)
	assert.Equal(t, longText("a"), profile.StruggleText)

	// second call is a no-op
	require.NoError(t, restored.LoadPersisted(context.Background()))
	assert.Equal(t, 2, restored.Stats().TotalProfiles)
}

func TestLoadPersistedMissingFile(t *testing.T) {
	store := NewStore(Config{
		Embedder:        &fakeEmbedder{},
		PersistencePath: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.NoError(t, store.LoadPersisted(context.Background()))
	assert.Equal(t, 0, store.Stats().TotalProfiles)
}

func TestLoadPersistedSkipsFailedEmbeddings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	source := NewStore(Config{Embedder: &fakeEmbedder{}, PersistencePath: path})
	require.True(t, source.Add(profileWith("keep", []float32{1, 0, 0}), true))
	require.NoError(t, source.Save())

	restored := NewStore(Config{
		Embedder:        &fakeEmbedder{err: errors.New("service down")},
		PersistencePath: path,
	})
	require.NoError(t, restored.LoadPersisted(context.Background()))
	assert.Equal(t, 0, restored.Stats().TotalProfiles)
}

func TestLoadFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	seed := `[
  {
    "profile_id": "seed_001",
    "struggle_text": "` + longText("seed one") + `",
    "academic_stage": "2nd year PhD",
    "research_area": "neuroscience",
    "emotional_tags": ["imposter_syndrome"]
  },
  {
    "profile_id": "seed_002",
    "struggle_text": "` + longText("seed two") + `"
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		longText("seed one"): {1, 0, 0},
		longText("seed two"): {0, 1, 0},
	}}
	store := newTestStore(t, embedder)

	added, err := store.LoadFromJSON(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	profile, ok := store.Get("seed_001")
	require.True(t, ok)
	assert.Equal(t, "neuroscience", profile.ResearchArea)
	assert.Equal(t, []string{"imposter_syndrome"}, profile.AnonymizedMetadata["emotional_tags"])
}

func TestLoadFromJSONMissingFile(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	_, err := store.LoadFromJSON(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	require.True(t, store.Add(profileWith("one", []float32{1, 0, 0}), true))

	stats := store.Stats()
	assert.Equal(t, 1, stats.TotalProfiles)
	assert.Equal(t, 1, stats.TotalEmbeddings)
	assert.True(t, stats.UsingIndex)
	assert.Equal(t, 1, stats.AdditionsSinceSave)
}
