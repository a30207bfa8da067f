package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.5, 0.5, 0.5}
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := []float32{1, 0, 0}
		b := []float32{0, 1, 0}
		assert.InDelta(t, 0.0, Cosine(a, b), 1e-6)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		a := []float32{1, 2, 3}
		b := []float32{-1, -2, -3}
		assert.InDelta(t, -1.0, Cosine(a, b), 1e-6)
	})

	t.Run("dimension mismatch is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Cosine([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("zero vector is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Cosine([]float32{0, 0, 0}, []float32{1, 2, 3}))
	})

	t.Run("empty vectors are zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Cosine(nil, nil))
	})
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	out := Normalize(v)

	norm := math.Sqrt(float64(out[0]*out[0] + out[1]*out[1]))
	assert.InDelta(t, 1.0, norm, 1e-6)

	// input untouched
	assert.Equal(t, []float32{3, 4}, v)
}

func TestNormalizeZeroVector(t *testing.T) {
	out := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, out)
}

type countingEmbedder struct {
	calls int
	err   error
}

func (e *countingEmbedder) Embed(ctx context.Context, text string, task TaskType) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func TestCachingEmbedderHit(t *testing.T) {
	inner := &countingEmbedder{}
	cached, err := NewCachingEmbedder(inner, 8, nil)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cached.Embed(ctx, "hello", TaskQuery)
	require.NoError(t, err)

	second, err := cached.Embed(ctx, "hello", TaskQuery)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cached.Len())
}

func TestCachingEmbedderKeyIncludesTask(t *testing.T) {
	inner := &countingEmbedder{}
	cached, err := NewCachingEmbedder(inner, 8, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cached.Embed(ctx, "hello", TaskQuery)
	require.NoError(t, err)
	_, err = cached.Embed(ctx, "hello", TaskDocument)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachingEmbedderErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("quota exceeded")}
	cached, err := NewCachingEmbedder(inner, 8, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = cached.Embed(ctx, "hello", TaskQuery)
	require.Error(t, err)

	inner.err = nil
	_, err = cached.Embed(ctx, "hello", TaskQuery)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachingEmbedderDefaultSize(t *testing.T) {
	cached, err := NewCachingEmbedder(&countingEmbedder{}, 0, nil)
	require.NoError(t, err)
	require.NotNil(t, cached)
}
