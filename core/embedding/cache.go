package embedding

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 512

// CachingEmbedder wraps an Embedder with an LRU cache keyed on text and
// task type. Identical requests within the cache window skip the remote
// call entirely.
type CachingEmbedder struct {
	inner  Embedder
	cache  *lru.Cache[string, []float32]
	logger *slog.Logger
}

// NewCachingEmbedder wraps inner with an LRU cache of the given size.
// A non-positive size falls back to DefaultCacheSize.
func NewCachingEmbedder(inner Embedder, size int, logger *slog.Logger) (*CachingEmbedder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("embedding: create cache: %w", err)
	}

	return &CachingEmbedder{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}, nil
}

func (e *CachingEmbedder) Embed(ctx context.Context, text string, task TaskType) ([]float32, error) {
	key := string(task) + "\x00" + text

	if vec, ok := e.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text, task)
	if err != nil {
		return nil, err
	}

	e.cache.Add(key, vec)
	return vec, nil
}

// Len reports the number of cached embeddings.
func (e *CachingEmbedder) Len() int {
	return e.cache.Len()
}
