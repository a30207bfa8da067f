package vectorstore

import (
	"fmt"
	"sort"

	"github.com/viterin/vek/vek32"

	"github.com/adalundhe/kindred/core/embedding"
)

// flatIndex is a flat inner-product index over L2-normalized copies of
// the store's embeddings. Inner product over unit vectors equals cosine
// similarity, so the index and the linear scan rank identically.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

// buildFlatIndex normalizes every embedding into a fresh index. A
// dimension mismatch between rows is a construction error; callers fall
// back to the linear scan.
func buildFlatIndex(embeddings [][]float32) (*flatIndex, error) {
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("vectorstore: no embeddings to index")
	}

	dim := len(embeddings[0])
	vectors := make([][]float32, len(embeddings))
	for i, vec := range embeddings {
		if len(vec) != dim {
			return nil, fmt.Errorf("vectorstore: embedding %d has dimension %d, index expects %d", i, len(vec), dim)
		}
		vectors[i] = embedding.Normalize(vec)
	}

	return &flatIndex{dim: dim, vectors: vectors}, nil
}

type indexHit struct {
	position   int
	similarity float64
}

// search returns up to k hits ordered by descending similarity.
func (idx *flatIndex) search(query []float32, k int) ([]indexHit, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("vectorstore: query dimension %d, index expects %d", len(query), idx.dim)
	}

	normalized := embedding.Normalize(query)

	hits := make([]indexHit, 0, len(idx.vectors))
	for i, vec := range idx.vectors {
		hits = append(hits, indexHit{
			position:   i,
			similarity: float64(vek32.Dot(normalized, vec)),
		})
	}

	sort.Slice(hits, func(a, b int) bool {
		return hits[a].similarity > hits[b].similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}
