// Package embedding provides text embedding generation for semantic
// matching. Embeddings are produced by a remote model and consumed by
// the vector store; callers treat a failed embedding as a failed
// operation rather than retrying here.
package embedding

import (
	"context"
	"math"

	"github.com/viterin/vek/vek32"
)

// TaskType hints the embedding model about how the vector will be used.
type TaskType string

const (
	TaskDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskQuery    TaskType = "RETRIEVAL_QUERY"
)

// Embedder generates a dense vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string, task TaskType) ([]float32, error)
}

// Cosine returns the cosine similarity of two vectors. Mismatched
// dimensions or a zero-norm operand yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	normA := math.Sqrt(float64(vek32.Dot(a, a)))
	normB := math.Sqrt(float64(vek32.Dot(b, b)))
	if normA == 0 || normB == 0 {
		return 0
	}

	return float64(vek32.Dot(a, b)) / (normA * normB)
}

// Normalize returns an L2-normalized copy of v. A zero vector is
// returned unchanged.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	norm := math.Sqrt(float64(vek32.Dot(out, out)))
	if norm == 0 {
		return out
	}

	vek32.MulNumber_Inplace(out, float32(1.0/norm))
	return out
}
