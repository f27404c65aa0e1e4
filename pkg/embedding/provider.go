package embedding

import (
	"context"
	"math"
)

// Provider converts free text into a fixed-dimension vector. Implementations
// must be deterministic for identical input within one model version.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// ModelVersion identifies the embedding model, stored alongside vectors
	// so that index rebuilds can detect version drift.
	ModelVersion() string
}

// normalizeVector normalizes a vector to unit length (magnitude = 1).
// pgvector cosine distance assumes normalized vectors.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
