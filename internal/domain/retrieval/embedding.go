package retrieval

import (
	"context"
	"fmt"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/ports"
)

// EmbeddingScorer scores by cosine similarity of model embeddings.
// Negative similarities are clamped to 0 to keep scores in [0,1].
type EmbeddingScorer struct {
	embedder ports.EmbeddingService
	vectors  [][]float64
}

// NewEmbeddingScorer creates a scorer backed by embedder.
func NewEmbeddingScorer(embedder ports.EmbeddingService) *EmbeddingScorer {
	return &EmbeddingScorer{embedder: embedder}
}

// Index embeds every document once.
func (s *EmbeddingScorer) Index(ctx context.Context, docs []entities.Document) error {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("got %d embeddings for %d documents", len(embeddings), len(docs))
	}

	s.vectors = make([][]float64, len(embeddings))
	for i, e := range embeddings {
		s.vectors[i] = widen(e)
	}
	return nil
}

// Score embeds query and compares it with every document.
func (s *EmbeddingScorer) Score(ctx context.Context, query string) ([]float64, error) {
	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	q := widen(emb)
	scores := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		if sim := cosine(q, v); sim > 0 {
			scores[i] = sim
		}
	}
	return scores, nil
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
