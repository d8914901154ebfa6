// Package retrieval ranks a small fixed corpus of grounding documents
// against a question. Scoring sits behind the Scorer interface so the
// bag-of-words default can be swapped for an embedding backend.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
)

// Scorer assigns a similarity in [0,1] between a query and each indexed document.
type Scorer interface {
	// Index prepares the scorer for docs. Called once before Score.
	Index(ctx context.Context, docs []entities.Document) error

	// Score returns one similarity per indexed document, in corpus order.
	Score(ctx context.Context, query string) ([]float64, error)
}

// Retriever returns the top-k documents for a query.
type Retriever struct {
	docs   []entities.Document
	scorer Scorer
}

// NewRetriever indexes docs with scorer.
func NewRetriever(ctx context.Context, docs []entities.Document, scorer Scorer) (*Retriever, error) {
	if err := scorer.Index(ctx, docs); err != nil {
		return nil, fmt.Errorf("indexing corpus: %w", err)
	}
	return &Retriever{docs: docs, scorer: scorer}, nil
}

// Retrieve returns at most k snippets sorted by descending score,
// ties kept in corpus order.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]entities.Snippet, error) {
	if k <= 0 || len(r.docs) == 0 {
		return []entities.Snippet{}, nil
	}

	scores, err := r.scorer.Score(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scoring query: %w", err)
	}
	if len(scores) != len(r.docs) {
		return nil, fmt.Errorf("scorer returned %d scores for %d documents", len(scores), len(r.docs))
	}

	order := make([]int, len(r.docs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if k > len(order) {
		k = len(order)
	}
	out := make([]entities.Snippet, k)
	for i, idx := range order[:k] {
		out[i] = entities.Snippet{
			DocumentID: r.docs[idx].ID,
			Text:       r.docs[idx].Text,
			Score:      scores[idx],
		}
	}
	return out, nil
}

// Retrieve ranks corpus against query with the bag-of-words scorer.
func Retrieve(query string, corpus []entities.Document, k int) []entities.Snippet {
	r, _ := NewRetriever(context.Background(), corpus, NewBagOfWords())
	snippets, _ := r.Retrieve(context.Background(), query, k)
	return snippets
}

// cosine returns the cosine similarity of a and b, 0 when either is a zero vector.
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
