package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
)

const edgePunctuation = ".,:;()[]{}\"'"

// BagOfWords scores by cosine similarity of binary token-presence vectors
// over the corpus vocabulary. Query tokens outside the vocabulary are ignored.
type BagOfWords struct {
	vocab   []string
	vectors [][]float64
}

// NewBagOfWords creates an empty bag-of-words scorer.
func NewBagOfWords() *BagOfWords {
	return &BagOfWords{}
}

// Index builds the vocabulary and one presence vector per document.
func (b *BagOfWords) Index(ctx context.Context, docs []entities.Document) error {
	seen := make(map[string]struct{})
	for _, d := range docs {
		for tok := range Tokenize(d.Text) {
			seen[tok] = struct{}{}
		}
	}

	b.vocab = make([]string, 0, len(seen))
	for tok := range seen {
		b.vocab = append(b.vocab, tok)
	}
	sort.Strings(b.vocab)

	b.vectors = make([][]float64, len(docs))
	for i, d := range docs {
		b.vectors[i] = b.vector(d.Text)
	}
	return nil
}

// Score returns the cosine similarity of query against every document.
func (b *BagOfWords) Score(ctx context.Context, query string) ([]float64, error) {
	q := b.vector(query)
	scores := make([]float64, len(b.vectors))
	for i, v := range b.vectors {
		scores[i] = cosine(q, v)
	}
	return scores, nil
}

// Vocabulary returns the sorted vocabulary.
func (b *BagOfWords) Vocabulary() []string {
	return b.vocab
}

func (b *BagOfWords) vector(text string) []float64 {
	toks := Tokenize(text)
	v := make([]float64, len(b.vocab))
	for i, w := range b.vocab {
		if _, ok := toks[w]; ok {
			v[i] = 1
		}
	}
	return v
}

// Tokenize splits on whitespace, strips edge punctuation and lower-cases.
// The result is a set: repeated words count once.
func Tokenize(text string) map[string]struct{} {
	toks := make(map[string]struct{})
	for _, f := range strings.Fields(text) {
		t := strings.ToLower(strings.Trim(f, edgePunctuation))
		if t == "" {
			continue
		}
		toks[t] = struct{}{}
	}
	return toks
}
