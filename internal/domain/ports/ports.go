// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
)

// OrderSource supplies the full set of recent orders.
type OrderSource interface {
	// FetchOrders returns every order the upstream knows about.
	// forceRefresh bypasses any cached response.
	FetchOrders(ctx context.Context, forceRefresh bool) ([]entities.Order, error)
}

// ResponseCache stores raw upstream response bodies by a stable key.
type ResponseCache interface {
	// Get returns the cached body. found is false on a miss.
	Get(ctx context.Context, key string) (body []byte, found bool, err error)

	// Set stores body under key, replacing any previous value.
	Set(ctx context.Context, key string, body []byte) error

	// Delete removes a single key.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying connection.
	Close() error
}

// LLMService generates a text answer from a composed prompt.
type LLMService interface {
	// Generate produces a response for the system instructions and user prompt.
	Generate(ctx context.Context, system, prompt string) (string, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// EmbeddingService generates vector embeddings for text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
