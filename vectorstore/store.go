// Package vectorstore defines the narrow surface the chat pipeline needs
// from a semantic search backend, plus the ChromaDB implementation.
package vectorstore

import (
	"context"

	"github.com/agentciril/portfolio-chat/models"
)

// Filter is a set of metadata equality terms combined with AND. A nil or
// empty filter means unfiltered.
type Filter map[string]string

// Store is the corpus of embedded documents. Query returns one flat,
// index-aligned result list for the single query text; the backend's batched
// response shape is not exposed.
type Store interface {
	Add(ctx context.Context, docs []models.Document) error
	Delete(ctx context.Context, where Filter) error
	Query(ctx context.Context, text string, nResults int, where Filter) (*models.QueryResults, error)
	Count(ctx context.Context) (int, error)
}

// Embedder turns text into a vector. Satisfied by llm.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
