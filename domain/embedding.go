package domain

import "context"

// Embedding represents a numerical vector representation of text.
type Embedding []float32

// EmbeddingDimension is the fixed output size of the configured embedding
// model. The vector index collection is created with the same size.
const EmbeddingDimension = 1536

// EmbeddingClient defines the interface for generating embeddings from text.
// Implementations hold a server-side credential and must never be reachable
// from an untrusted caller.
type EmbeddingClient interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) (Embedding, error)
	// Provider returns the name of the embedding provider.
	Provider() string
	// Model returns the identifier of the underlying embedding model.
	Model() string
}
