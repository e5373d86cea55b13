package app

import (
	"context"

	"deepdocs/internal/ai"
	"deepdocs/internal/extract"
	"deepdocs/internal/model"
	"deepdocs/internal/platform/pinecone"
)

// Capability contracts consumed by the services. Each is satisfied by a real
// adapter in production and by a fake in tests.

// Embedder converts text into fixed-length vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer is the language-model capability. Configured reports whether the
// capability can be invoked at all; when it cannot, callers degrade instead
// of failing.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, messages []ai.ChatMessage) (string, error)
}

// VectorIndex stores embeddings partitioned by namespace and answers
// similarity queries within one namespace.
type VectorIndex interface {
	Upsert(ctx context.Context, namespace string, vectors []pinecone.Vector) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]pinecone.Match, error)
	DeleteNamespace(ctx context.Context, namespace string) error
}

// Extractor turns uploaded bytes into text plus structural metadata.
type Extractor interface {
	Extract(data []byte, filename string) (*extract.Result, error)
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(data []byte, filename string) (*extract.Result, error)

func (f ExtractorFunc) Extract(data []byte, filename string) (*extract.Result, error) {
	return f(data, filename)
}

// FileStore persists uploaded bytes under a generated name.
type FileStore interface {
	Save(data []byte, originalName string) (storedName, path string, err error)
	Delete(storedName string) error
	Open(storedName string) ([]byte, error)
}

// AsyncMessagePublisher hands messages to the persistence queue.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

// HistoryCache is the read-through cache in front of the message store.
type HistoryCache interface {
	GetHistory(ctx context.Context, conversationID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, conversationID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, conversationID uint) error
	MarkDirty(ctx context.Context, conversationID uint) error
	IsDirty(ctx context.Context, conversationID uint) (bool, error)
}
