package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	defaultTopKPerNamespace = 5
	defaultTopKOverall      = 10
	defaultQueryTimeout     = 10 * time.Second
)

// ScoredChunk is one retrieved chunk with its provenance metadata.
type ScoredChunk struct {
	Text      string  `json:"text"`
	Score     float32 `json:"score"`
	Document  string  `json:"document"`
	Page      int     `json:"page"`
	Namespace string  `json:"namespace"`
	Index     int     `json:"index"`
}

// Retriever fans a question out across document namespaces and merges the
// per-namespace hits. A failing namespace is logged and skipped; it never
// aborts retrieval for the others.
type Retriever struct {
	embedder     Embedder
	index        VectorIndex
	queryTimeout time.Duration
}

func NewRetriever(embedder Embedder, index VectorIndex, queryTimeout time.Duration) *Retriever {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Retriever{
		embedder:     embedder,
		index:        index,
		queryTimeout: queryTimeout,
	}
}

// Retrieve embeds the question once and queries every namespace concurrently,
// each call bounded by its own timeout. Results keep per-namespace order and
// are truncated to topKOverall; cross-namespace score scales are not assumed
// comparable, so no global re-ranking happens.
//
// Zero namespaces, or every namespace failing, yields an empty result and no
// error. A non-nil error means the question itself could not be embedded.
func (r *Retriever) Retrieve(ctx context.Context, question string, namespaces []string, topKPer, topKOverall int) ([]ScoredChunk, error) {
	if len(namespaces) == 0 {
		return nil, nil
	}
	if topKPer <= 0 {
		topKPer = defaultTopKPerNamespace
	}
	if topKOverall <= 0 {
		topKOverall = defaultTopKOverall
	}

	queryVec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question failed: %w", err)
	}

	perNamespace := make([][]ScoredChunk, len(namespaces))
	var wg sync.WaitGroup
	for i, ns := range namespaces {
		wg.Add(1)
		go func(i int, ns string) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
			defer cancel()

			matches, err := r.index.Query(callCtx, ns, queryVec, topKPer)
			if err != nil {
				log.Printf("retrieve: namespace %s skipped: %v", ns, err)
				return
			}
			chunks := make([]ScoredChunk, 0, len(matches))
			for _, m := range matches {
				chunks = append(chunks, ScoredChunk{
					Text:      metadataString(m.Metadata, "text"),
					Score:     m.Score,
					Document:  metadataString(m.Metadata, "source"),
					Page:      metadataInt(m.Metadata, "page"),
					Index:     metadataInt(m.Metadata, "chunk_index"),
					Namespace: ns,
				})
			}
			perNamespace[i] = chunks
		}(i, ns)
	}
	wg.Wait()

	var merged []ScoredChunk
	for _, chunks := range perNamespace {
		merged = append(merged, chunks...)
	}
	if len(merged) > topKOverall {
		merged = merged[:topKOverall]
	}
	return merged, nil
}

func metadataString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func metadataInt(m map[string]interface{}, key string) int {
	// numbers arrive as float64 after JSON decoding
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}
