package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepdocs/internal/platform/pinecone"
)

func matchesFor(document string, n int) []pinecone.Match {
	matches := make([]pinecone.Match, n)
	for i := range matches {
		matches[i] = pinecone.Match{
			ID:    fmt.Sprintf("%s:%d", document, i),
			Score: 0.9 - float32(i)*0.1,
			Metadata: map[string]interface{}{
				"text":        fmt.Sprintf("chunk %d of %s", i, document),
				"source":      document,
				"page":        float64(i + 1),
				"chunk_index": float64(i),
			},
		}
	}
	return matches
}

func TestRetrieve_ZeroNamespaces(t *testing.T) {
	retriever := NewRetriever(newFakeEmbedder(), newFakeIndex(), time.Second)

	chunks, err := retriever.Retrieve(context.Background(), "anything", nil, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieve_EmbedFailure(t *testing.T) {
	embedder := newFakeEmbedder()
	embedder.embedErr = errors.New("embedding backend down")
	retriever := NewRetriever(embedder, newFakeIndex(), time.Second)

	_, err := retriever.Retrieve(context.Background(), "question", []string{"ns-a"}, 5, 10)
	assert.Error(t, err)
}

func TestRetrieve_SkipsFailingNamespace(t *testing.T) {
	index := newFakeIndex()
	index.results["ns-a"] = matchesFor("a.pdf", 2)
	index.queryErr["ns-b"] = errors.New("namespace timeout")
	index.results["ns-c"] = matchesFor("c.pdf", 2)
	retriever := NewRetriever(newFakeEmbedder(), index, time.Second)

	chunks, err := retriever.Retrieve(context.Background(), "question", []string{"ns-a", "ns-b", "ns-c"}, 5, 10)
	require.NoError(t, err, "one failing namespace must not abort the others")
	require.Len(t, chunks, 4)
	for _, c := range chunks {
		assert.NotEqual(t, "ns-b", c.Namespace)
	}
}

func TestRetrieve_AllNamespacesFailing(t *testing.T) {
	index := newFakeIndex()
	index.queryErr["ns-a"] = errors.New("down")
	index.queryErr["ns-b"] = errors.New("down")
	retriever := NewRetriever(newFakeEmbedder(), index, time.Second)

	chunks, err := retriever.Retrieve(context.Background(), "question", []string{"ns-a", "ns-b"}, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieve_TruncatesToOverallLimit(t *testing.T) {
	index := newFakeIndex()
	index.results["ns-a"] = matchesFor("a.pdf", 5)
	index.results["ns-b"] = matchesFor("b.pdf", 5)
	retriever := NewRetriever(newFakeEmbedder(), index, time.Second)

	chunks, err := retriever.Retrieve(context.Background(), "question", []string{"ns-a", "ns-b"}, 5, 6)
	require.NoError(t, err)
	assert.Len(t, chunks, 6)
}

func TestRetrieve_KeepsNamespaceOrder(t *testing.T) {
	index := newFakeIndex()
	index.results["ns-a"] = matchesFor("a.pdf", 2)
	index.results["ns-b"] = matchesFor("b.pdf", 2)
	retriever := NewRetriever(newFakeEmbedder(), index, time.Second)

	chunks, err := retriever.Retrieve(context.Background(), "question", []string{"ns-a", "ns-b"}, 5, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, []string{"ns-a", "ns-a", "ns-b", "ns-b"},
		[]string{chunks[0].Namespace, chunks[1].Namespace, chunks[2].Namespace, chunks[3].Namespace})
}

func TestRetrieve_MapsMetadata(t *testing.T) {
	index := newFakeIndex()
	index.results["ns-a"] = matchesFor("report.pdf", 1)
	retriever := NewRetriever(newFakeEmbedder(), index, time.Second)

	chunks, err := retriever.Retrieve(context.Background(), "question", []string{"ns-a"}, 5, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "chunk 0 of report.pdf", chunks[0].Text)
	assert.Equal(t, "report.pdf", chunks[0].Document)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 0, chunks[0].Index)
	assert.InDelta(t, 0.9, chunks[0].Score, 0.001)
}
