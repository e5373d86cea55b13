package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"deepdocs/internal/chunker"
	"deepdocs/internal/extract"
	"deepdocs/internal/model"
	"deepdocs/internal/platform/pinecone"
)

const embeddingBatchSize = 10 // embedding APIs often limit batch size

// DocumentService runs the ingestion pipeline (extract, chunk, embed, index)
// and owns document removal including the namespace teardown.
type DocumentService struct {
	docRepo      DocumentStore
	convRepo     ConversationStore
	files        FileStore
	extractor    Extractor
	embedder     Embedder
	index        VectorIndex
	chunkSize    int
	chunkOverlap int
}

func NewDocumentService(
	docRepo DocumentStore,
	convRepo ConversationStore,
	files FileStore,
	extractor Extractor,
	embedder Embedder,
	index VectorIndex,
	chunkSize, chunkOverlap int,
) *DocumentService {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	if chunkOverlap <= 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &DocumentService{
		docRepo:      docRepo,
		convRepo:     convRepo,
		files:        files,
		extractor:    extractor,
		embedder:     embedder,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Ingest materializes an uploaded document as a fresh vector index namespace
// and a durable document record. The namespace is populated as one batch: if
// embedding or upserting fails partway, the namespace and the stored file are
// torn down again so no half-ingested document survives.
func (s *DocumentService) Ingest(ctx context.Context, conversationID uint, data []byte, originalName string) (*model.Document, error) {
	if conversationID == 0 || len(data) == 0 || strings.TrimSpace(originalName) == "" {
		return nil, ErrInvalidInput
	}
	conv, err := s.convRepo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	extracted, err := s.extractor.Extract(data, originalName)
	if err != nil {
		return nil, fmt.Errorf("extract document failed: %w", err)
	}
	if strings.TrimSpace(extracted.Text) == "" && extracted.Pages == 0 && extracted.Title == "" && extracted.Author == "" {
		return nil, fmt.Errorf("document yielded no text and no metadata: %w", extract.ErrUnsupportedFormat)
	}

	chunks, err := chunker.Split(extracted.Text, s.chunkSize, s.chunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("chunk document failed: %w", err)
	}

	title := extracted.Title
	if title == "" {
		title = originalName
	}
	author := extracted.Author
	if author == "" {
		author = "Unknown"
	}

	storedName, path, err := s.files.Save(data, originalName)
	if err != nil {
		return nil, fmt.Errorf("store upload failed: %w", err)
	}
	namespace := fmt.Sprintf("%s-%d", storedName, time.Now().UnixMilli())

	rollback := func(namespacePopulated bool) {
		if namespacePopulated {
			if err := s.index.DeleteNamespace(context.WithoutCancel(ctx), namespace); err != nil {
				log.Printf("ingest rollback: delete namespace %s failed: %v", namespace, err)
			}
		}
		if err := s.files.Delete(storedName); err != nil {
			log.Printf("ingest rollback: delete upload %s failed: %v", storedName, err)
		}
	}

	// A document with metadata but no extractable text still gets a record;
	// it simply has nothing to retrieve.
	if len(chunks) > 0 {
		vectors, err := s.embedChunks(ctx, chunks, extracted.Pages, namespace, originalName, title, author)
		if err != nil {
			rollback(false)
			return nil, err
		}
		if err := s.index.Upsert(ctx, namespace, vectors); err != nil {
			rollback(true)
			return nil, fmt.Errorf("upsert namespace %s failed: %w", namespace, err)
		}
	}

	doc := &model.Document{
		ConversationID: conversationID,
		Filename:       storedName,
		OriginalName:   originalName,
		Path:           path,
		Namespace:      namespace,
		Pages:          extracted.Pages,
		Title:          title,
		Author:         author,
		Size:           int64(len(data)),
		ChunkCount:     len(chunks),
		UploadedAt:     time.Now(),
	}
	if err := s.docRepo.Create(doc); err != nil {
		rollback(len(chunks) > 0)
		return nil, fmt.Errorf("create document record failed: %w", err)
	}
	if err := s.convRepo.Touch(conversationID); err != nil {
		log.Printf("ingest: touch conversation %d failed: %v", conversationID, err)
	}
	return doc, nil
}

// embedChunks embeds all chunks in batches and pairs each vector with its
// chunk text and provenance metadata. The page estimate distributes chunk
// index proportionally across the page count; it is coarse near page
// boundaries but plain extracted text carries no ground-truth mapping.
func (s *DocumentService) embedChunks(ctx context.Context, chunks []string, pages int, namespace, source, title, author string) ([]pinecone.Vector, error) {
	var embeddings [][]float32
	for i := 0; i < len(chunks); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch, err := s.embedder.EmbedBatch(ctx, chunks[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunk batch failed: %w", err)
		}
		embeddings = append(embeddings, batch...)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}

	vectors := make([]pinecone.Vector, len(chunks))
	for i := range chunks {
		page := 1
		if pages > 0 {
			page = i*pages/len(chunks) + 1
		}
		vectors[i] = pinecone.Vector{
			ID:     fmt.Sprintf("%s:%d", namespace, i),
			Values: embeddings[i],
			Metadata: map[string]interface{}{
				"text":         chunks[i],
				"source":       source,
				"title":        title,
				"author":       author,
				"page":         page,
				"chunk_index":  i,
				"total_chunks": len(chunks),
			},
		}
	}
	return vectors, nil
}

// Open returns a document's record together with its stored bytes.
func (s *DocumentService) Open(documentID uint) (*model.Document, []byte, error) {
	if documentID == 0 {
		return nil, nil, ErrInvalidInput
	}
	doc, err := s.docRepo.GetByID(documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, ErrDocumentNotFound
	}
	data, err := s.files.Open(doc.Filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open stored document failed: %w", err)
	}
	return doc, data, nil
}

// Remove deletes a document together with its namespace and stored file.
// The namespace deletion must succeed before the record goes away; a
// dangling namespace is worse than a retried removal.
func (s *DocumentService) Remove(ctx context.Context, documentID uint) error {
	if documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.docRepo.GetByID(documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := s.index.DeleteNamespace(ctx, doc.Namespace); err != nil {
		return fmt.Errorf("delete namespace %s failed: %w", doc.Namespace, err)
	}
	if err := s.files.Delete(doc.Filename); err != nil {
		log.Printf("remove document: delete upload %s failed: %v", doc.Filename, err)
	}
	if err := s.docRepo.Delete(doc.ID); err != nil {
		return err
	}
	if err := s.convRepo.Touch(doc.ConversationID); err != nil {
		log.Printf("remove document: touch conversation %d failed: %v", doc.ConversationID, err)
	}
	return nil
}

// RemoveByConversation tears down every document owned by the conversation.
func (s *DocumentService) RemoveByConversation(ctx context.Context, conversationID uint) error {
	docs, err := s.docRepo.ListByConversationID(conversationID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.Remove(ctx, doc.ID); err != nil {
			return err
		}
	}
	return nil
}

// List returns the conversation's documents.
func (s *DocumentService) List(conversationID uint) ([]model.Document, error) {
	if conversationID == 0 {
		return nil, ErrInvalidInput
	}
	return s.docRepo.ListByConversationID(conversationID)
}
