package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"deepdocs/internal/ai"
	"deepdocs/internal/model"
	"deepdocs/internal/platform/pinecone"
)

// In-memory fakes for the capability and store contracts.

type fakeEmbedder struct {
	mu       sync.Mutex
	dim      int
	embedErr error
	batchErr error
	batches  int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dim: 4}
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return make([]float32, f.dim), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	f.batches++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

type fakeIndex struct {
	mu        sync.Mutex
	upserts   map[string][]pinecone.Vector
	deleted   []string
	results   map[string][]pinecone.Match
	queryErr  map[string]error
	upsertErr error
	deleteErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		upserts:  make(map[string][]pinecone.Vector),
		results:  make(map[string][]pinecone.Match),
		queryErr: make(map[string]error),
	}
}

func (f *fakeIndex) Upsert(_ context.Context, namespace string, vectors []pinecone.Vector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts[namespace] = append(f.upserts[namespace], vectors...)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, namespace string, _ []float32, topK int) ([]pinecone.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.queryErr[namespace]; err != nil {
		return nil, err
	}
	matches := f.results[namespace]
	if topK > 0 && topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (f *fakeIndex) DeleteNamespace(_ context.Context, namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, namespace)
	delete(f.upserts, namespace)
	return nil
}

type fakeCompleter struct {
	configured bool
	reply      string
	err        error
	gotPrompt  string
}

func (f *fakeCompleter) Configured() bool { return f.configured }

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.ChatMessage) (string, error) {
	if len(messages) > 0 {
		f.gotPrompt = messages[len(messages)-1].Content
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeConvStore struct {
	mu      sync.Mutex
	nextID  uint
	convs   map[uint]model.Conversation
	touched []uint
}

func newFakeConvStore() *fakeConvStore {
	return &fakeConvStore{convs: make(map[uint]model.Conversation)}
}

func (f *fakeConvStore) Create(conversation *model.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	conversation.ID = f.nextID
	f.convs[conversation.ID] = *conversation
	return nil
}

func (f *fakeConvStore) GetByID(id uint) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[id]
	if !ok {
		return nil, nil
	}
	return &conv, nil
}

func (f *fakeConvStore) List() ([]model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Conversation, 0, len(f.convs))
	for _, conv := range f.convs {
		out = append(out, conv)
	}
	return out, nil
}

func (f *fakeConvStore) UpdateTitle(id uint, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.convs[id]
	if !ok {
		return errors.New("conversation missing")
	}
	conv.Title = title
	f.convs[id] = conv
	return nil
}

func (f *fakeConvStore) Touch(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeConvStore) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.convs, id)
	return nil
}

func (f *fakeConvStore) add(title string) uint {
	conv := model.Conversation{Title: title}
	_ = f.Create(&conv)
	return conv.ID
}

type fakeDocStore struct {
	mu        sync.Mutex
	nextID    uint
	docs      map[uint]model.Document
	createErr error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[uint]model.Document)}
}

func (f *fakeDocStore) Create(document *model.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	document.ID = f.nextID
	f.docs[document.ID] = *document
	return nil
}

func (f *fakeDocStore) GetByID(id uint) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (f *fakeDocStore) ListByConversationID(conversationID uint) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Document
	for id := uint(1); id <= f.nextID; id++ {
		if doc, ok := f.docs[id]; ok && doc.ConversationID == conversationID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeDocStore) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	nextID   uint
	messages []model.Message
}

func newFakeMessageStore() *fakeMessageStore { return &fakeMessageStore{} }

func (f *fakeMessageStore) Create(message *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	message.ID = f.nextID
	f.messages = append(f.messages, *message)
	return nil
}

// ListRecentByConversationID mirrors the repository: the newest messages, in
// chronological order.
func (f *fakeMessageStore) ListRecentByConversationID(conversationID uint, limit int) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeMessageStore) DeleteByConversationID(conversationID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.ConversationID != conversationID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

type fakeFileStore struct {
	mu      sync.Mutex
	saved   []string
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (f *fakeFileStore) Save(data []byte, originalName string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", "", f.saveErr
	}
	stored := fmt.Sprintf("stored-%d-%s", len(f.saved), originalName)
	f.saved = append(f.saved, stored)
	f.files[stored] = data
	return stored, "uploads/" + stored, nil
}

func (f *fakeFileStore) Delete(storedName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, storedName)
	delete(f.files, storedName)
	return nil
}

func (f *fakeFileStore) Open(storedName string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[storedName]
	if !ok {
		return nil, errors.New("stored file missing")
	}
	return data, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []model.Message
	err       error
}

func newFakePublisher() *fakePublisher { return &fakePublisher{} }

func (f *fakePublisher) Publish(_ context.Context, msg model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}
