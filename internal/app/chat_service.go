package app

import (
	"context"
	"strings"
	"time"

	"deepdocs/internal/model"
)

// ConversationService owns the conversation lifecycle and the query flow:
// question in, grounded answer plus citations out, both sides of the exchange
// persisted asynchronously.
type ConversationService struct {
	convRepo     ConversationStore
	messageRepo  MessageStore
	docService   *DocumentService
	answers      *AnswerService
	memory       *MemoryStore
	publisher    AsyncMessagePublisher
	historyCache HistoryCache
	maxHistory   int
}

func NewConversationService(
	convRepo ConversationStore,
	messageRepo MessageStore,
	docService *DocumentService,
	answers *AnswerService,
	memory *MemoryStore,
	publisher AsyncMessagePublisher,
	historyCache HistoryCache,
	maxHistory int,
) *ConversationService {
	if maxHistory <= 0 {
		maxHistory = 40
	}
	return &ConversationService{
		convRepo:     convRepo,
		messageRepo:  messageRepo,
		docService:   docService,
		answers:      answers,
		memory:       memory,
		publisher:    publisher,
		historyCache: historyCache,
		maxHistory:   maxHistory,
	}
}

func (s *ConversationService) Create(title string) (*model.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New Chat"
	}
	conversation := &model.Conversation{Title: title}
	if err := s.convRepo.Create(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *ConversationService) List() ([]model.Conversation, error) {
	return s.convRepo.List()
}

// Get returns the conversation and its ordered message history.
func (s *ConversationService) Get(id uint) (*model.Conversation, []model.Message, error) {
	if id == 0 {
		return nil, nil, ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if conversation == nil {
		return nil, nil, ErrConversationNotFound
	}
	messages, err := s.History(id, 0)
	if err != nil {
		return nil, nil, err
	}
	return conversation, messages, nil
}

func (s *ConversationService) Rename(id uint, title string) error {
	if id == 0 || strings.TrimSpace(title) == "" {
		return ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByID(id)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}
	return s.convRepo.UpdateTitle(id, strings.TrimSpace(title))
}

// Delete removes the conversation, its messages and documents (namespaces
// included), and drops its dialogue memory.
func (s *ConversationService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByID(id)
	if err != nil {
		return err
	}
	if conversation == nil {
		return ErrConversationNotFound
	}
	if err := s.docService.RemoveByConversation(ctx, id); err != nil {
		return err
	}
	if err := s.messageRepo.DeleteByConversationID(id); err != nil {
		return err
	}
	if err := s.convRepo.Delete(id); err != nil {
		return err
	}
	s.memory.Clear(id)
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, id)
	}
	return nil
}

// QueryResult pairs the synthesized answer with the two messages created for
// the exchange.
type QueryResult struct {
	Answer         string           `json:"answer"`
	Citations      []model.Citation `json:"citations"`
	Degraded       bool             `json:"degraded,omitempty"`
	DegradedReason string           `json:"degraded_reason,omitempty"`
	Messages       []model.Message  `json:"messages"`
}

// Query answers a question against the conversation's documents and appends
// both sides of the exchange to the persisted history.
func (s *ConversationService) Query(ctx context.Context, conversationID uint, question string) (*QueryResult, error) {
	if conversationID == 0 {
		return nil, ErrInvalidInput
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	docs, err := s.docService.List(conversationID)
	if err != nil {
		return nil, err
	}
	namespaces := make([]string, 0, len(docs))
	for _, d := range docs {
		namespaces = append(namespaces, d.Namespace)
	}

	prior, err := s.History(conversationID, s.maxHistory)
	if err != nil {
		return nil, err
	}

	if s.publisher == nil {
		return nil, ErrMessageEnqueue
	}
	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, conversationID)
		_ = s.historyCache.DeleteHistory(ctx, conversationID)
	}

	userMessage := model.Message{
		ConversationID: conversationID,
		Role:           "user",
		Content:        question,
		CreatedAt:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, userMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	result, err := s.answers.Answer(ctx, conversationID, question, namespaces, prior)
	if err != nil {
		return nil, err
	}

	assistantMessage := model.Message{
		ConversationID: conversationID,
		Role:           "assistant",
		Content:        result.Answer,
		CreatedAt:      time.Now(),
	}
	assistantMessage.SetCitations(result.Citations)
	if err := s.publisher.Publish(ctx, assistantMessage); err != nil {
		return nil, ErrMessageEnqueue
	}

	if err := s.convRepo.Touch(conversationID); err != nil {
		return nil, err
	}

	return &QueryResult{
		Answer:         result.Answer,
		Citations:      result.Citations,
		Degraded:       result.Degraded,
		DegradedReason: result.DegradedReason,
		Messages:       []model.Message{userMessage, assistantMessage},
	}, nil
}

// History returns the conversation's messages, served from the cache when it
// is fresh and repopulated from the store when it is not.
func (s *ConversationService) History(conversationID uint, limit int) ([]model.Message, error) {
	ctx := context.Background()
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, conversationID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, conversationID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messageRepo.ListRecentByConversationID(conversationID, limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, conversationID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, conversationID, messages)
		}
	}
	return messages, nil
}

// ClearMemory drops the in-process dialogue memory for the conversation.
// Persisted messages are untouched.
func (s *ConversationService) ClearMemory(conversationID uint) error {
	if conversationID == 0 {
		return ErrInvalidInput
	}
	s.memory.Clear(conversationID)
	return nil
}

// MemorySummary returns the retained question/answer turns in order.
func (s *ConversationService) MemorySummary(conversationID uint) ([]MemoryTurn, error) {
	if conversationID == 0 {
		return nil, ErrInvalidInput
	}
	return s.memory.Summary(conversationID), nil
}

func trimMessages(messages []model.Message, limit int) []model.Message {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}
