package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"deepdocs/internal/ai"
	"deepdocs/internal/model"
)

const (
	defaultContextBudget = 12000 // runes of retrieved context per prompt
	defaultHistoryTurns  = 20
	citationPreviewRunes = 200
	chunkSeparator       = "\n---\n"
	noContextPlaceholder = "(no document context available)"
	noHistoryPlaceholder = "(no previous conversation)"
	degradedNoLLM        = "I cannot generate an answer right now: no language model is configured for this deployment. Your question has been recorded; ask again once a model is configured."
	degradedModelFailure = "I could not generate an answer because the language model request failed"
	systemPrompt         = "You are an intelligent assistant that helps users understand their uploaded documents. Answer using only the provided document context and conversation history. If the context does not contain the answer, say so clearly."
	answerPromptTemplate = "Context from the user's documents:\n%s\n\nPrevious conversation:\n%s\n\nCurrent question: %s\n\nProvide an accurate answer based on the document context:"
)

// AnswerResult is the synthesized answer. Degraded marks answers produced
// under a recoverable failure (missing capability, model error); callers must
// treat them as valid answers, not as errors.
type AnswerResult struct {
	Answer         string           `json:"answer"`
	Citations      []model.Citation `json:"citations"`
	Chunks         []ScoredChunk    `json:"-"`
	Degraded       bool             `json:"degraded,omitempty"`
	DegradedReason string           `json:"degraded_reason,omitempty"`
}

// AnswerService assembles retrieved context, history and the question into a
// bounded prompt, invokes the model once, and derives citations.
type AnswerService struct {
	retriever     *Retriever
	completer     Completer
	memory        *MemoryStore
	contextBudget int
	historyTurns  int
	topKPer       int
	topKOverall   int
}

func NewAnswerService(
	retriever *Retriever,
	completer Completer,
	memory *MemoryStore,
	contextBudget, historyTurns, topKPer, topKOverall int,
) *AnswerService {
	if contextBudget <= 0 {
		contextBudget = defaultContextBudget
	}
	if historyTurns <= 0 {
		historyTurns = defaultHistoryTurns
	}
	return &AnswerService{
		retriever:     retriever,
		completer:     completer,
		memory:        memory,
		contextBudget: contextBudget,
		historyTurns:  historyTurns,
		topKPer:       topKPer,
		topKOverall:   topKOverall,
	}
}

// Answer produces a grounded answer for the question. Failures that only hurt
// answer quality (no model configured, retrieval shortfall, model error) come
// back as degraded answers; an error return means the input was invalid.
func (s *AnswerService) Answer(ctx context.Context, conversationID uint, question string, namespaces []string, prior []model.Message) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	if s.completer == nil || !s.completer.Configured() {
		return s.finish(conversationID, question, &AnswerResult{
			Answer:         degradedNoLLM,
			Citations:      []model.Citation{},
			Degraded:       true,
			DegradedReason: "language model capability not configured",
		}), nil
	}

	chunks, err := s.retriever.Retrieve(ctx, question, namespaces, s.topKPer, s.topKOverall)
	if err != nil {
		// Retrieval shortfall only affects answer quality; carry on with
		// history-only context.
		log.Printf("answer: retrieval unavailable for conversation %d: %v", conversationID, err)
		chunks = nil
	}

	prompt := fmt.Sprintf(answerPromptTemplate,
		s.renderContext(chunks),
		s.renderHistory(conversationID, prior),
		question,
	)
	messages := []ai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return s.finish(conversationID, question, &AnswerResult{
			Answer:         fmt.Sprintf("%s: %v. Please try again.", degradedModelFailure, err),
			Citations:      []model.Citation{},
			Degraded:       true,
			DegradedReason: err.Error(),
		}), nil
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "The model returned an empty response."
	}

	return s.finish(conversationID, question, &AnswerResult{
		Answer:    answer,
		Citations: citationsFrom(chunks),
		Chunks:    chunks,
	}), nil
}

// finish records the turn in conversation memory and returns the result.
// Degraded answers are recorded too: the user saw them.
func (s *AnswerService) finish(conversationID uint, question string, res *AnswerResult) *AnswerResult {
	if s.memory != nil {
		s.memory.Append(conversationID, question, res.Answer)
	}
	return res
}

// renderContext concatenates retrieved chunks with separators, dropping the
// lowest-ranked chunks first once the rune budget is exceeded.
func (s *AnswerService) renderContext(chunks []ScoredChunk) string {
	if len(chunks) == 0 {
		return noContextPlaceholder
	}
	var b strings.Builder
	used := 0
	for _, c := range chunks {
		entry := fmt.Sprintf("[%s, page %d]\n%s", c.Document, c.Page, c.Text)
		cost := len([]rune(entry)) + len(chunkSeparator)
		if used+cost > s.contextBudget && used > 0 {
			break
		}
		if b.Len() > 0 {
			b.WriteString(chunkSeparator)
		}
		b.WriteString(entry)
		used += cost
	}
	return b.String()
}

// renderHistory prefers the persisted prior messages; after a process restart
// they are all that is left, which rebuilds the context lossily. When none
// are supplied the in-process memory summary stands in.
func (s *AnswerService) renderHistory(conversationID uint, prior []model.Message) string {
	if len(prior) > s.historyTurns*2 {
		prior = prior[len(prior)-s.historyTurns*2:]
	}
	var lines []string
	for _, m := range prior {
		lines = append(lines, m.Role+": "+m.Content)
	}
	if len(lines) == 0 && s.memory != nil {
		for _, turn := range s.memory.Summary(conversationID) {
			lines = append(lines, "user: "+turn.Question, "assistant: "+turn.Answer)
		}
	}
	if len(lines) == 0 {
		return noHistoryPlaceholder
	}
	return strings.Join(lines, "\n")
}

// citationsFrom derives one citation per retrieved chunk with a bounded
// preview of the source text.
func citationsFrom(chunks []ScoredChunk) []model.Citation {
	citations := make([]model.Citation, 0, len(chunks))
	for _, c := range chunks {
		preview := c.Text
		if runes := []rune(preview); len(runes) > citationPreviewRunes {
			preview = string(runes[:citationPreviewRunes]) + "..."
		}
		citations = append(citations, model.Citation{
			Document: c.Document,
			Page:     c.Page,
			Preview:  preview,
		})
	}
	return citations
}
