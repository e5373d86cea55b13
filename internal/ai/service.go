package ai

import "context"

// CompletionService binds a Client to one chat configuration.
type CompletionService struct {
	client *Client
	cfg    ChatConfig
}

func NewCompletionService(client *Client, cfg ChatConfig) *CompletionService {
	return &CompletionService{client: client, cfg: cfg}
}

func (s *CompletionService) Configured() bool {
	return s != nil && s.client != nil && s.cfg.Configured()
}

func (s *CompletionService) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	return s.client.Complete(ctx, s.cfg, messages)
}

// EmbeddingService binds a Client to one embedding configuration.
type EmbeddingService struct {
	client *Client
	cfg    EmbeddingConfig
}

func NewEmbeddingService(client *Client, cfg EmbeddingConfig) *EmbeddingService {
	return &EmbeddingService{client: client, cfg: cfg}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.client.Embed(ctx, s.cfg, text)
}

func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return s.client.EmbedBatch(ctx, s.cfg, texts)
}
