package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal REST client against a single Pinecone index host.
// Vectors are partitioned by namespace; one namespace holds one document.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	Host    string // index host, e.g. https://deepdocs-xxxx.svc.pinecone.io
	APIKey  string
	Timeout time.Duration
}

// Vector is one (id, embedding, metadata) tuple to upsert.
type Vector struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Match is one similarity search hit.
type Match struct {
	ID       string                 `json:"id"`
	Score    float32                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		host:       strings.TrimRight(cfg.Host, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upsert writes all vectors into the namespace in one request.
func (c *Client) Upsert(ctx context.Context, namespace string, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	body := map[string]interface{}{
		"vectors":   vectors,
		"namespace": namespace,
	}
	return c.postJSON(ctx, "/vectors/upsert", body, nil)
}

// Query returns the topK nearest matches in the namespace, metadata included.
func (c *Client) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}
	body := map[string]interface{}{
		"namespace":       namespace,
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	var parsed struct {
		Matches []Match `json:"matches"`
	}
	if err := c.postJSON(ctx, "/query", body, &parsed); err != nil {
		return nil, err
	}
	return parsed.Matches, nil
}

// DeleteNamespace removes every vector in the namespace.
func (c *Client) DeleteNamespace(ctx context.Context, namespace string) error {
	body := map[string]interface{}{
		"deleteAll": true,
		"namespace": namespace,
	}
	return c.postJSON(ctx, "/vectors/delete", body, nil)
}

// Ping checks the index is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.postJSON(ctx, "/describe_index_stats", map[string]interface{}{}, nil)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal pinecone request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build pinecone request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pinecone POST %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read pinecone response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("pinecone POST %s status %d: %s", path, resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse pinecone json failed: %w", err)
		}
	}
	return nil
}
