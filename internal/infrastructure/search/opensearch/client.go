package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akozyrev/finreport-rag/internal/core/domain"
	"github.com/akozyrev/finreport-rag/internal/infrastructure/resilience"
)

// Client runs BM25 keyword retrieval against an OpenSearch-compatible index.
// Ranking is the backend's own; scores are left off the chunks because they
// are not comparable with the semantic branch.
type Client struct {
	baseURL    string
	index      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, index string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		index:      index,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Search(ctx context.Context, query string, k int) ([]domain.DocumentChunk, error) {
	reqBody := map[string]any{
		"size": k,
		"query": map[string]any{
			"match": map[string]any{
				"content": query,
			},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	var searchResp struct {
		Hits struct {
			Hits []struct {
				Source chunkSource `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	call := func(callCtx context.Context) error {
		url := fmt.Sprintf("%s/%s/_search", c.baseURL, c.index)
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create search request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("opensearch search request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return &resilience.HTTPStatusError{
				Operation:  "opensearch search",
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       strings.TrimSpace(string(raw)),
			}
		}
		if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
			return fmt.Errorf("decode search response: %w", err)
		}
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "opensearch.search", call, resilience.ClassifyHTTPError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.DocumentChunk, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		out = append(out, hit.Source.toChunk())
	}
	return out, nil
}

type chunkSource struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Company string `json:"company"`
	Year    int    `json:"year"`
	DocType string `json:"doctype"`
	Page    int    `json:"page"`
}

func (s chunkSource) toChunk() domain.DocumentChunk {
	return domain.DocumentChunk{
		Content: s.Content,
		Source:  s.Source,
		Company: s.Company,
		Year:    s.Year,
		DocType: s.DocType,
		Page:    s.Page,
	}
}
