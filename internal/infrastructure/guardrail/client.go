package guardrail

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

const defaultRefusal = "I can't help with that request."

// Client talks to the content-screening service. Inbound screening can block
// a query; outbound screening only redacts, it never blocks.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		executor:   executor,
	}
}

type screenResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

func (c *Client) CheckInbound(ctx context.Context, text string) (domain.GuardrailVerdict, error) {
	resp, err := c.screen(ctx, text, "inbound")
	if err != nil {
		return domain.GuardrailVerdict{}, err
	}

	verdict := domain.GuardrailVerdict{
		Allowed:      resp.Allowed,
		Reason:       resp.Reason,
		Refusal:      strings.TrimSpace(resp.Message),
		CleanedQuery: strings.TrimSpace(resp.Text),
	}
	if !verdict.Allowed && verdict.Refusal == "" {
		verdict.Refusal = defaultRefusal
	}
	return verdict, nil
}

func (c *Client) ScreenOutbound(ctx context.Context, text string) (string, error) {
	resp, err := c.screen(ctx, text, "outbound")
	if err != nil {
		return "", err
	}
	// Outbound screening is pass-through-or-redact; an empty body means the
	// service had nothing to change.
	if strings.TrimSpace(resp.Text) == "" {
		return text, nil
	}
	return resp.Text, nil
}

func (c *Client) screen(ctx context.Context, text, direction string) (screenResponse, error) {
	reqBody := map[string]any{
		"text":      text,
		"direction": direction,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return screenResponse{}, fmt.Errorf("marshal screen body: %w", err)
	}

	var out screenResponse
	call := func(callCtx context.Context) error {
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/v1/screen", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create screen request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("guardrail screen request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return &resilience.HTTPStatusError{
				Operation:  "guardrail screen",
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       strings.TrimSpace(string(raw)),
			}
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("decode screen response: %w", err)
		}
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "guardrail."+direction, call, resilience.ClassifyHTTPError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return screenResponse{}, err
	}
	return out, nil
}
