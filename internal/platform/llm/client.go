package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

// MinTimeout is the floor applied to every call.
const MinTimeout = 5 * time.Second

var ErrEmptyContent = errors.New("chat completion returned no content")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest describes one chat-completions call. Endpoint, APIKey and
// Timeout are transport settings and are not serialized.
type ChatRequest struct {
	Endpoint string        `json:"-"`
	APIKey   string        `json:"-"`
	Timeout  time.Duration `json:"-"`

	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Messages       []Message       `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("chat completion http %d: %s", e.StatusCode, truncate(e.Body, 512))
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type Client interface {
	// Complete issues exactly one POST and returns the first choice's content.
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

type client struct {
	log        *logger.Logger
	httpClient *http.Client
}

// NewClient builds a Client. A nil httpClient uses a fresh http.Client;
// deadlines always come from the per-call context.
func NewClient(log *logger.Logger, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &client{log: log.With("client", "ChatCompletions"), httpClient: httpClient}
}

func (c *client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := req.Timeout
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := observability.Tracer().Start(ctx, "llm.chat_completion")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.max_tokens", req.MaxTokens),
		attribute.Int("llm.messages", len(req.Messages)),
	)

	start := time.Now()
	content, status, err := c.doOnce(ctx, req)
	observability.Current().ObserveLLMRequest(req.Model, status, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, status)
		c.log.Warn("chat completion failed", "model", req.Model, "status", status, "error", err)
		return "", err
	}
	c.log.Debug("chat completion ok", "model", req.Model, "duration", time.Since(start).String())
	return content, nil
}

func (c *client) doOnce(ctx context.Context, req ChatRequest) (string, string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return "", "encode_error", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Endpoint, &buf)
	if err != nil {
		return "", "request_error", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", statusFromErr(err), err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	status := strconv.Itoa(resp.StatusCode)
	if readErr != nil {
		return "", status, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", status, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", "decode_error", fmt.Errorf("chat completion decode: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", "empty", ErrEmptyContent
	}
	return out.Choices[0].Message.Content, status, nil
}

func statusFromErr(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
