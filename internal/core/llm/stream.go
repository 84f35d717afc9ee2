package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

// betaHeader opts the endpoint into long assistant outputs.
const betaHeader = "output-128k-2025-02-19"

// Message is the wire shape of one transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one streaming chat completion.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

// FromHistory converts a transcript to its wire form.
func FromHistory(history []models.ChatMessage) []Message {
	messages := make([]Message, len(history))
	for i, m := range history {
		messages[i] = Message{Role: string(m.Role), Content: m.Text}
	}
	return messages
}

// StreamFunc receives one text increment. It is called before the next
// network read, so partial output reaches the caller as soon as it
// arrives.
type StreamFunc func(fragment string)

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// StreamCompletion runs one streaming chat completion, invoking fn for
// each content fragment. The stream ends cleanly on "[DONE]", on a
// choice with a finish reason, or on EOF; malformed event lines are
// skipped. A total 3-minute bound applies on top of the caller's
// context; caller cancellation surfaces as an error satisfying
// IsCancelled, which is not a failure from the chat store's point of
// view.
func (c *Client) StreamCompletion(ctx context.Context, req CompletionRequest, fn StreamFunc) error {
	if strings.TrimSpace(req.Model) == "" {
		return ErrNoModel
	}
	req.Stream = true

	ctx, cancel := context.WithTimeout(ctx, streamTimeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("anthropic-beta", betaHeader)

	start := time.Now()
	resp, err := c.streaming.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{Status: resp.StatusCode}
	}

	err = c.processStream(ctx, resp.Body, fn)
	if err == nil {
		slog.Debug("stream complete", "model", req.Model, "elapsed", time.Since(start))
	}
	return err
}

func (c *Client) processStream(ctx context.Context, body io.Reader, fn StreamFunc) error {
	reader := bufio.NewReader(body)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			// A cancelled context kills the pending read; report the
			// cancellation, not the transport error it caused.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("read stream: %w", err)
		}

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.Debug("skipping malformed stream line", "error", err)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			return nil
		}
		if choice.Delta.Content != "" {
			fn(choice.Delta.Content)
		}
	}
}
