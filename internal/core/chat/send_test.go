package chat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotchat/pilotchat/internal/core/llm"
	"github.com/pilotchat/pilotchat/internal/core/models"
	"github.com/pilotchat/pilotchat/internal/core/storage"
)

func TestSendMessage_AppendsOneExchange(t *testing.T) {
	e := newEndpoint(t,
		`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
		`data: {"choices":[{"delta":{"content":"lo"}}]}`,
		`data: [DONE]`,
	)
	s := newStore(t, e)

	s.SetUserInput("  hi there  ")
	s.SendMessage(context.Background())

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 3, "system + user + assistant")
	assert.Equal(t, models.RoleUser, snap.Messages[1].Role)
	assert.Equal(t, "hi there", snap.Messages[1].Text, "input is trimmed")
	assert.Equal(t, models.RoleAssistant, snap.Messages[2].Role)
	assert.Equal(t, "Hello", snap.Messages[2].Text)
	assert.Empty(t, snap.UserInput)
	assert.Empty(t, snap.Err)
	assert.False(t, snap.Sending)

	reqs := e.recorded()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2, "placeholder never goes upstream")
	assert.Equal(t, "hi there", reqs[0].Messages[1].Content)
	assert.True(t, reqs[0].Stream)
}

func TestSendMessage_EmptyInputIsNoop(t *testing.T) {
	e := newEndpoint(t)
	s := newStore(t, e)

	s.SetUserInput("   ")
	s.SendMessage(context.Background())

	assert.Len(t, s.Snapshot().Messages, 1)
	assert.Empty(t, e.recorded())
}

func TestSendMessage_Retitles(t *testing.T) {
	e := newEndpoint(t,
		`data: {"choices":[{"delta":{"content":"ok"}}]}`,
		`data: [DONE]`,
	)
	s := newStore(t, e)

	s.SetUserInput("tell me about the weather in Lisbon")
	s.SendMessage(context.Background())

	snap := s.Snapshot()
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, "tell me about the we…", snap.Sessions[0].Title)

	// A second exchange keeps the title from the first user message.
	s.SetUserInput("short")
	s.SendMessage(context.Background())
	assert.Equal(t, "tell me about the we…", s.Snapshot().Sessions[0].Title)
}

func TestSendMessage_ShortTitleKeptWhole(t *testing.T) {
	e := newEndpoint(t, `data: [DONE]`)
	s := newStore(t, e)

	s.SetUserInput("hi")
	s.SendMessage(context.Background())

	assert.Equal(t, "hi", s.Snapshot().Sessions[0].Title)
}

func TestSendMessage_PersistsAcrossRestart(t *testing.T) {
	e := newEndpoint(t,
		`data: {"choices":[{"delta":{"content":"pong"}}]}`,
		`data: [DONE]`,
	)
	dir := t.TempDir()

	st := storage.Open(dir)
	s := New(st, llm.NewClient(e.server.URL))
	s.Initialize(context.Background())
	s.SetUserInput("ping")
	s.SendMessage(context.Background())
	require.NoError(t, st.Close())

	st2 := storage.Open(dir)
	t.Cleanup(func() { _ = st2.Close() })
	s2 := New(st2, llm.NewClient(e.server.URL))
	s2.Initialize(context.Background())

	snap := s2.Snapshot()
	require.Len(t, snap.Sessions, 1)
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "pong", snap.Messages[2].Text)
	assert.Equal(t, "ping", snap.Sessions[0].Title)
}

func TestSendMessage_ErrorPrunesEmptyPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4o"}]}`))
	})
	mux.HandleFunc("/usage", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := storage.Open(t.TempDir())
	t.Cleanup(func() { _ = st.Close() })
	s := New(st, llm.NewClient(server.URL))
	s.Initialize(context.Background())

	s.SetUserInput("hi")
	s.SendMessage(context.Background())

	snap := s.Snapshot()
	assert.NotEmpty(t, snap.Err)
	require.Len(t, snap.Messages, 2, "empty assistant placeholder is pruned")
	assert.Equal(t, models.RoleUser, snap.Messages[1].Role)
	assert.False(t, snap.Sending)
}

func TestSendMessage_CancellationKeepsPartialText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4o"}]}`))
	})
	mux.HandleFunc("/usage", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"content":"Hel"}}]}`+"\n")
		flusher.Flush()
		_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"content":"lo"}}]}`+"\n")
		flusher.Flush()
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := storage.Open(t.TempDir())
	t.Cleanup(func() { _ = st.Close() })
	s := New(st, llm.NewClient(server.URL))
	s.Initialize(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.SetUserInput("hi")
	go func() {
		defer close(done)
		s.SendMessage(ctx)
	}()

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return len(snap.Messages) == 3 && snap.Messages[2].Text == "Hello"
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	snap := s.Snapshot()
	assert.Empty(t, snap.Err, "cancellation is not an error")
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "Hello", snap.Messages[2].Text, "partial text survives")
	assert.False(t, snap.Sending)
}

func TestSendMessage_GateWhileSending(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4o"}]}`))
	})
	mux.HandleFunc("/usage", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, `data: {"choices":[{"delta":{"content":"slow"}}]}`+"\n")
		flusher.Flush()
		<-release
		_, _ = io.WriteString(w, "data: [DONE]\n")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	st := storage.Open(t.TempDir())
	t.Cleanup(func() { _ = st.Close() })
	s := New(st, llm.NewClient(server.URL))
	s.Initialize(context.Background())

	done := make(chan struct{})
	s.SetUserInput("first")
	go func() {
		defer close(done)
		s.SendMessage(context.Background())
	}()

	require.Eventually(t, func() bool {
		return s.Snapshot().Sending
	}, 2*time.Second, 5*time.Millisecond)

	// A second send while streaming is refused outright.
	s.SetUserInput("second")
	s.SendMessage(context.Background())
	assert.Equal(t, "second", s.Snapshot().UserInput, "refused send leaves the input untouched")

	close(release)
	<-done

	snap := s.Snapshot()
	require.Len(t, snap.Messages, 3)
	assert.False(t, strings.Contains(snap.Messages[1].Text, "second"))
}
