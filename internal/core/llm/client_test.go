package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestListModels_DataShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4o"},{"id":"gpt-4o"},{"id":"gpt-4.1"}]}`))
	}))
	defer server.Close()

	got := NewClient(server.URL).ListModels(context.Background())
	want := []string{"gpt-4o", "gpt-4.1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListModels() = %v, want %v", got, want)
	}
}

func TestListModels_ModelsShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":["llama3","","llama3"]}`))
	}))
	defer server.Close()

	got := NewClient(server.URL).ListModels(context.Background())
	want := []string{"llama3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListModels() = %v, want %v", got, want)
	}
}

func TestListModels_PrefersDataShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"primary"}],"models":["secondary"]}`))
	}))
	defer server.Close()

	got := NewClient(server.URL).ListModels(context.Background())
	if !reflect.DeepEqual(got, []string{"primary"}) {
		t.Errorf("ListModels() = %v, want [primary]", got)
	}
}

func TestListModels_EmptyOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if got := NewClient(server.URL).ListModels(context.Background()); len(got) != 0 {
		t.Errorf("ListModels() = %v, want empty", got)
	}

	// Unreachable endpoint behaves the same
	server.Close()
	if got := NewClient(server.URL).ListModels(context.Background()); len(got) != 0 {
		t.Errorf("ListModels() after close = %v, want empty", got)
	}
}

func TestGetUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"quota_snapshots":{"premium_interactions":{"remaining":70,"entitlement":300}}}`))
	}))
	defer server.Close()

	usage := NewClient(server.URL).GetUsage(context.Background())
	if usage == nil {
		t.Fatal("GetUsage() = nil")
	}
	if usage.PremiumRequestsLeft == nil || *usage.PremiumRequestsLeft != 70 {
		t.Errorf("PremiumRequestsLeft = %v", usage.PremiumRequestsLeft)
	}
	if usage.TotalPremiumRequests == nil || *usage.TotalPremiumRequests != 300 {
		t.Errorf("TotalPremiumRequests = %v", usage.TotalPremiumRequests)
	}
	if used, ok := usage.Used(); !ok || used != 230 {
		t.Errorf("Used() = %d, %v", used, ok)
	}
}

func TestGetUsage_PartialSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quota_snapshots":{"premium_interactions":{"remaining":5}}}`))
	}))
	defer server.Close()

	usage := NewClient(server.URL).GetUsage(context.Background())
	if usage == nil {
		t.Fatal("GetUsage() = nil")
	}
	if usage.TotalPremiumRequests != nil {
		t.Errorf("TotalPremiumRequests = %v, want nil", *usage.TotalPremiumRequests)
	}
	if _, ok := usage.Used(); ok {
		t.Error("Used() should not derive from a partial snapshot")
	}
}

func TestGetUsage_NilOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if usage := NewClient(server.URL).GetUsage(context.Background()); usage != nil {
		t.Errorf("GetUsage() = %+v, want nil", usage)
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	if got := NewClient("").BaseURL(); got != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", got, DefaultBaseURL)
	}
}
