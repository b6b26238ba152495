package crossencoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestScoreMapsResultsBackByIndex(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rerank" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		// Sorted by score, not by input position.
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"index": 2, "score": 0.95},
			{"index": 0, "score": 0.40},
			{"index": 1, "score": 0.10},
		})
	}))
	defer server.Close()

	scores, err := New(server.URL, nil).Score(context.Background(), "q", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	if captured["query"] != "q" {
		t.Fatalf("expected query in request, got %v", captured["query"])
	}
	want := []float64{0.40, 0.10, 0.95}
	for i := range want {
		if scores[i] != want[i] {
			t.Fatalf("expected scores %v, got %v", want, scores)
		}
	}
}

func TestScoreEmptyTextsSkipsCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer server.Close()

	scores, err := New(server.URL, nil).Score(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected empty scores, got %v", scores)
	}
	if called {
		t.Fatal("expected no request for empty input")
	}
}

func TestScoreCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"index": 0, "score": 0.5}})
	}))
	defer server.Close()

	if _, err := New(server.URL, nil).Score(context.Background(), "q", []string{"a", "b"}); err == nil {
		t.Fatal("expected error on score count mismatch")
	}
}

func TestScoreDuplicateIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"index": 0, "score": 0.9},
			{"index": 0, "score": 0.1},
		})
	}))
	defer server.Close()

	if _, err := New(server.URL, nil).Score(context.Background(), "q", []string{"a", "b"}); err == nil {
		t.Fatal("expected error on duplicated index")
	}
}

func TestScoreIndexOutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"index": 7, "score": 0.5}})
	}))
	defer server.Close()

	if _, err := New(server.URL, nil).Score(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("expected error on out-of-range index")
	}
}

func TestScoreServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := New(server.URL, nil).Score(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("expected error on 503")
	}
}
