package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchDecodesPayload(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/financial-documents/points/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"payload": map[string]any{
					"text":    "iPhone revenue declined 2%",
					"source":  "AAPL-10K-2023.pdf",
					"company": "Apple",
					"year":    float64(2023),
					"doctype": "10-K",
					"page":    float64(28),
				}},
				{"payload": map[string]any{
					"text": "minimal payload",
				}},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, "financial-documents", nil)
	chunks, err := client.Search(context.Background(), []float32{0.1, 0.2}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if captured["limit"] != float64(10) {
		t.Fatalf("expected limit 10, got %v", captured["limit"])
	}
	if captured["with_payload"] != true {
		t.Fatal("expected with_payload=true")
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "iPhone revenue declined 2%" || chunks[0].Year != 2023 || chunks[0].Page != 28 {
		t.Fatalf("unexpected chunk %+v", chunks[0])
	}
	if chunks[1].Content != "minimal payload" || chunks[1].Source != "" || chunks[1].Page != 0 {
		t.Fatalf("expected zero values for absent payload fields, got %+v", chunks[1])
	}
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := New(server.URL, "c", nil).Search(context.Background(), []float32{0.1}, 5); err == nil {
		t.Fatal("expected error on 404")
	}
}
