// Package vectorstore talks to a Chroma server over its REST API.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultCollection is the collection holding the book corpus.
const DefaultCollection = "book_embeddings"

// QueryResult carries the parallel arrays Chroma returns for a single query
// embedding. Documents[i] corresponds to Metadatas[i], nearest first.
type QueryResult struct {
	Documents []string
	Metadatas []map[string]any
}

// Batch is one add request: parallel slices, all the same length.
type Batch struct {
	IDs        []string
	Embeddings [][]float32
	Documents  []string
	Metadatas  []map[string]any
}

type createCollectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

type collectionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type addRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas"`
}

type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

// queryResponse nests one result list per query embedding.
type queryResponse struct {
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
}

// ChromaIndex is a Chroma-backed vector index scoped to one collection.
// Safe for concurrent use.
type ChromaIndex struct {
	baseURL    string
	collection string
	client     *http.Client

	mu           sync.Mutex
	collectionID string
}

// NewChromaIndex creates a client for the collection on the given server.
func NewChromaIndex(host string, port int, collection string) *ChromaIndex {
	return &ChromaIndex{
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
		collection: collection,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// EnsureCollection creates the collection if it does not exist and caches its id.
func (c *ChromaIndex) EnsureCollection(ctx context.Context) error {
	_, err := c.collectionIDLocked(ctx, true)
	return err
}

// Query returns the k nearest documents and their metadata for the embedding.
func (c *ChromaIndex) Query(ctx context.Context, embedding []float32, k int) (QueryResult, error) {
	id, err := c.collectionIDLocked(ctx, false)
	if err != nil {
		return QueryResult{}, err
	}

	req := queryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        k,
		Include:         []string{"documents", "metadatas"},
	}
	var resp queryResponse
	if err := c.post(ctx, fmt.Sprintf("/api/v1/collections/%s/query", id), req, &resp); err != nil {
		return QueryResult{}, fmt.Errorf("failed to query collection %q: %w", c.collection, err)
	}

	var result QueryResult
	if len(resp.Documents) > 0 {
		result.Documents = resp.Documents[0]
	}
	if len(resp.Metadatas) > 0 {
		result.Metadatas = resp.Metadatas[0]
	}
	return result, nil
}

// Add upserts a batch of documents into the collection.
func (c *ChromaIndex) Add(ctx context.Context, batch Batch) error {
	id, err := c.collectionIDLocked(ctx, true)
	if err != nil {
		return err
	}

	req := addRequest{
		IDs:        batch.IDs,
		Embeddings: batch.Embeddings,
		Documents:  batch.Documents,
		Metadatas:  batch.Metadatas,
	}
	if err := c.post(ctx, fmt.Sprintf("/api/v1/collections/%s/add", id), req, nil); err != nil {
		return fmt.Errorf("failed to add to collection %q: %w", c.collection, err)
	}
	return nil
}

// collectionIDLocked resolves and caches the collection id, optionally creating
// the collection first.
func (c *ChromaIndex) collectionIDLocked(ctx context.Context, create bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collectionID != "" {
		return c.collectionID, nil
	}

	var info collectionInfo
	var err error
	if create {
		err = c.post(ctx, "/api/v1/collections", createCollectionRequest{Name: c.collection, GetOrCreate: true}, &info)
	} else {
		err = c.get(ctx, "/api/v1/collections/"+c.collection, &info)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve collection %q: %w", c.collection, err)
	}
	if info.ID == "" {
		return "", fmt.Errorf("collection %q has no id", c.collection)
	}

	c.collectionID = info.ID
	return c.collectionID, nil
}

func (c *ChromaIndex) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *ChromaIndex) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *ChromaIndex) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chroma returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
