package ingest

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sort"
	"testing"

	"book-recommender/backend/internal/model"
	"book-recommender/backend/internal/recommend"
	"book-recommender/backend/internal/vectorstore"
)

// hashEmbedder maps identical text to identical vectors, deterministically.
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	sum := h.Sum64()
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32((sum>>(i*8))&0xff) + 1
	}
	return vec, nil
}

// memoryIndex is an in-process nearest-neighbor index over cosine similarity.
type memoryIndex struct {
	embeddings [][]float32
	documents  []string
	metadatas  []map[string]any
	ids        []string
}

func (m *memoryIndex) Add(ctx context.Context, batch vectorstore.Batch) error {
	m.embeddings = append(m.embeddings, batch.Embeddings...)
	m.documents = append(m.documents, batch.Documents...)
	m.metadatas = append(m.metadatas, batch.Metadatas...)
	m.ids = append(m.ids, batch.IDs...)
	return nil
}

func (m *memoryIndex) Query(ctx context.Context, embedding []float32, k int) (vectorstore.QueryResult, error) {
	type scored struct {
		score float64
		idx   int
	}
	scores := make([]scored, len(m.embeddings))
	for i, stored := range m.embeddings {
		scores[i] = scored{score: cosine(embedding, stored), idx: i}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if k > len(scores) {
		k = len(scores)
	}
	var result vectorstore.QueryResult
	for _, s := range scores[:k] {
		result.Documents = append(result.Documents, m.documents[s.idx])
		result.Metadatas = append(result.Metadatas, m.metadatas[s.idx])
	}
	return result, nil
}

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var corpus = []model.BookRecord{
	{Title: "Dune", Author: "Frank Herbert", Summary: "A desert planet and a noble house betrayed."},
	{Title: "The Cutting Season", Author: "Attica Locke", Summary: "A murder on plantation grounds entangles past and present."},
	{Title: "Project Hail Mary", Author: "Andy Weir", Summary: "An amnesiac astronaut must save the sun."},
	{Title: "The Name of the Wind", Author: "Patrick Rothfuss", Summary: "An innkeeper recounts his legend at a university of magic."},
}

func TestIngestThenRetrieveRoundTrip(t *testing.T) {
	ctx := context.Background()
	index := &memoryIndex{}

	if err := Run(ctx, hashEmbedder{}, index, corpus); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(index.documents) != len(corpus) {
		t.Fatalf("ingested %d documents, want %d", len(index.documents), len(corpus))
	}

	retriever := recommend.NewRetriever(hashEmbedder{}, index, 2)
	for _, record := range corpus {
		candidates, err := retriever.SearchBooks(ctx, record.Summary)
		if err != nil {
			t.Fatalf("SearchBooks(%s) returned error: %v", record.Title, err)
		}
		found := false
		for _, c := range candidates {
			if c.Title == record.Title && c.Author == record.Author {
				found = true
			}
		}
		if !found {
			t.Errorf("verbatim query for %q did not return it among top-%d: %+v",
				record.Title, 2, candidates)
		}
	}
}

func TestRunFlattensNewlinesAndUsesPositionalIDs(t *testing.T) {
	index := &memoryIndex{}
	records := []model.BookRecord{
		{Title: "Dune", Author: "Frank Herbert", Summary: "line one\nline two"},
		{Title: "The Cutting Season", Author: "Attica Locke", Summary: "single line"},
	}

	if err := Run(context.Background(), hashEmbedder{}, index, records); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if index.documents[0] != "line one line two" {
		t.Errorf("document = %q, want newlines flattened to spaces", index.documents[0])
	}
	if index.ids[0] != "0" || index.ids[1] != "1" {
		t.Errorf("ids = %v, want positional indices as text", index.ids)
	}
	if index.metadatas[1]["title"] != "The Cutting Season" || index.metadatas[1]["author"] != "Attica Locke" {
		t.Errorf("metadata = %v", index.metadatas[1])
	}
}

func TestRunRejectsEmptyCorpus(t *testing.T) {
	if err := Run(context.Background(), hashEmbedder{}, &memoryIndex{}, nil); err == nil {
		t.Error("expected error for empty corpus")
	}
}

type failingEmbedder struct{ err error }

func (f failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, f.err
}

func TestRunEmbedErrorNamesRecord(t *testing.T) {
	wantErr := errors.New("embedding backend down")
	err := Run(context.Background(), failingEmbedder{err: wantErr}, &memoryIndex{}, corpus[:1])
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped embed error, got %v", err)
	}
}
