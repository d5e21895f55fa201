// Package ingest performs the one-time batch load of book summaries into the
// vector index. It is not part of the interactive path.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"book-recommender/backend/internal/embed"
	"book-recommender/backend/internal/model"
	"book-recommender/backend/internal/vectorstore"
)

// IndexWriter is the write side of the vector index.
type IndexWriter interface {
	Add(ctx context.Context, batch vectorstore.Batch) error
}

// LoadRecords reads the corpus file of {title, author, summary} records.
func LoadRecords(path string) ([]model.BookRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summaries file: %w", err)
	}
	var records []model.BookRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse summaries JSON: %w", err)
	}
	return records, nil
}

// Run embeds each record's summary and writes the whole corpus in one batch.
// Documents are newline-flattened, metadata carries {title, author}, and ids
// are the positional index as text.
func Run(ctx context.Context, embedder embed.Embedder, index IndexWriter, records []model.BookRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to ingest")
	}

	batch := vectorstore.Batch{
		IDs:        make([]string, 0, len(records)),
		Embeddings: make([][]float32, 0, len(records)),
		Documents:  make([]string, 0, len(records)),
		Metadatas:  make([]map[string]any, 0, len(records)),
	}

	for i, record := range records {
		document := strings.ReplaceAll(record.Summary, "\n", " ")

		embedding, err := embedder.Embed(ctx, document)
		if err != nil {
			return fmt.Errorf("failed to embed record %d (%s): %w", i, record.Title, err)
		}

		batch.IDs = append(batch.IDs, strconv.Itoa(i))
		batch.Embeddings = append(batch.Embeddings, embedding)
		batch.Documents = append(batch.Documents, document)
		batch.Metadatas = append(batch.Metadatas, map[string]any{
			"title":  record.Title,
			"author": record.Author,
		})
	}

	if err := index.Add(ctx, batch); err != nil {
		return fmt.Errorf("failed to add documents to collection: %w", err)
	}

	log.Printf("[INGEST] added %d documents to collection", len(records))
	return nil
}
