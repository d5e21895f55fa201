package recommend

import (
	"encoding/json"
	"fmt"
	"os"

	"book-recommender/backend/internal/model"
)

// SummaryNotFound is the sentinel returned for a title with no corpus entry.
// A miss is a normal outcome, not an error.
const SummaryNotFound = "Summary not found."

// FileSummaryStore serves summary lookups from a corpus file loaded once at
// startup. The records are read-only afterwards, so lookups need no locking.
type FileSummaryStore struct {
	records []model.BookRecord
}

// NewFileSummaryStore loads the corpus from a JSON file of
// {title, author, summary} records.
func NewFileSummaryStore(path string) (*FileSummaryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summaries file: %w", err)
	}

	var records []model.BookRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse summaries JSON: %w", err)
	}

	return &FileSummaryStore{records: records}, nil
}

// NewSummaryStoreFromRecords builds a store over records already in memory.
func NewSummaryStoreFromRecords(records []model.BookRecord) *FileSummaryStore {
	return &FileSummaryStore{records: records}
}

// SummaryByTitle returns the summary for an exact, case-sensitive title match.
// The first match in file order wins.
func (s *FileSummaryStore) SummaryByTitle(title string) string {
	for _, record := range s.records {
		if record.Title == title {
			return record.Summary
		}
	}
	return SummaryNotFound
}
