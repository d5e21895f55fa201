// Command ingest performs the one-time corpus load into the vector index.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"book-recommender/backend/internal/config"
	"book-recommender/backend/internal/embed"
	"book-recommender/backend/internal/ingest"
	"book-recommender/backend/internal/vectorstore"
)

func main() {
	godotenv.Load(".env.local")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "data/config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load config: %v", err)
	}

	records, err := ingest.LoadRecords(cfg.Summaries.Path)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load summaries: %v", err)
	}
	log.Printf("[INGEST] loaded %d records from %s", len(records), cfg.Summaries.Path)

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.AI.EndpointURL != "" {
		clientConfig.BaseURL = cfg.AI.EndpointURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	embedder := embed.NewOpenAIEmbedder(client, cfg.AI.EmbeddingModel)
	index := vectorstore.NewChromaIndex(cfg.ChromaDB.Host, cfg.ChromaDB.Port, vectorstore.DefaultCollection)

	ctx := context.Background()
	if err := index.EnsureCollection(ctx); err != nil {
		log.Fatalf("[FATAL] Failed to create collection: %v", err)
	}

	if err := ingest.Run(ctx, embedder, index, records); err != nil {
		log.Fatalf("[FATAL] Ingestion failed: %v", err)
	}

	log.Println("[INGEST] finished")
}
