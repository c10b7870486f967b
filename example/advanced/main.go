package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mbellot/veracite"
	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
)

const sampleContent1 = `This regulation lays down prudential requirements for credit institutions.

Institutions shall at all times satisfy a Common Equity Tier 1 capital ratio of 4.5 percent.
The Tier 1 capital ratio shall be at least 6 percent and the total capital ratio at least 8 percent.

Institutions shall report their capital ratios to the competent authority on a quarterly basis.
The competent authority reviews the reported figures and may impose additional requirements.`

const sampleContent2 = `This regulation lays down liquidity requirements for credit institutions.

Institutions shall hold liquid assets covering net liquidity outflows over a thirty day stress period.
The liquidity coverage ratio shall be at least 100 percent at all times.

The net stable funding ratio relates available stable funding to required stable funding.
Institutions shall report both ratios to the competent authority on a monthly basis.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "veracite_test",
		Username: "postgres",
		Password: "postgres",
		SSLMode:  "disable",
	}

	v, err := veracite.NewVeracite(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create veracite: %v", err)
	}
	defer v.Close()

	// Set up the default pipeline (token-window chunking + embeddings)
	if err := v.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Wire in the local cross-encoder reranker
	fmt.Println("Setting up cross-encoder reranker...")
	if err := v.UseDefaultReranker(); err != nil {
		log.Printf("Warning: reranker unavailable, continuing without it: %v", err)
	}

	ctx := context.Background()

	// Process and insert multiple documents
	doc1 := &model.Document{
		Title:   "Capital Requirements",
		Source:  "advanced_example",
		Content: sampleContent1,
		Metadata: model.Metadata{
			"jurisdiction": "EU",
			"topic":        "capital",
		},
	}

	doc2 := &model.Document{
		Title:   "Liquidity Requirements",
		Source:  "advanced_example",
		Content: sampleContent2,
		Metadata: model.Metadata{
			"jurisdiction": "EU",
			"topic":        "liquidity",
		},
	}

	fmt.Println("=== Ingesting Documents ===")
	numChunks1, err := v.ProcessAndInsertDocument(ctx, doc1)
	if err != nil {
		log.Fatalf("Failed to process and insert document 1: %v", err)
	}
	fmt.Printf("Document 1 '%s' (RID: %s): %d chunks\n", doc1.Title, doc1.RID, numChunks1)

	numChunks2, err := v.ProcessAndInsertDocument(ctx, doc2)
	if err != nil {
		log.Fatalf("Failed to process and insert document 2: %v", err)
	}
	fmt.Printf("Document 2 '%s' (RID: %s): %d chunks\n", doc2.Title, doc2.RID, numChunks2)

	// Prepare query
	queryText := "What is the minimum capital ratio?"

	// 1. Vector-only search
	fmt.Println("\n=== 1. Vector-Only Search ===")
	vectorConfig := model.DefaultQueryConfig()
	vectorConfig.TopK = 3
	vectorConfig.SimilarityThreshold = 0.0
	vectorResults, err := v.Search(ctx, queryText, &vectorConfig)
	if err != nil {
		log.Fatalf("Vector search failed: %v", err)
	}
	printResults("Vector Search", vectorResults)

	// 2. Full query pipeline (diversification + reranking)
	fmt.Println("\n=== 2. Full Query Pipeline ===")
	queryConfig := model.DefaultQueryConfig()
	queryConfig.TopK = 4
	queryConfig.MaxPerDocument = 2
	queryResults, err := v.Query(ctx, queryText, &queryConfig)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	printResults("Full Query", queryResults)

	// 3. Document-scoped query
	fmt.Println("\n=== 3. Document-Scoped Query ===")
	fmt.Println("Searching only within 'Liquidity Requirements'...")
	scopedConfig := model.DefaultQueryConfig()
	scopedConfig.TopK = 3
	scopedResults, err := v.DocumentScopedQuery(ctx, "How is the liquidity coverage ratio defined?", []uuid.UUID{doc2.RID}, &scopedConfig)
	if err != nil {
		log.Fatalf("Document-scoped query failed: %v", err)
	}
	printResults("Document-Scoped Query", scopedResults)

	// 4. Demonstrate index type switching
	fmt.Println("\n=== 4. Changing Index Type ===")
	fmt.Println("Switching to IVFFlat index...")
	err = v.ChangeIndexType(ctx, "ivfflat", map[string]interface{}{
		"lists": 100,
	})
	if err != nil {
		log.Printf("Warning: Index change failed (this is okay for small datasets): %v", err)
	} else {
		fmt.Println("Successfully switched to IVFFlat index")
	}

	// Switch back to HNSW
	fmt.Println("Switching back to HNSW index...")
	err = v.ChangeIndexType(ctx, "hnsw", map[string]interface{}{
		"m":               16,
		"ef_construction": 64,
	})
	if err != nil {
		log.Printf("Warning: Index change failed: %v", err)
	} else {
		fmt.Println("Successfully switched to HNSW index")
	}

	// 5. Citation validation, lenient vs strict
	fmt.Println("\n=== 5. Citation Validation ===")
	answer := `The regulation states that <mark data-source="Source 1">Institutions shall at all times satisfy a Common Equity Tier 1 ratio of 4.5 percent.</mark>`

	fmt.Println("Lenient validation (fuzzy matching enabled):")
	report := v.Validate(answer, queryResults)
	fmt.Println(v.FormatReport(report))

	fmt.Println("Strict validation (literal substrings only):")
	v.UseStrictValidation()
	report = v.Validate(answer, queryResults)
	fmt.Println(v.FormatReport(report))

	fmt.Println("\nAdvanced example completed successfully!")
}

func printResults(label string, candidates []*model.RetrievalCandidate) {
	fmt.Printf("%s: %d results\n", label, len(candidates))
	for i, candidate := range candidates {
		fmt.Printf("  %d. [%.4f] (%s, page %d) %s\n",
			i+1, candidate.Score, candidate.RetrievalMethod,
			candidate.Chunk.PageNumber, firstChars(candidate.Chunk.Content, 80))
	}
}

func firstChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
