package main

import (
	"context"
	"fmt"
	"log"

	"github.com/mbellot/veracite"
	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
)

const sampleContent = `This regulation lays down uniform rules concerning prudential requirements for credit institutions.

Institutions shall at all times satisfy a Common Equity Tier 1 capital ratio of 4.5 percent.
The Tier 1 capital ratio shall be at least 6 percent and the total capital ratio at least 8 percent.

Institutions shall report their capital ratios to the competent authority on a quarterly basis.
The competent authority reviews the reported figures and may impose additional requirements.

Breaches of the minimum ratios trigger the capital conservation measures laid down in this regulation,
including restrictions on distributions and the submission of a capital conservation plan.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
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

	// Create document with content
	doc := &model.Document{
		Title:   "Capital Requirements Overview",
		Source:  "basic_example",
		Content: sampleContent,
		Metadata: model.Metadata{
			"jurisdiction": "EU",
			"topic":        "prudential requirements",
		},
	}

	// Process and insert document in one call
	fmt.Println("Ingesting document...")
	numChunks, err := v.ProcessAndInsertDocument(context.Background(), doc)
	if err != nil {
		log.Fatalf("Failed to process and insert document: %v", err)
	}
	fmt.Printf("Document inserted with ID: %s\n", doc.RID)
	fmt.Printf("Inserted %d chunks\n", numChunks)

	// Run the full query pipeline
	queryText := "What is the minimum CET1 capital ratio?"

	fmt.Printf("\nQuerying: %s\n", queryText)

	config := model.DefaultQueryConfig()
	config.TopK = 3
	config.SimilarityThreshold = 0.0

	candidates, err := v.Query(context.Background(), queryText, &config)
	if err != nil {
		log.Fatalf("Failed to query: %v", err)
	}

	// Display results
	fmt.Printf("\nFound %d results:\n", len(candidates))
	for i, candidate := range candidates {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Score: %.4f\n", candidate.Score)
		fmt.Printf("Page: %d\n", candidate.Chunk.PageNumber)
		fmt.Printf("Content: %s\n", candidate.Chunk.Content)
		fmt.Printf("Method: %s\n", candidate.RetrievalMethod)
	}

	// Assemble the model context from the retrieved chunks
	fmt.Println("\nAssembled context:")
	fmt.Println(v.BuildContext(candidates))

	// Validate a generated answer that quotes the context
	answer := `According to the regulation, <mark data-source="Source 1">Institutions shall at all times satisfy a Common Equity Tier 1 capital ratio of 4.5 percent.</mark>`
	report := v.Validate(answer, candidates)
	fmt.Println(v.FormatReport(report))

	fmt.Println("\nBasic example completed successfully!")
}
