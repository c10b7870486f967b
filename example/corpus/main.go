package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/mbellot/veracite"
	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// The corpus example ingests every PDF and text file of a local directory
// into a persistent database and answers queries against it interactively.
//
// Usage: go run ./example/corpus <directory>

// startPostgresContainer starts a PostgreSQL container with a bind-mounted
// data directory so the ingested corpus survives between runs.
func startPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	// Create data directory if it doesn't exist
	dataDir := "./data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create data directory: %w", err)
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path for data directory: %w", err)
	}

	// Check if database already exists (data directory has PG_VERSION file)
	pgVersionFile := filepath.Join(absDataDir, "PG_VERSION")
	_, err = os.Stat(pgVersionFile)
	dbExists := err == nil

	// When database already exists, PostgreSQL doesn't re-initialize,
	// so the ready message only appears once instead of twice
	waitOccurrences := 2
	if dbExists {
		waitOccurrences = 1
		fmt.Printf("Using existing persistent database in: %s\n", absDataDir)
	} else {
		fmt.Printf("Creating new persistent database in: %s\n", absDataDir)
	}

	options := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase("veracite"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(waitOccurrences),
		),
		testcontainers.WithHostConfigModifier(func(hc *container.HostConfig) {
			hc.Mounts = append(hc.Mounts, mount.Mount{
				Type:   mount.TypeBind,
				Source: absDataDir,
				Target: "/var/lib/postgresql/data",
			})
		}),
	}

	pgContainer, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg17",
		options...,
	)
	if err != nil {
		return nil, "", fmt.Errorf("error starting postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("error getting connection string: %w", err)
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, "", fmt.Errorf("error parsing connection string: %v", err)
	}

	return pgContainer.Terminate, u.Port(), nil
}

// collectFiles lists the ingestible files of the corpus directory
func collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".txt", ".md":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// checkExistingDocuments returns the sources among files already ingested so
// re-runs against the persistent database skip them
func checkExistingDocuments(v *veracite.Veracite, files []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, path := range files {
		doc, err := v.Documents.SelectDocumentBySource(path)
		if err != nil {
			return nil, fmt.Errorf("failed to look up document for %s: %w", path, err)
		}
		if doc != nil {
			existing[path] = true
		}
	}
	return existing, nil
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <directory with PDF or text files>", os.Args[0])
	}
	corpusDir := os.Args[1]

	// Start a PostgreSQL container with persistence
	teardown, dbPort, err := startPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "veracite",
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

	ctx := context.Background()

	files, err := collectFiles(corpusDir)
	if err != nil {
		log.Fatalf("Failed to collect corpus files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No PDF or text files found in %s", corpusDir)
	}

	// Check existing documents to avoid re-processing
	existingDocs, err := checkExistingDocuments(v, files)
	if err != nil {
		log.Printf("Warning: could not check existing documents: %v", err)
		existingDocs = make(map[string]bool)
	}
	if len(existingDocs) > 0 {
		fmt.Printf("Found %d existing documents in database\n", len(existingDocs))
	}

	// Ingest each file page by page
	totalChunks := 0
	skipped := 0
	processed := 0
	for i, path := range files {
		if existingDocs[path] {
			fmt.Printf("Skipping %s (%d/%d) - already processed\n", filepath.Base(path), i+1, len(files))
			skipped++
			continue
		}

		fmt.Printf("Processing %s (%d/%d)...\n", filepath.Base(path), i+1, len(files))

		doc, numChunks, err := v.ProcessAndInsertFile(ctx, path, model.Metadata{
			"corpus": corpusDir,
		})
		if err != nil {
			log.Printf("Warning: failed to process %s: %v, skipping...", path, err)
			continue
		}

		fmt.Printf("  Inserted %d chunks from %s\n", numChunks, doc.Title)
		totalChunks += numChunks
		processed++
	}

	fmt.Printf("\nCorpus status:\n")
	fmt.Printf("  - Processed: %d files (%d chunks)\n", processed, totalChunks)
	fmt.Printf("  - Skipped (already in DB): %d files\n", skipped)
	fmt.Printf("  - Total: %d files\n\n", len(files))

	// Interactive query loop
	fmt.Println("Enter a query (empty line to quit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}

		config := model.DefaultQueryConfig()
		config.SimilarityThreshold = 0.0
		candidates, err := v.Query(ctx, query, &config)
		if err != nil {
			log.Printf("Query error: %v", err)
			continue
		}
		if len(candidates) == 0 {
			fmt.Println("No results.")
			continue
		}

		for i, candidate := range candidates {
			content := candidate.Chunk.Content
			if len(content) > 300 {
				content = content[:300] + "..."
			}
			fmt.Printf("\n[%d] Score: %.4f | Page: %d | Method: %s\n",
				i+1, candidate.Score, candidate.Chunk.PageNumber, candidate.RetrievalMethod)
			fmt.Printf("    %s\n", strings.ReplaceAll(content, "\n", "\n    "))
		}

		fmt.Println("\nContext for the language model:")
		fmt.Println(v.BuildContext(candidates))
	}

	fmt.Println("Done.")
}
