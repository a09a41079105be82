// kbcheck inspects the knowledge document store without starting the bot:
// it loads the documents, runs the chunker with the configured parameters,
// and prints what the index would contain. Useful before deploying a new
// document set.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"workmate-bot/internal/config"
	"workmate-bot/pkg/knowledge"
)

func main() {
	cfg := config.Load()

	store := knowledge.NewFSDocumentStore(cfg.Knowledge.DocsDir)
	docs, err := store.Load()
	if err != nil {
		color.Red("failed to load documents from %s: %v", cfg.Knowledge.DocsDir, err)
		os.Exit(1)
	}

	if len(docs) == 0 {
		color.Yellow("no documents found in %s, so the bot will answer every question with the 'no documents' branch", cfg.Knowledge.DocsDir)
		return
	}

	bold := color.New(color.Bold)
	total := 0
	for _, doc := range docs {
		chunks := knowledge.SplitText(doc.RawText, cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
		total += len(chunks)
		bold.Printf("%-40s", doc.Name)
		fmt.Printf(" %6d chars  %4d chunks\n", len(doc.RawText), len(chunks))
	}

	color.Green("\n%d documents, %d chunks (chunk size %d, overlap %d)",
		len(docs), total, cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
}
