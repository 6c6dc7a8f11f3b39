package cmd

import (
	"context"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/uxmentor/uxmentor-be/utils"
)

// processDocumentCmd represents the process-document command
var processDocumentCmd = &cobra.Command{
	Use:   "process-document",
	Short: "Ingest a document file into the chunk store",
	Long: `Extracts, normalizes and chunks a PDF or DOCX file and persists the
chunks. Embeddings are attached separately; run backfill-embeddings
afterwards (or pass --embed).`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		keep, _ := cmd.Flags().GetBool("keep-in-place")
		embed, _ := cmd.Flags().GetBool("embed")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		ctx := context.Background()
		app, err := newApp(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.close(ctx)

		originalName := filepath.Base(filePath)
		if !keep {
			stored, err := utils.CopyFileWithTimestamp(filePath, app.cfg.UploadDir)
			if err != nil {
				log.Fatalf("Failed to copy file into upload directory: %v", err)
			}
			filePath = stored
		}

		doc, err := app.documents.ProcessDocument(ctx, filePath, originalName)
		if err != nil {
			log.Fatalf("Failed to process document: %v", err)
		}
		log.Printf("Processed %s: %d chunks, ~%d tokens", doc.ID, doc.TotalChunks, doc.TotalTokens)

		if embed {
			count, err := app.documents.BackfillEmbeddings(ctx)
			if err != nil {
				log.Fatalf("Failed to embed chunks: %v", err)
			}
			log.Printf("Embedded %d chunks", count)
		}
	},
}

func init() {
	rootCmd.AddCommand(processDocumentCmd)

	processDocumentCmd.Flags().StringP("file", "f", "", "Path to the PDF or DOCX file")
	processDocumentCmd.Flags().Bool("keep-in-place", false, "Process the file where it is instead of copying it to the upload directory")
	processDocumentCmd.Flags().Bool("embed", false, "Run the embedding backfill after chunking")
}
