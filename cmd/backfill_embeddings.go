package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// backfillEmbeddingsCmd represents the backfill-embeddings command
var backfillEmbeddingsCmd = &cobra.Command{
	Use:   "backfill-embeddings",
	Short: "Embed all chunks that do not have a vector yet",
	Long: `Scans the chunk store for chunks without an embedding and sends them to
the embeddings API in rate-limited batches. Safe to re-run after a partial
failure: already embedded chunks are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := newApp(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.close(ctx)

		count, err := app.documents.BackfillEmbeddings(ctx)
		if err != nil {
			log.Fatalf("Backfill failed: %v", err)
		}
		if count == 0 {
			log.Println("No chunks pending embedding")
			return
		}
		log.Printf("Embedded %d chunks", count)
	},
}

func init() {
	rootCmd.AddCommand(backfillEmbeddingsCmd)
}
