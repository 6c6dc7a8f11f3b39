package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/uxmentor/uxmentor-be/handler"
	"github.com/uxmentor/uxmentor-be/service"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server",
	Long:  `Starts the HTTP server serving document ingestion, search and RAG chat.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		app, err := newApp(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer app.close(ctx)

		aiService, err := app.newAIService()
		if err != nil {
			log.Fatalf("Failed to create AI service: %v", err)
		}
		chatService := service.NewChatService(app.vector, aiService, 0)
		wsService := service.NewWebSocketService(chatService, app.logger)

		fileService, err := service.NewFileService(app.cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to prepare upload directory: %v", err)
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		uploadHandler := handler.NewUploadHandler(fileService, app.documents)
		documentHandler := handler.NewDocumentHandler(app.documents)
		searchHandler := handler.NewSearchHandler(app.vector)
		chatHandler := handler.NewChatHandler(chatService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/chat", chatHandler.HandleChat)
			apiV1.GET("/chat/ws", gin.WrapF(wsService.HandleChat))
			apiV1.POST("/documents/search", searchHandler.HandleSearch)
			apiV1.GET("/documents", documentHandler.HandleList)
			apiV1.GET("/documents/stats", documentHandler.HandleStats)
			apiV1.GET("/documents/:id", documentHandler.HandleGet)
			apiV1.DELETE("/documents/:id", documentHandler.HandleDelete)
			apiV1.POST("/documents/upload", uploadHandler.HandleUpload)
			apiV1.POST("/documents/backfill-embeddings", uploadHandler.HandleBackfill)
		}

		log.Printf("Starting server on port %s...\n", app.cfg.Port)
		if err := router.Run(":" + app.cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
