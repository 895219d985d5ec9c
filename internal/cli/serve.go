package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"ragserve/internal/adapter/llm"
	"ragserve/internal/server"
	"ragserve/internal/usecase"
)

var serveEnsureModel bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the RAG HTTP service",
	Long: `Start the HTTP service. The vector index and embedder are initialized at
startup; the generation backend is optional - when it is disabled or
misconfigured, /chat returns service-unavailable while retrieval endpoints
keep working.

Examples:
  ragserve serve
  ragserve serve --ensure-model   # pull the generation model before serving`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveEnsureModel, "ensure-model", false, "check/pull the generation model at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	retriever, index, err := openRetriever(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize retrieval core: %w", err)
	}
	defer index.Close()

	var generator *usecase.Generator
	if cfg.Chat.Enabled {
		client := llm.NewOllamaClient(llm.Config{
			Host:        cfg.Chat.OllamaHost,
			Model:       cfg.Chat.Model,
			Temperature: cfg.Chat.Temperature,
			MaxTokens:   cfg.Chat.MaxTokens,
		})
		generator = usecase.NewGenerator(client)
		log.Printf("generation backend configured: %s at %s", cfg.Chat.Model, cfg.Chat.OllamaHost)

		if serveEnsureModel {
			if err := generator.EnsureModel(); err != nil {
				log.Printf("warning: model check failed: %v", err)
			}
		}
	} else {
		log.Printf("chat disabled; /chat will return service-unavailable")
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(cfg, retriever, generator).Handler(),
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("error shutting down server: %v", err)
		}
	}()

	log.Printf("%s listening on %s", cfg.App.Name, cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
