package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"technician-marketplace/application"
	"technician-marketplace/config"
	"technician-marketplace/infrastructure/embedding"
	"technician-marketplace/infrastructure/httpapi"
	"technician-marketplace/infrastructure/profilestore"
	"technician-marketplace/infrastructure/vectorstore"
)

// main is the entry point of the technician marketplace discovery service.
// It loads the configuration, constructs the profile store and the provider
// clients once, wires them into the services, and serves the HTTP API.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}

	store, err := profilestore.NewBoltProfileStore(cfg.DBPath)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	embedder, err := embedding.NewOpenAIEmbeddingClient(cfg.OpenAIAPIKey, openai.SmallEmbedding3)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}

	index, err := vectorstore.NewQdrantVectorIndex(cfg.QdrantAddr, cfg.QdrantCollection)
	if err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}

	syncService := application.NewSyncService(store, embedder, index)
	technicianService := application.NewTechnicianService(store, syncService)
	discoveryService := application.NewDiscoveryService(store, embedder, index)

	handler := httpapi.NewHandler(technicianService, discoveryService, cfg.AdminToken)
	mux := http.NewServeMux()
	httpapi.RegisterRoutes(mux, handler)

	log.Printf("Listening on :%s\n", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, mux); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}
}
