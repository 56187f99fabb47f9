package qdrant

import (
	"fmt"
	"os"

	"financial-guardian/api/logger"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

var (
	QdrantClient        *qdrant.Client
	KnowledgeCollection = "financial-knowledge"
)

// InitQdrantClient initializes the Qdrant Cloud client. Returns an error when
// the environment is not configured; callers treat that as "knowledge base
// unavailable" rather than fatal.
func InitQdrantClient() error {
	host := os.Getenv("QDRANT_URL")
	if host == "" {
		return fmt.Errorf("QDRANT_URL environment variable not set")
	}

	apiKey := os.Getenv("QDRANT_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("QDRANT_API_KEY environment variable not set")
	}

	if collection := os.Getenv("QDRANT_COLLECTION"); collection != "" {
		KnowledgeCollection = collection
	}

	port := 6334 // Default secure gRPC port for Qdrant Cloud

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: true,
	})
	if err != nil {
		logger.Get().Error("failed to connect to Qdrant Cloud",
			zap.String("host", host),
			zap.Error(err))
		return fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	QdrantClient = client
	logger.Get().Info("successfully connected to Qdrant Cloud",
		zap.String("host", host),
		zap.String("collection", KnowledgeCollection))

	return nil
}

// Available reports whether the knowledge base can be queried.
func Available() bool {
	return QdrantClient != nil
}

// CloseQdrantClient closes the Qdrant connection (if needed).
func CloseQdrantClient() {
	QdrantClient = nil
	logger.Get().Info("Qdrant client cleaned up")
}
