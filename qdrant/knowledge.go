package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// KnowledgeHit is a single retrieval result from the knowledge collection.
type KnowledgeHit struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float32 `json:"score"`
}

// SearchKnowledge queries the financial knowledge collection with an
// embedding vector and returns the top-k matches.
func SearchKnowledge(ctx context.Context, vector []float32, topK uint64) ([]KnowledgeHit, error) {
	if QdrantClient == nil {
		return nil, fmt.Errorf("qdrant client is not initialized")
	}

	points, err := QdrantClient.Query(ctx, &qdrant.QueryPoints{
		CollectionName: KnowledgeCollection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &topK,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge collection: %w", err)
	}

	hits := make([]KnowledgeHit, 0, len(points))
	for _, p := range points {
		hit := KnowledgeHit{Score: p.GetScore()}
		payload := p.GetPayload()
		if v, ok := payload["text"]; ok {
			hit.Text = v.GetStringValue()
		}
		if v, ok := payload["source"]; ok {
			hit.Source = v.GetStringValue()
		}
		if hit.Source == "" {
			hit.Source = "Financial Knowledge Base"
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
