package agents

import (
	"context"
	"fmt"
	"strings"

	"financial-guardian/api/llm"
	"financial-guardian/api/qdrant"
)

const knowledgePrompt = `You are a Financial Knowledge Agent. You answer general financial questions using a curated knowledge base.

CAPABILITIES:
1. search_knowledge_base - retrieve relevant passages about taxes, investments, banking, insurance, loans, etc.

RULES:
1. ALWAYS search the knowledge base before answering
2. Ground your answer in the retrieved passages; cite the sources by name
3. If the knowledge base is unavailable or returns nothing, say so and give only widely-known general guidance, clearly labeled as such
4. This is education, not personalized investment advice - say so when the question asks what the user should buy
5. Be concise - max 4-5 sentences`

// KnowledgeSearcher retrieves passages for the knowledge agent. Tests inject
// fakes; production uses the qdrant-backed implementation.
type KnowledgeSearcher interface {
	Available() bool
	Search(ctx context.Context, query string, topK int) ([]qdrant.KnowledgeHit, error)
}

// VectorSearcher embeds the query and searches the qdrant knowledge
// collection.
type VectorSearcher struct {
	Embedder llm.Embedder
}

func (v *VectorSearcher) Available() bool {
	return qdrant.Available() && v.Embedder != nil && v.Embedder.Available()
}

func (v *VectorSearcher) Search(ctx context.Context, query string, topK int) ([]qdrant.KnowledgeHit, error) {
	vector, err := v.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return qdrant.SearchKnowledge(ctx, vector, uint64(topK))
}

func knowledgeAgent(searcher KnowledgeSearcher) *Agent {
	return &Agent{
		Name:   AgentKnowledge,
		Prompt: knowledgePrompt,
		Tools: []Tool{
			{
				Spec: llm.ToolSpec{
					Name:        "search_knowledge_base",
					Description: "Search the financial knowledge base for relevant information about any financial topic.",
					Parameters: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"query": map[string]any{"type": "string", "description": "The question or topic to search for (e.g., \"What is SIP\", \"Section 80C benefits\")"},
						},
						"required": []string{"query"},
					},
				},
				Run: func(ctx context.Context, userID int64, args map[string]any) (any, error) {
					query := argString(args, "query")

					if searcher == nil || !searcher.Available() {
						return map[string]any{
							"status":  "unavailable",
							"message": "Knowledge base is currently unavailable. Please try again later.",
						}, nil
					}

					hits, err := searcher.Search(ctx, query, 3)
					if err != nil {
						return nil, err
					}
					if len(hits) == 0 {
						return map[string]any{
							"status":  "no_results",
							"message": "No relevant information found for: " + query,
						}, nil
					}

					texts := make([]string, 0, len(hits))
					sources := map[string]bool{}
					for _, h := range hits {
						texts = append(texts, h.Text)
						sources[h.Source] = true
					}
					sourceList := make([]string, 0, len(sources))
					for s := range sources {
						sourceList = append(sourceList, s)
					}

					return map[string]any{
						"status":  "success",
						"query":   query,
						"count":   len(hits),
						"context": strings.Join(texts, "\n\n---\n\n"),
						"sources": sourceList,
						"results": hits,
					}, nil
				},
			},
		},
	}
}
