package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/vectorsync/internal/core"
)

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)

// geminiMaxBatch is the most contents BatchEmbedContents accepts per request.
const geminiMaxBatch = 100

// GeminiEmbedder embeds document chunks with a Gemini embedding model.
type GeminiEmbedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	logger *slog.Logger
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}

	em := cl.EmbeddingModel(modelName)
	em.TaskType = genai.TaskTypeRetrievalDocument

	return &GeminiEmbedder{
		client: cl,
		model:  em,
		logger: slog.Default().With("component", "gemini-embedder", "model", modelName),
	}, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// EmbedTexts returns one embedding per text, in request order. Inputs larger
// than one Gemini request are sent as consecutive requests.
func (g *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiMaxBatch {
		part := texts[start:min(start+geminiMaxBatch, len(texts))]

		batch := g.model.NewBatch()
		for _, t := range part {
			batch.AddContent(genai.Text(t))
		}

		resp, err := g.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			g.logger.Error("batch embed failed", "offset", start, "count", len(part), "err", err)
			return nil, fmt.Errorf("gemini batch embed: %w", err)
		}
		for _, e := range resp.Embeddings {
			out = append(out, e.Values)
		}
	}
	g.logger.Debug("embedded texts", "count", len(out))
	return out, nil
}
