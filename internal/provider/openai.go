// ABOUTME: OpenAI-backed embedder using the embeddings API
// ABOUTME: Dimension is discovered with a warmup call during Init
package provider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder generates embeddings via the OpenAI embeddings endpoint
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIEmbedder creates an embedder for the given model
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for embeddings")
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Embed returns the embedding vector for text
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned for model %s", e.model)
	}

	vec := resp.Data[0].Embedding
	if e.dim == 0 {
		e.dim = len(vec)
	}
	return vec, nil
}

// warmup issues one embedding call so Dimension is known before indexing
func (e *OpenAIEmbedder) warmup(ctx context.Context) error {
	_, err := e.Embed(ctx, "warmup")
	return err
}

// Dimension returns the vector size, known after the warmup call
func (e *OpenAIEmbedder) Dimension() int {
	return e.dim
}

// ModelName returns the embedding model identifier
func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}
