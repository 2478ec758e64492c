// ABOUTME: Local ONNX embedder and cross-encoder backed by hugot pipelines
// ABOUTME: Models are downloaded once into a local cache directory and loaded per session
package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// PrepareModel downloads modelName into the local cache if it is not there
// yet and returns the model path.
func PrepareModel(modelName string) (string, error) {
	modelDir := os.Getenv("MODELS_DIR")
	if modelDir == "" {
		modelDir = "./models"
	}
	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create model directory: %w", err)
		}
		downloadOptions := hugot.NewDownloadOptions()
		downloadOptions.OnnxFilePath = "onnx/model.onnx"
		downloadedPath, err := hugot.DownloadModel(modelName, modelDir, downloadOptions)
		if err != nil {
			return "", fmt.Errorf("failed to download model %s: %w", modelName, err)
		}
		modelPath = downloadedPath
	}

	return modelPath, nil
}

// LocalEmbedder embeds text with an ONNX sentence-transformer loaded in-process
type LocalEmbedder struct {
	pipeline *pipelines.FeatureExtractionPipeline
	model    string
	dim      int
}

// NewLocalEmbedder loads the embedding model into the given session
func NewLocalEmbedder(session *hugot.Session, modelName string) (*LocalEmbedder, error) {
	modelPath, err := PrepareModel(modelName)
	if err != nil {
		return nil, err
	}

	cfg := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder",
	}
	pipeline, err := hugot.NewPipeline(session, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding pipeline: %w", err)
	}

	return &LocalEmbedder{pipeline: pipeline, model: modelName}, nil
}

// Embed returns the embedding vector for text
func (e *LocalEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	result, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding generated")
	}

	vec := result.Embeddings[0]
	if e.dim == 0 {
		e.dim = len(vec)
	}
	return vec, nil
}

func (e *LocalEmbedder) warmup(ctx context.Context) error {
	_, err := e.Embed(ctx, "warmup")
	return err
}

// Dimension returns the vector size, known after the warmup call
func (e *LocalEmbedder) Dimension() int {
	return e.dim
}

// ModelName returns the embedding model identifier
func (e *LocalEmbedder) ModelName() string {
	return e.model
}

// LocalCrossEncoder scores (query, text) pairs with an ONNX cross-encoder
type LocalCrossEncoder struct {
	pipeline *pipelines.TextClassificationPipeline
	model    string
}

// NewLocalCrossEncoder loads the cross-encoder model into the given session
func NewLocalCrossEncoder(session *hugot.Session, modelName string) (*LocalCrossEncoder, error) {
	modelPath, err := PrepareModel(modelName)
	if err != nil {
		return nil, err
	}

	cfg := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "cross-encoder",
	}
	pipeline, err := hugot.NewPipeline(session, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cross-encoder pipeline: %w", err)
	}

	return &LocalCrossEncoder{pipeline: pipeline, model: modelName}, nil
}

// Score runs the cross-encoder over the pair. The pair is joined with the
// [SEP] marker the reranker models were trained on.
func (ce *LocalCrossEncoder) Score(_ context.Context, query, text string) (float64, error) {
	result, err := ce.pipeline.RunPipeline([]string{query + " [SEP] " + text})
	if err != nil {
		return 0, fmt.Errorf("cross-encoder scoring failed: %w", err)
	}
	if len(result.ClassificationOutputs) == 0 || len(result.ClassificationOutputs[0]) == 0 {
		return 0, fmt.Errorf("no score returned by cross-encoder")
	}
	return float64(result.ClassificationOutputs[0][0].Score), nil
}
