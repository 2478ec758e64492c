// ABOUTME: Models owns the embedding and cross-encoder backends for one process
// ABOUTME: Explicit Init/Shutdown lifecycle; loaded once and injected into consumers
package provider

import (
	"context"
	"fmt"
	"log"

	"github.com/knights-analytics/hugot"
	"github.com/slidekit/deckgen/internal/config"
)

// Models loads the configured embedder and cross-encoder once and hands
// them to the indexer, retriever, and reranker by reference.
type Models struct {
	cfg *config.Config

	session      *hugot.Session
	embedder     Embedder
	crossEncoder CrossEncoder
}

// NewModels creates an uninitialized model service. Call Init before use.
func NewModels(cfg *config.Config) *Models {
	return &Models{cfg: cfg}
}

// Init loads the embedding backend per EMBEDDING_PROVIDER and the local
// cross-encoder, then warms up the embedder so its dimension is known
// before any collection is created.
func (m *Models) Init(ctx context.Context) error {
	if m.embedder != nil {
		return fmt.Errorf("models already initialized")
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return fmt.Errorf("failed to create hugot session: %w", err)
	}
	m.session = session

	switch m.cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		key, err := config.ResolveAPIKey(m.cfg.APIKey)
		if err != nil {
			m.destroySession()
			return err
		}
		embedder, err := NewOpenAIEmbedder(key, m.cfg.EmbeddingModel)
		if err != nil {
			m.destroySession()
			return err
		}
		if err := embedder.warmup(ctx); err != nil {
			m.destroySession()
			return fmt.Errorf("embedder warmup failed: %w", err)
		}
		m.embedder = embedder

	case config.ProviderLocal:
		embedder, err := NewLocalEmbedder(session, m.cfg.EmbeddingModel)
		if err != nil {
			m.destroySession()
			return err
		}
		if err := embedder.warmup(ctx); err != nil {
			m.destroySession()
			return fmt.Errorf("embedder warmup failed: %w", err)
		}
		m.embedder = embedder

	default:
		m.destroySession()
		return fmt.Errorf("unknown embedding provider: %q", m.cfg.EmbeddingProvider)
	}

	crossEncoder, err := NewLocalCrossEncoder(session, m.cfg.CrossEncoderModel)
	if err != nil {
		m.embedder = nil
		m.destroySession()
		return err
	}
	m.crossEncoder = crossEncoder

	log.Printf("[Models] Initialized: embedder=%s (dim=%d) cross-encoder=%s",
		m.embedder.ModelName(), m.embedder.Dimension(), m.cfg.CrossEncoderModel)
	return nil
}

// Embedder returns the loaded embedding backend
func (m *Models) Embedder() Embedder {
	return m.embedder
}

// CrossEncoder returns the loaded cross-encoder backend
func (m *Models) CrossEncoder() CrossEncoder {
	return m.crossEncoder
}

// Shutdown releases the ONNX session. The Models instance cannot be reused.
func (m *Models) Shutdown() error {
	m.embedder = nil
	m.crossEncoder = nil
	if m.session == nil {
		return nil
	}
	session := m.session
	m.session = nil
	if err := session.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy model session: %w", err)
	}
	return nil
}

func (m *Models) destroySession() {
	if m.session == nil {
		return
	}
	if err := m.session.Destroy(); err != nil {
		log.Printf("[Models] Session cleanup failed: %v", err)
	}
	m.session = nil
}
