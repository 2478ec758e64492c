// ABOUTME: Orchestration pipeline: classify audience, plan structure, generate slides
// ABOUTME: Owns normalization and fallback policy; slides stream out lazily
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/slidekit/deckgen/internal/config"
	"github.com/slidekit/deckgen/internal/gateway"
	"github.com/slidekit/deckgen/internal/jsonx"
	"github.com/slidekit/deckgen/internal/models"
	"github.com/slidekit/deckgen/internal/util"
)

// contextSnippetLimit caps how much project context reaches the planner prompt
const contextSnippetLimit = 4000

// topicLimit caps the presentation topic carried into slide prompts
const topicLimit = 200

// fallbackContent is the canonical placeholder for slides with no usable data
const fallbackContent = "Данные для этого раздела отсутствуют"

// defaultTask fills in when the planner omits a slide task
const defaultTask = "Сформулируй контекст и ключевые тезисы по заголовку."

var (
	// ErrClassificationFailed means the classifier output stayed unparseable
	// after the JSON-only retry. Fatal: there is no meaningful fallback audience.
	ErrClassificationFailed = errors.New("classifier output not parseable as JSON")
	// ErrPlanningFailed means the planner output stayed unparseable after the
	// JSON-only retry.
	ErrPlanningFailed = errors.New("planner output not parseable as JSON array")
)

// Searcher is the retrieval seam the pipeline depends on. The production
// implementation retrieves a wide candidate set and reranks it down.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.RerankedCandidate, error)
}

// Pipeline drives one presentation-generation request at a time
type Pipeline struct {
	gw       gateway.Completer
	searcher Searcher
	cfg      *config.Config
}

// New creates a Pipeline over the given gateway and searcher
func New(gw gateway.Completer, searcher Searcher, cfg *config.Config) *Pipeline {
	return &Pipeline{gw: gw, searcher: searcher, cfg: cfg}
}

// complete issues one prompt with retry/backoff on transport failures
func (p *Pipeline) complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	var out string
	err := util.Retry(ctx, p.cfg.MaxAttempts, p.cfg.RetryDelay, func() error {
		var err error
		out, err = p.gw.Complete(ctx, gateway.Request{
			Messages:    []gateway.Message{{Role: "user", Content: prompt}},
			Model:       p.cfg.Model,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		return err
	})
	return out, err
}

// completeObject calls the model and recovers a JSON object, escalating once
// with the JSON-only instruction. ok=false means both replies were unparseable.
func (p *Pipeline) completeObject(ctx context.Context, prompt string, temperature float32, maxTokens int) (map[string]any, bool, error) {
	raw, err := p.complete(ctx, prompt, temperature, maxTokens)
	if err != nil {
		return nil, false, err
	}
	if obj, ok := jsonx.ExtractObject(raw); ok {
		return obj, true, nil
	}

	raw, err = p.complete(ctx, jsonOnlyPrompt+"\n\n"+prompt, temperature, maxTokens)
	if err != nil {
		return nil, false, err
	}
	if obj, ok := jsonx.ExtractObject(raw); ok {
		return obj, true, nil
	}
	return nil, false, nil
}

// completeArray is completeObject for JSON arrays
func (p *Pipeline) completeArray(ctx context.Context, prompt string, temperature float32, maxTokens int) ([]any, bool, error) {
	raw, err := p.complete(ctx, prompt, temperature, maxTokens)
	if err != nil {
		return nil, false, err
	}
	if arr, ok := jsonx.ExtractArray(raw); ok {
		return arr, true, nil
	}

	raw, err = p.complete(ctx, jsonOnlyPrompt+"\n\n"+prompt, temperature, maxTokens)
	if err != nil {
		return nil, false, err
	}
	if arr, ok := jsonx.ExtractArray(raw); ok {
		return arr, true, nil
	}
	return nil, false, nil
}

// Classify determines the target audience from the user's brief
func (p *Pipeline) Classify(ctx context.Context, userText string) (*models.ClassifierResult, error) {
	log.Printf("[Pipeline] STEP 1: Classifier")
	prompt := safeFormat(classifierPrompt, map[string]string{"user_text": userText})

	obj, ok, err := p.completeObject(ctx, prompt, p.cfg.ClassifierTemperature, p.cfg.ClassifierMaxTokens)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrClassificationFailed
	}

	var result models.ClassifierResult
	if err := decodeObject(obj, &result); err != nil {
		return nil, fmt.Errorf("classifier output malformed: %w", err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("classifier output invalid: %w", err)
	}

	log.Printf("[Pipeline] Audience: %s (conf=%.2f)", result.Label, result.Confidence)
	return &result, nil
}

// Plan produces the slide structure for the audience and project context.
// Normalization runs unconditionally after any successful parse, so the
// returned structure always satisfies the count and sequential-id invariant.
func (p *Pipeline) Plan(ctx context.Context, audience models.Audience, projectContext string) ([]models.SlideStructureItem, error) {
	log.Printf("[Pipeline] STEP 2: Planner")
	prompt := safeFormat(plannerPrompt, map[string]string{
		"audience":        string(audience),
		"context_snippet": truncateRunes(projectContext, contextSnippetLimit),
	})

	arr, ok, err := p.completeArray(ctx, prompt, p.cfg.ClassifierTemperature, p.cfg.PlannerMaxTokens)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPlanningFailed
	}

	slides := normalizeStructure(arr, p.cfg.MinSlides, p.cfg.MaxSlides)
	if err := models.ValidateStructure(slides, p.cfg.MinSlides, p.cfg.MaxSlides); err != nil {
		return nil, fmt.Errorf("normalized structure still invalid: %w", err)
	}

	log.Printf("[Pipeline] Slides planned: %d", len(slides))
	return slides, nil
}

// normalizeStructure coerces arbitrary planner output into a valid structure:
// positional ids, titles capped at six words, tasks capped at 200 chars,
// padding up to minSlides and truncation down to maxSlides, then renumbering.
func normalizeStructure(arr []any, minSlides, maxSlides int) []models.SlideStructureItem {
	slides := make([]models.SlideStructureItem, 0, len(arr))
	for i, raw := range arr {
		var title, task string
		if obj, ok := raw.(map[string]any); ok {
			title = strings.TrimSpace(stringField(obj, "title", "name"))
			task = strings.TrimSpace(stringField(obj, "task", "description"))
		} else {
			title = strings.TrimSpace(fmt.Sprint(raw))
		}
		if title == "" {
			title = fmt.Sprintf("Слайд %d", i+1)
		}
		if task == "" {
			task = defaultTask
		}

		words := strings.Fields(title)
		if len(words) > models.MaxTitleWords {
			words = words[:models.MaxTitleWords]
		}

		slides = append(slides, models.SlideStructureItem{
			SlideID: i + 1,
			Title:   strings.Join(words, " "),
			Task:    truncateRunes(task, models.MaxTaskLength),
		})
	}

	for j := len(slides) + 1; j <= minSlides; j++ {
		slides = append(slides, models.SlideStructureItem{
			SlideID: j,
			Title:   fmt.Sprintf("Доп. слайд %d", j),
			Task:    "Автоматически добавлен.",
		})
	}
	if len(slides) > maxSlides {
		slides = slides[:maxSlides]
	}
	for i := range slides {
		slides[i].SlideID = i + 1
	}
	return slides
}

func stringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// decodeObject round-trips a parsed JSON object into a typed struct
func decodeObject(obj map[string]any, out any) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
