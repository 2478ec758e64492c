// ABOUTME: Per-slide content generation with retrieval, fallback, and fact tracking
// ABOUTME: Slides come out of a lazy, finite, non-restartable stream
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/slidekit/deckgen/internal/models"
)

// chunkTextLimit caps each retrieved chunk inside the content prompt
const chunkTextLimit = 600

// Generate starts slide generation over the planned structure. Slides are
// produced one at a time as the stream is pulled, so callers can begin
// rendering before later slides exist. Generation is sequential: retrieval
// order matters for logging and the gateway is the rate-limited resource.
func (p *Pipeline) Generate(topic string, structure []models.SlideStructureItem) *SlideStream {
	return &SlideStream{
		p:         p,
		topic:     truncateRunes(topic, topicLimit),
		structure: structure,
		factSet:   make(map[string]struct{}),
	}
}

// SlideStream yields generated slides in structure order. It is finite and
// non-restartable; Metadata is complete once Next has returned ok=false.
type SlideStream struct {
	p         *Pipeline
	topic     string
	structure []models.SlideStructureItem

	pos       int
	factSet   map[string]struct{}
	usedFacts []string
	meta      models.GenerationMetadata
	summaries []string
	done      bool
}

// Next generates and returns the next slide. ok=false means the stream is
// exhausted. Per-slide failures degrade to the fallback slide and never
// abort the stream.
func (s *SlideStream) Next(ctx context.Context) (models.SlideContent, bool) {
	if s.done || s.pos >= len(s.structure) {
		s.finish()
		return models.SlideContent{}, false
	}

	item := s.structure[s.pos]
	s.pos++

	slide := s.p.generateSlide(ctx, item, s.topic)

	for _, fact := range slide.UsedFacts {
		s.usedFacts = append(s.usedFacts, fact)
		s.factSet[fact] = struct{}{}
	}
	s.meta.SlidesGenerated++
	if len(slide.UsedFacts) == 0 {
		s.meta.SlidesWithFallback++
	}
	s.summaries = append(s.summaries,
		fmt.Sprintf("- id=%d title='%s' facts=%d", slide.SlideID, truncateRunes(slide.Title, 40), len(slide.UsedFacts)))

	if s.pos >= len(s.structure) {
		s.finish()
	}
	return slide, true
}

// Metadata returns the running counters; final once the stream is exhausted
func (s *SlideStream) Metadata() models.GenerationMetadata {
	return s.meta
}

func (s *SlideStream) finish() {
	if s.done {
		return
	}
	s.done = true
	s.meta.TotalFactsUsed = len(s.factSet)

	log.Printf("[Pipeline] === SLIDE SUMMARY ===")
	for _, line := range s.summaries {
		log.Printf("[Pipeline] %s", line)
	}
}

// generateSlide runs retrieval, the content call, and chart synthesis for
// one slide. Any failure past retrieval degrades to the fallback slide.
func (p *Pipeline) generateSlide(ctx context.Context, item models.SlideStructureItem, topic string) models.SlideContent {
	query := strings.TrimSpace(item.Title + " " + item.Task + " " + topic)

	retrieved, err := p.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("[Slide %d] retrieval failed: %v", item.SlideID, err)
		retrieved = nil
	}
	retrieved = capCandidates(retrieved, p.cfg.TopKRetrieval)
	log.Printf("[Slide %d] retrieved=%d", item.SlideID, len(retrieved))

	prompt := safeFormat(slidePrompt, map[string]string{
		"topic":       topic,
		"slide_id":    fmt.Sprintf("%d", item.SlideID),
		"slide_title": item.Title,
		"slide_task":  item.Task,
		"chunks_text": chunksToText(retrieved),
	})

	obj, ok, err := p.completeObject(ctx, prompt, p.cfg.GenTemperature, p.cfg.ContentMaxTokens)
	if err != nil || !ok {
		log.Printf("[Slide %d] content generation failed (err=%v parsed=%v) -> fallback", item.SlideID, err, ok)
		return fallbackSlide(item)
	}

	slide := slideFromObject(obj, item)

	charts := p.generateCharts(ctx, item, topic, retrieved)
	if len(charts) > 0 {
		if shouldChartOnly(item.Title, item.Task) {
			slide.Content = fmt.Sprintf("### %s\n\n%s", item.Title, strings.Join(charts, "\n\n"))
		} else {
			slide.Content = strings.TrimRight(slide.Content, " \t\r\n") + "\n\n**Визуализация:**\n\n" + strings.Join(charts, "\n\n")
		}
		for _, fence := range charts {
			slide.Assets = append(slide.Assets, models.Asset{Type: "chart", Payload: fence})
		}
	}

	return slide
}

// slideFromObject maps a parsed model reply onto SlideContent. The slide id
// is forced to the planned value regardless of what the model returned.
func slideFromObject(obj map[string]any, item models.SlideStructureItem) models.SlideContent {
	slide := models.SlideContent{
		SlideID:   item.SlideID,
		Title:     item.Title,
		UsedFacts: []string{},
	}

	if title, ok := obj["title"].(string); ok && strings.TrimSpace(title) != "" {
		slide.Title = title
	}
	if facts, ok := obj["used_facts"].([]any); ok {
		for _, f := range facts {
			if fact, ok := f.(string); ok {
				slide.UsedFacts = append(slide.UsedFacts, fact)
			}
		}
	}
	if content, ok := obj["content"].(string); ok && content != "" {
		slide.Content = content
	} else {
		slide.Content = fmt.Sprintf("### %s\n\n* %s", item.Title, fallbackContent)
	}

	return slide
}

func fallbackSlide(item models.SlideStructureItem) models.SlideContent {
	return models.SlideContent{
		SlideID:   item.SlideID,
		Title:     item.Title,
		UsedFacts: []string{},
		Content:   fallbackContent,
	}
}

// capCandidates caps the per-slide candidate set at the configured top-K
func capCandidates(retrieved []models.RerankedCandidate, topK int) []models.RerankedCandidate {
	if topK > 0 && len(retrieved) > topK {
		return retrieved[:topK]
	}
	return retrieved
}

// chunksToText renders retrieved candidates as a numbered list for the
// content prompt, flattening newlines so the list stays one line per chunk
func chunksToText(retrieved []models.RerankedCandidate) string {
	lines := make([]string, 0, len(retrieved))
	for i, r := range retrieved {
		txt := truncateRunes(r.Text, chunkTextLimit)
		txt = strings.ReplaceAll(txt, "\n", " ")
		txt = strings.ReplaceAll(txt, "\r", " ")
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, txt))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders one slide the way the streaming endpoints emit it
func RenderMarkdown(slide models.SlideContent) string {
	return fmt.Sprintf("# %s\n\n%s\n\n", slide.Title, strings.TrimSpace(slide.Content))
}
