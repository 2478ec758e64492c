// ABOUTME: Slide structure and content types produced by the planner and generator
// ABOUTME: Carries the slide-count and sequential-id invariants
package models

import "fmt"

// MaxTitleWords caps planner slide titles
const MaxTitleWords = 6

// MaxTaskLength caps planner slide tasks, in characters
const MaxTaskLength = 200

// SlideStructureItem is one entry of the planned slide structure
type SlideStructureItem struct {
	SlideID int    `json:"slide_id"`
	Title   string `json:"title"`
	Task    string `json:"task"`
}

// ValidateStructure checks the slide-structure invariant: between minSlides
// and maxSlides items, slide_id sequential starting at 1 with no gaps.
func ValidateStructure(slides []SlideStructureItem, minSlides, maxSlides int) error {
	if len(slides) < minSlides || len(slides) > maxSlides {
		return fmt.Errorf("structure has %d slides, want %d..%d", len(slides), minSlides, maxSlides)
	}
	for i, s := range slides {
		if s.SlideID != i+1 {
			return fmt.Errorf("slide at position %d has id %d, want %d", i, s.SlideID, i+1)
		}
	}
	return nil
}

// Asset is an attachment spliced into a slide, currently only rendered charts
type Asset struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// SlideContent is the generated content of one slide
type SlideContent struct {
	SlideID   int      `json:"slide_id"`
	Title     string   `json:"title"`
	UsedFacts []string `json:"used_facts"`
	Content   string   `json:"content"`
	Assets    []Asset  `json:"assets,omitempty"`
}

// GenerationMetadata holds running counters for one presentation run.
// Owned exclusively by the pipeline for the duration of a request.
type GenerationMetadata struct {
	TotalFactsUsed     int `json:"total_facts_used"`
	SlidesGenerated    int `json:"slides_generated"`
	SlidesWithFallback int `json:"slides_with_fallback"`
}
