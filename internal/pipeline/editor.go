// ABOUTME: Single-slide editing: constrained rewrite actions and chart replacement
// ABOUTME: Custom edits require a user instruction, validated before any model call
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/slidekit/deckgen/internal/models"
)

// EditAction is the fixed enumeration of single-slide edit operations
type EditAction string

const (
	ActionPolish       EditAction = "polish"
	ActionCorrect      EditAction = "correct"
	ActionTranslate    EditAction = "translate"
	ActionExpand       EditAction = "expand"
	ActionShorten      EditAction = "shorten"
	ActionSimplify     EditAction = "simplify"
	ActionSpecify      EditAction = "specify"
	ActionCustom       EditAction = "custom"
	ActionReplaceChart EditAction = "replace_chart"
)

var editActions = map[EditAction]bool{
	ActionPolish:       true,
	ActionCorrect:      true,
	ActionTranslate:    true,
	ActionExpand:       true,
	ActionShorten:      true,
	ActionSimplify:     true,
	ActionSpecify:      true,
	ActionCustom:       true,
	ActionReplaceChart: true,
}

var (
	// ErrUnknownAction reports an action outside the fixed enumeration
	ErrUnknownAction = errors.New("unknown edit action")
	// ErrEmptyCustomPrompt reports a custom edit without an instruction.
	// Request validation, not a pipeline failure.
	ErrEmptyCustomPrompt = errors.New("custom edit requires a non-empty instruction")
	// ErrEditFailed means the editor output stayed unparseable after the
	// JSON-only retry
	ErrEditFailed = errors.New("editor output not parseable as JSON")
)

// EditResult is the edited slide plus the editor's self-report
type EditResult struct {
	models.SlideContent
	EditsApplied         []string `json:"edits_applied"`
	RequiresExternalData bool     `json:"requires_external_data"`
	Explanation          string   `json:"explanation"`
}

// editPayload is the JSON object appended to the editor prompt
type editPayload struct {
	SlideID      int            `json:"slide_id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Action       EditAction     `json:"action"`
	Params       map[string]any `json:"params"`
	CustomPrompt string         `json:"custom_prompt,omitempty"`
}

// Edit applies one action to one slide. For replace_chart, retrieval and
// chart synthesis run again for the slide's title and the original textual
// content is ignored. Every other action issues one constrained edit prompt.
func (p *Pipeline) Edit(ctx context.Context, slide models.SlideContent, action EditAction, params map[string]any, customPrompt string) (*EditResult, error) {
	if !editActions[action] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if action == ActionCustom && strings.TrimSpace(customPrompt) == "" {
		return nil, ErrEmptyCustomPrompt
	}

	if action == ActionReplaceChart {
		return p.replaceChart(ctx, slide, params)
	}

	payload := editPayload{
		SlideID: slide.SlideID,
		Title:   slide.Title,
		Content: slide.Content,
		Action:  action,
		Params:  params,
	}
	if action == ActionCustom {
		payload.CustomPrompt = customPrompt
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edit payload: %w", err)
	}

	prompt := safeFormat(editPrompt, nil) + "\nUserInput: " + string(encoded)

	obj, ok, err := p.completeObject(ctx, prompt, p.cfg.GenTemperature, p.cfg.EditMaxTokens)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEditFailed
	}

	var result EditResult
	if err := decodeObject(obj, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEditFailed, err)
	}
	result.SlideID = slide.SlideID
	if strings.TrimSpace(result.Title) == "" {
		result.Title = slide.Title
	}
	return &result, nil
}

// replaceChart re-runs retrieval and chart synthesis for the slide's title
func (p *Pipeline) replaceChart(ctx context.Context, slide models.SlideContent, params map[string]any) (*EditResult, error) {
	task, _ := params["task"].(string)
	query := strings.TrimSpace(slide.Title + " " + task)
	if query == "" {
		query = slide.Title
	}

	retrieved, err := p.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieval for chart replacement failed: %w", err)
	}
	retrieved = capCandidates(retrieved, p.cfg.TopKRetrieval)

	item := models.SlideStructureItem{SlideID: slide.SlideID, Title: slide.Title, Task: task}
	fences := p.generateCharts(ctx, item, slide.Title, retrieved)

	var content string
	if len(fences) > 0 && shouldChartOnly(slide.Title, task) {
		content = fmt.Sprintf("### %s\n\n%s", slide.Title, strings.Join(fences, "\n\n"))
	} else {
		content = strings.TrimRight(slide.Content, " \t\r\n")
		if len(fences) > 0 {
			content += "\n\n**Визуализация:**\n\n" + strings.Join(fences, "\n\n")
		}
	}

	result := &EditResult{
		SlideContent: models.SlideContent{
			SlideID:   slide.SlideID,
			Title:     slide.Title,
			UsedFacts: []string{},
			Content:   content,
		},
		EditsApplied: []string{string(ActionReplaceChart)},
		Explanation:  "Charts rebuilt by LLM from retrieved RAG data.",
	}
	for _, fence := range fences {
		result.Assets = append(result.Assets, models.Asset{Type: "chart", Payload: fence})
	}
	return result, nil
}
