// ABOUTME: Chart synthesis: prompt the model for specs, validate strictly, render fences
// ABOUTME: Invalid or excess chart entries are dropped, never error a slide
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/slidekit/deckgen/internal/jsonx"
	"github.com/slidekit/deckgen/internal/models"
)

// chartChunkLimit caps each retrieved chunk inside the chart prompt
const chartChunkLimit = 700

// defaultChartTitle fills in when the model omits a chart title
const defaultChartTitle = "Диаграмма"

// chartTriggers mark slides whose charts replace the body content entirely
var chartTriggers = []string{
	"chart",
	"диаграм",
	"график",
	"визуал",
	"kpi",
	"динамика",
	"trend",
	"timeseries",
	"распределение",
	"breakdown",
}

// chartPalette is the fixed color cycle for rendered charts
var chartPalette = []string{
	"#597ad3",
	"#de7c59",
	"#59d387",
	"#d359bf",
	"#d3c359",
	"#59b6d3",
	"#9b59d3",
}

// generateCharts asks the model for chart specs over the slide's retrieved
// chunks and returns rendered fences for the specs that survive validation.
// Failures yield no charts; the slide itself is unaffected.
func (p *Pipeline) generateCharts(ctx context.Context, item models.SlideStructureItem, topic string, retrieved []models.RerankedCandidate) []string {
	prompt := safeFormat(chartPrompt, map[string]string{
		"topic":       topic,
		"slide_id":    fmt.Sprintf("%d", item.SlideID),
		"slide_title": item.Title,
		"slide_task":  item.Task,
		"chunks_text": chunksForChartPrompt(retrieved),
	})

	raw, err := p.complete(ctx, prompt, p.cfg.GenTemperature, p.cfg.ChartMaxTokens)
	if err != nil {
		log.Printf("[Slide %d] chart generation failed: %v", item.SlideID, err)
		return nil
	}

	obj, ok := jsonx.ExtractObject(raw)
	if !ok {
		return nil
	}

	specs := validateCharts(obj)
	fences := make([]string, 0, len(specs))
	for _, spec := range specs {
		fences = append(fences, chartFence(spec))
	}
	return fences
}

// validateCharts filters the model's charts array down to valid specs:
// known type, same-length labels/values of at least 2, numeric-coercible
// values. At most MaxChartsPerSlide entries are considered.
func validateCharts(obj map[string]any) []models.ChartSpec {
	rawCharts, ok := obj["charts"].([]any)
	if !ok {
		return nil
	}
	if len(rawCharts) > models.MaxChartsPerSlide {
		rawCharts = rawCharts[:models.MaxChartsPerSlide]
	}

	var specs []models.ChartSpec
	for _, raw := range rawCharts {
		ch, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		chartType, _ := ch["type"].(string)
		chartType = strings.ToLower(strings.TrimSpace(chartType))

		labels := stringList(ch["labels"])
		values, ok := numericList(ch["values"])
		if !ok {
			continue
		}

		title := strings.TrimSpace(fmt.Sprint(ch["title"]))
		if title == "" || title == "<nil>" {
			title = defaultChartTitle
		}

		spec := models.ChartSpec{
			Type:   models.ChartType(chartType),
			Title:  title,
			Labels: labels,
			Values: values,
		}
		if err := spec.Validate(); err != nil {
			continue
		}
		specs = append(specs, spec)
	}
	return specs
}

func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

// numericList coerces values to float64, accepting numbers and numeric strings
func numericList(raw any) ([]float64, bool) {
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			out = append(out, v)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		default:
			return nil, false
		}
	}
	return out, true
}

// chartFence renders a validated spec as a fenced block for downstream
// markdown rendering, with a deterministic color per series
func chartFence(spec models.ChartSpec) string {
	title, _ := json.Marshal(spec.Title)
	labels, _ := json.Marshal(spec.Labels)
	values, _ := json.Marshal(spec.Values)
	colors, _ := json.Marshal(palette(len(spec.Values)))

	return fmt.Sprintf("```chart\ntype: %s\ntitle: %s\nlabels: %s\nvalues: %s\ncolors: %s\n```",
		spec.Type, title, labels, values, colors)
}

// palette returns n colors cycling over the fixed base palette
func palette(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, chartPalette[i%len(chartPalette)])
	}
	return out
}

// shouldChartOnly reports whether the slide's title/task signals
// visualization intent, in which case charts replace the body content
func shouldChartOnly(title, task string) bool {
	txt := strings.ToLower(title + " " + task)
	for _, trigger := range chartTriggers {
		if strings.Contains(txt, trigger) {
			return true
		}
	}
	return false
}

// chunksForChartPrompt renders candidates with provenance markers so the
// model can cite chunk ids in used_facts
func chunksForChartPrompt(retrieved []models.RerankedCandidate) string {
	if len(retrieved) == 0 {
		return "(no data)"
	}
	lines := make([]string, 0, len(retrieved))
	for i, r := range retrieved {
		src := r.Metadata.Source
		if src == "" {
			src = "unknown"
		}
		lines = append(lines, fmt.Sprintf("%d. [chunk_id=%d source=%s]\n%s",
			i+1, r.Metadata.ChunkID, src, truncateRunes(r.Text, chartChunkLimit)))
	}
	return strings.Join(lines, "\n\n")
}
