// ABOUTME: ChartSpec describes one data-driven chart synthesized for a slide
// ABOUTME: Validated strictly; invalid specs are dropped, never propagated
package models

import "fmt"

// ChartType is the fixed set of supported chart encodings
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// MaxChartsPerSlide caps accepted chart specs per slide
const MaxChartsPerSlide = 2

// ChartSpec holds one validated chart definition
type ChartSpec struct {
	Type   ChartType `json:"type"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Validate enforces len(labels) == len(values) >= 2 and a known type
func (c ChartSpec) Validate() error {
	switch c.Type {
	case ChartBar, ChartLine, ChartPie:
	default:
		return fmt.Errorf("unknown chart type %q", c.Type)
	}
	if len(c.Labels) != len(c.Values) {
		return fmt.Errorf("labels/values length mismatch: %d != %d", len(c.Labels), len(c.Values))
	}
	if len(c.Values) < 2 {
		return fmt.Errorf("chart needs at least 2 values, got %d", len(c.Values))
	}
	return nil
}
