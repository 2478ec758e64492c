// ABOUTME: ClassifierResult and the fixed audience label set
// ABOUTME: Validated at the parse boundary before the pipeline proceeds
package models

import "fmt"

// Audience is the target audience label for a presentation
type Audience string

const (
	AudienceTopManagement Audience = "TopManagement"
	AudienceExperts       Audience = "Experts"
	AudienceInvestors     Audience = "Investors"
)

// ClassifierResult is the parsed output of the audience classification step
type ClassifierResult struct {
	Label            Audience `json:"label"`
	Confidence       float64  `json:"confidence"`
	Rationale        string   `json:"rationale"`
	SuggestedActions []string `json:"suggested_actions"`
}

// Validate rejects results that do not conform to the classifier contract
func (c ClassifierResult) Validate() error {
	switch c.Label {
	case AudienceTopManagement, AudienceExperts, AudienceInvestors:
	default:
		return fmt.Errorf("unknown audience label %q", c.Label)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range [0,1]", c.Confidence)
	}
	return nil
}
