// ABOUTME: Tests for classifier result validation
// ABOUTME: Verifies label enumeration and confidence range checks
package models

import "testing"

func TestClassifierResult_Validate(t *testing.T) {
	tests := []struct {
		name    string
		result  ClassifierResult
		wantErr bool
	}{
		{
			name:   "valid investors",
			result: ClassifierResult{Label: AudienceInvestors, Confidence: 0.9},
		},
		{
			name:   "valid top management",
			result: ClassifierResult{Label: AudienceTopManagement, Confidence: 0},
		},
		{
			name:   "valid experts at max confidence",
			result: ClassifierResult{Label: AudienceExperts, Confidence: 1},
		},
		{
			name:    "unknown label",
			result:  ClassifierResult{Label: "Students", Confidence: 0.5},
			wantErr: true,
		},
		{
			name:    "empty label",
			result:  ClassifierResult{Confidence: 0.5},
			wantErr: true,
		},
		{
			name:    "confidence above range",
			result:  ClassifierResult{Label: AudienceExperts, Confidence: 1.1},
			wantErr: true,
		},
		{
			name:    "negative confidence",
			result:  ClassifierResult{Label: AudienceExperts, Confidence: -0.1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
