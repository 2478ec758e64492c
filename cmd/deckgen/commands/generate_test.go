// ABOUTME: Tests for generate command structure and flag validation
// ABOUTME: Pipeline execution itself is covered by the pipeline package tests

package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewGenerateCmd(t *testing.T) {
	cmd := NewGenerateCmd()

	if cmd.Use != "generate" {
		t.Errorf("Use = %q, want %q", cmd.Use, "generate")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
}

func TestGenerateCmd_Flags(t *testing.T) {
	cmd := NewGenerateCmd()

	for _, flagName := range []string{"file", "brief", "context", "index"} {
		t.Run(flagName, func(t *testing.T) {
			if cmd.Flags().Lookup(flagName) == nil {
				t.Errorf("--%s flag not found", flagName)
			}
		})
	}
}

func TestGenerateCmd_RequiresBrief(t *testing.T) {
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"generate"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when --brief is missing")
	}
	if !strings.Contains(err.Error(), "brief") {
		t.Errorf("error = %v, want mention of the brief flag", err)
	}
}
