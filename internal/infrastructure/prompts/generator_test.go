package prompts

import (
	"strings"
	"testing"
)

func TestGenerate_SplicesInstruction(t *testing.T) {
	result, err := Generate(WorkerSystemTemplate, PromptData{Instruction: "Open the settings panel"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(result, "Open the settings panel") {
		t.Error("expected the instruction to be spliced into the prompt")
	}
	if !strings.Contains(result, "agent.done()") {
		t.Error("expected the verb list to be present")
	}
}

func TestGenerate_ReflectorTemplate(t *testing.T) {
	result, err := Generate(ReflectorSystemTemplate, PromptData{Instruction: "Close all tabs"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(result, "Close all tabs") {
		t.Error("expected the instruction to be spliced into the reflector prompt")
	}
}

func TestGenerate_InvalidTemplate(t *testing.T) {
	_, err := Generate("{{.Nonexistent.Field}}", PromptData{Instruction: "x"})
	if err == nil {
		t.Error("expected an error for a template referencing an undefined field")
	}
}
