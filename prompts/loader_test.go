package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TripCu/ai-hotkey/domain"
)

func TestLoadMissingFilesFallBack(t *testing.T) {
	lib := Load(filepath.Join(t.TempDir(), "nope"))
	if lib.Base != DefaultBasePrompt {
		t.Fatalf("unexpected base prompt: %q", lib.Base)
	}
	if len(lib.Domains) != 0 {
		t.Fatalf("expected no domains, got %v", lib.Domains)
	}
}

func TestLoadReadsTemplates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "base.md"), []byte("Be terse.\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "domains.yaml"), []byte("subnetting: Think in CIDR.\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lib := Load(dir)
	if lib.Base != "Be terse." {
		t.Fatalf("unexpected base: %q", lib.Base)
	}
	if lib.Domains["subnetting"] != "Think in CIDR." {
		t.Fatalf("unexpected domains: %v", lib.Domains)
	}
}

func TestSystemPromptIncludesDomainFragment(t *testing.T) {
	lib := &Library{Base: "base", Domains: map[string]string{"subnetting": "cidr rules"}}

	got := lib.SystemPrompt("subnetting")
	want := "base\n\ncidr rules\n\n" + UniversalInstruction
	if got != want {
		t.Fatalf("unexpected system prompt:\n%q", got)
	}
}

func TestSystemPromptUnknownDomainOmitted(t *testing.T) {
	lib := &Library{Base: "base", Domains: map[string]string{}}

	got := lib.SystemPrompt("poetry")
	want := "base\n\n" + UniversalInstruction
	if got != want {
		t.Fatalf("unexpected system prompt:\n%q", got)
	}
}

func TestUserPromptAllBlocks(t *testing.T) {
	history := []domain.HistoryEntry{
		{Prompt: "first question", Response: "first reply"},
		{Prompt: "second question", Response: "second reply"},
	}
	notes := []string{"### Note: a.md\nsome text"}

	got := UserPrompt(history, notes, "what now?")

	if !strings.Contains(got, "User: first question\nAssistant: first reply") {
		t.Fatalf("missing history block:\n%s", got)
	}
	if strings.Index(got, "first question") > strings.Index(got, "second question") {
		t.Fatalf("history must read oldest first:\n%s", got)
	}
	if !strings.Contains(got, "### Note: a.md") {
		t.Fatalf("missing notes block:\n%s", got)
	}
	if !strings.HasSuffix(got, "what now?") {
		t.Fatalf("prompt must come last:\n%s", got)
	}
}

func TestUserPromptOmitsEmptyBlocks(t *testing.T) {
	got := UserPrompt(nil, nil, "  just this  ")
	want := "Respond to the user's latest request while referencing prior context when helpful:\njust this"
	if got != want {
		t.Fatalf("unexpected prompt:\n%q", got)
	}
}
