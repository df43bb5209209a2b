// Package prompts loads prompt templates and composes the system and user
// prompts for a generation request.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/TripCu/ai-hotkey/domain"
)

// DefaultBasePrompt is used when no base prompt file exists.
const DefaultBasePrompt = "You are a helpful AI assistant."

// UniversalInstruction is appended to every system prompt.
const UniversalInstruction = "Respond with concise, numbered reasoning when helpful and finish with a single line that begins " +
	"with 'Answer:' followed by the final result when a definitive answer exists."

// Library holds the loaded base prompt and the per-domain prompt fragments.
type Library struct {
	Base    string
	Domains map[string]string
}

// Load reads the prompt templates from dir (base.md and domains.yaml).
// Missing files downgrade to defaults rather than failing startup.
func Load(dir string) *Library {
	return &Library{
		Base:    loadBase(filepath.Join(dir, "base.md")),
		Domains: loadDomains(filepath.Join(dir, "domains.yaml")),
	}
}

func loadBase(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Msg("base prompt file missing, using default")
		return DefaultBasePrompt
	}
	return strings.TrimSpace(string(data))
}

func loadDomains(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Msg("domain prompt file missing")
		return map[string]string{}
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("domain prompts file is not a mapping")
		return map[string]string{}
	}
	if raw == nil {
		raw = map[string]string{}
	}
	return raw
}

// SystemPrompt builds the system prompt: base instructions, an optional
// domain fragment, and the universal answer-line instruction. An unknown
// domain is silently omitted.
func (l *Library) SystemPrompt(domain string) string {
	parts := []string{l.Base}
	if domain != "" {
		if fragment, ok := l.Domains[domain]; ok && fragment != "" {
			parts = append(parts, strings.TrimSpace(fragment))
		}
	}
	parts = append(parts, UniversalInstruction)
	return strings.Join(parts, "\n\n")
}

// UserPrompt builds the augmented user prompt body from the trailing
// conversation history (oldest first), relevant note excerpts, and the
// caller's literal prompt. Empty blocks are omitted entirely.
func UserPrompt(history []domain.HistoryEntry, notes []string, prompt string) string {
	var b strings.Builder

	if len(history) > 0 {
		b.WriteString("Here is the recent conversation history between the user and assistant:\n")
		blocks := make([]string, 0, len(history))
		for _, h := range history {
			blocks = append(blocks, fmt.Sprintf("User: %s\nAssistant: %s", strings.TrimSpace(h.Prompt), strings.TrimSpace(h.Response)))
		}
		b.WriteString(strings.Join(blocks, "\n\n"))
		b.WriteString("\n\n")
	}

	if len(notes) > 0 {
		b.WriteString("Relevant notes extracted from the knowledge base:\n")
		b.WriteString(strings.Join(notes, "\n\n"))
		b.WriteString("\n\n")
	}

	b.WriteString("Respond to the user's latest request while referencing prior context when helpful:\n")
	b.WriteString(strings.TrimSpace(prompt))
	return b.String()
}
