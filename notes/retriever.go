// Package notes scores a markdown corpus against a query and returns the
// best-matching excerpts for prompt augmentation.
package notes

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNoteChars caps the excerpt taken from each note.
	MaxNoteChars = 1200
	// DefaultLimit is the number of notes returned when none is configured.
	DefaultLimit = 3

	excerptLines = MaxNoteChars / 80
)

var (
	markdownExtensions = map[string]bool{".md": true, ".markdown": true, ".mdx": true}
	nonWord            = regexp.MustCompile(`\W+`)
)

// Retriever gathers relevant note excerpts from a corpus root directory.
type Retriever struct {
	root  string
	limit int
}

// NewRetriever creates a retriever rooted at root. An empty root disables
// retrieval entirely.
func NewRetriever(root string, limit int) *Retriever {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Retriever{root: root, limit: limit}
}

// Gather returns up to limit labeled excerpts from the corpus, ranked by how
// often the query terms occur in each document. Unreadable files are skipped.
func (r *Retriever) Gather(query string) []string {
	if r.root == "" {
		return nil
	}
	if info, err := os.Stat(r.root); err != nil || !info.IsDir() {
		return nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	type candidate struct {
		score int
		path  string
	}
	var scored []candidate

	filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !markdownExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if score := scoreFile(path, terms); score > 0 {
			scored = append(scored, candidate{score: score, path: path})
		}
		return nil
	})

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > r.limit {
		scored = scored[:r.limit]
	}

	excerpts := make([]string, 0, len(scored))
	for _, c := range scored {
		content, err := os.ReadFile(c.path)
		if err != nil {
			continue
		}
		excerpts = append(excerpts, "### Note: "+filepath.Base(c.path)+"\n"+excerpt(string(content)))
	}
	return excerpts
}

func tokenize(text string) map[string]bool {
	terms := map[string]bool{}
	for _, token := range nonWord.Split(strings.ToLower(text), -1) {
		if token != "" {
			terms[token] = true
		}
	}
	return terms
}

func scoreFile(path string, terms map[string]bool) int {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	lowered := strings.ToLower(string(content))
	score := 0
	for term := range terms {
		score += strings.Count(lowered, term)
	}
	return score
}

func excerpt(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > excerptLines {
		lines = lines[:excerptLines]
	}
	snippet := strings.Join(lines, "\n")
	if len(snippet) > MaxNoteChars {
		cut := MaxNoteChars
		// Back off to a rune boundary so the cap never splits a multi-byte
		// character.
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	return strings.TrimSpace(snippet)
}
