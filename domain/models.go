// Package domain defines the core data types shared across the backend.
package domain

import "time"

// GenerateContext carries optional request context.
type GenerateContext struct {
	QuestionType string `json:"question_type,omitempty"`
}

// GenerateRequest is an inbound generation request.
type GenerateRequest struct {
	Prompt       string          `json:"prompt"`
	Context      GenerateContext `json:"context"`
	Model        string          `json:"model,omitempty"`
	Images       []string        `json:"images,omitempty"`
	PromptPrefix string          `json:"prompt_prefix,omitempty"`
}

// GenerateResult is the normalized outcome of one generation request.
type GenerateResult struct {
	ID          string `json:"id"`
	Model       string `json:"model"`
	Response    string `json:"response"`
	FinalAnswer string `json:"final_answer,omitempty"`
	ElapsedMs   int64  `json:"elapsed_ms"`
}

// LogEntry is the durable record of one completed exchange.
type LogEntry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Backend     string    `json:"backend"`
	Model       string    `json:"model"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	FinalAnswer string    `json:"final_answer,omitempty"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	Domain      string    `json:"domain,omitempty"`
}

// HistoryEntry is one prior exchange used for conversational context.
type HistoryEntry struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}
