package validator

import "testing"

func TestExtractFinalAnswerLastLineWins(t *testing.T) {
	text := "Let me think.\nAnswer: 10.0.0.0/8\nActually, checking again.\nanswer: 10.0.0.0/24"
	got := ExtractFinalAnswer(text)
	if got != "answer: 10.0.0.0/24" {
		t.Fatalf("unexpected answer: %q", got)
	}
}

func TestExtractFinalAnswerTrimsWhitespace(t *testing.T) {
	got := ExtractFinalAnswer("reasoning...\n   ANSWER: forty-two   \n")
	if got != "ANSWER: forty-two" {
		t.Fatalf("unexpected answer: %q", got)
	}
}

func TestExtractFinalAnswerMissing(t *testing.T) {
	if got := ExtractFinalAnswer("no conclusion here\njust rambling"); got != "" {
		t.Fatalf("expected empty answer, got %q", got)
	}
}

func TestExtractFinalAnswerIgnoresMidLineMarker(t *testing.T) {
	if got := ExtractFinalAnswer("the answer: 42 appears mid-line only"); got != "" {
		t.Fatalf("expected no match for mid-line marker, got %q", got)
	}
}
