package render

import "testing"

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		marker  string
		want    string
	}{
		{
			name:    "reasoning between markers is dropped",
			content: "noise Hi! stray-reasoning\nHi!\n- item one",
			marker:  "Hi!",
			want:    "Hi!\n- item one",
		},
		{
			name:    "bullet right after the marker line keeps the first marker",
			content: "Hi!\n- item one",
			marker:  "Hi!",
			want:    "Hi!\n- item one",
		},
		{
			name:    "no marker leaves content unchanged",
			content: "Here are the steps:\n- item one",
			marker:  "Hi!",
			want:    "Here are the steps:\n- item one",
		},
		{
			name:    "text before the first marker is dropped",
			content: "preamble Hi! there",
			marker:  "Hi!",
			want:    "Hi! there",
		},
		{
			name:    "no second marker keeps from the first",
			content: "Okay, thinking. Hi! here is the answer\nInstall it like this.",
			marker:  "Hi!",
			want:    "Hi! here is the answer\nInstall it like this.",
		},
		{
			name:    "numbered item counts as a list",
			content: "Hi! steps\n1. Unplug the fridge\nHi! again",
			marker:  "Hi!",
			want:    "Hi! steps\n1. Unplug the fridge\nHi! again",
		},
		{
			name:    "indented asterisk bullet with CRLF",
			content: "Hi! steps\r\n  * Unplug\r\nHi! later",
			marker:  "Hi!",
			want:    "Hi! steps\r\n  * Unplug\r\nHi! later",
		},
		{
			name:    "emphasis is not a bullet",
			content: "Hi! hmm\n*maybe* this\nHi! Final answer",
			marker:  "Hi!",
			want:    "Hi! Final answer",
		},
		{
			name:    "empty marker disables extraction",
			content: "noise Hi! x\nHi! y",
			marker:  "",
			want:    "noise Hi! x\nHi! y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAnswer(tt.content, tt.marker); got != tt.want {
				t.Errorf("ExtractAnswer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsListItem(t *testing.T) {
	tests := map[string]bool{
		"- item":    true,
		"-":         true,
		"+ item":    true,
		"\t* item":  true,
		"12) item":  true,
		"3.":        true,
		"-item":     false,
		"1.5 cups":  false,
		"Hi!":       false,
		"":          false,
		"   ":       false,
		"**bold**":  false,
		"2024 plan": false,
	}

	for line, want := range tests {
		if got := isListItem(line); got != want {
			t.Errorf("isListItem(%q) = %v, want %v", line, got, want)
		}
	}
}
