package conversation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

var ignoreIdentity = cmpopts.IgnoreFields(models.Message{}, "ID", "CreatedAt")

var testPolicy = Policy{
	MinQueryLength: 3,
	Prompts: []string{
		"How to install part PS11752778?",
		"My Whirlpool dishwasher is leaking. What should I do?",
	},
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "Please enter a message."},
		{"whitespace only", "   \t\n", "Please enter a message."},
		{"one char", "a", "Please enter at least 3 characters."},
		{"two chars padded", "  ab  ", "Please enter at least 3 characters."},
		{"exactly three", "abc", ""},
		{"multibyte runes count once", "héé", ""},
		{"normal question", "How to install part PS11752778?", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testPolicy.Validate(tt.input); got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUpdateRejectsShortInput(t *testing.T) {
	for _, input := range []string{"", " ", "a", "ab", " ab ", "\tx\t"} {
		t.Run(input, func(t *testing.T) {
			s := NewState("Hi!")
			s.Input = input

			next, req := Update(s, Submitted{Text: input}, testPolicy)

			if req != nil {
				t.Fatalf("expected no request, got %+v", req)
			}
			if len(next.Messages) != len(s.Messages) {
				t.Errorf("conversation grew from %d to %d", len(s.Messages), len(next.Messages))
			}
			if next.ValidationError == "" {
				t.Error("expected a validation error")
			}
			if next.Input != input || next.IsLoading {
				t.Errorf("unexpected state change: %+v", next)
			}
		})
	}
}

func TestUpdateSubmitAndResolve(t *testing.T) {
	s := NewState("Hi! I'm your PartSelect support assistant.")
	s.ValidationError = "Please enter a message."
	s.Input = "How to install part PS11752778?"

	loading, req := Update(s, Submitted{Text: s.Input}, testPolicy)
	if req == nil || req.Query != "How to install part PS11752778?" {
		t.Fatalf("expected request for the raw input, got %+v", req)
	}
	if !loading.IsLoading || loading.Phase() != AwaitingResponse {
		t.Error("expected loading state")
	}
	if loading.Input != "" || loading.ValidationError != "" {
		t.Errorf("input and validation error should be cleared: %+v", loading)
	}
	if len(loading.Messages) != 2 || loading.Messages[1].Role != models.RoleUser {
		t.Fatalf("expected user message appended, got %+v", loading.Messages)
	}

	answer := models.NewAssistantMessage("Hi!\n- Step one", nil)
	done, req := Update(loading, Resolved{Message: answer}, testPolicy)
	if req != nil {
		t.Errorf("resolve should not issue a request")
	}
	if done.IsLoading || done.Phase() != Idle {
		t.Error("expected idle state after resolve")
	}
	if diff := cmp.Diff(append(loading.Messages, answer), done.Messages, ignoreIdentity); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if done.BannerError != "" {
		t.Errorf("unexpected banner %q", done.BannerError)
	}

	// The earlier snapshot is untouched.
	if len(loading.Messages) != 2 {
		t.Errorf("previous state was mutated: %d messages", len(loading.Messages))
	}
}

func TestUpdateResolveError(t *testing.T) {
	loading, _ := Update(NewState("Hi!"), Submitted{Text: "is it compatible?"}, testPolicy)
	done, _ := Update(loading, Resolved{Message: models.NewErrorMessage()}, testPolicy)

	last := done.Messages[len(done.Messages)-1]
	if !last.IsError || len(last.RelevantParts) != 0 {
		t.Errorf("expected error message without parts, got %+v", last)
	}
	if done.BannerError == "" {
		t.Error("expected banner error")
	}

	// A later success clears the banner.
	again, _ := Update(done, Submitted{Text: "try again please"}, testPolicy)
	ok, _ := Update(again, Resolved{Message: models.NewAssistantMessage("Hi! fine", nil)}, testPolicy)
	if ok.BannerError != "" {
		t.Errorf("banner should clear after success, got %q", ok.BannerError)
	}
}

func TestUpdateSubmitWhileLoadingIsNoop(t *testing.T) {
	loading, _ := Update(NewState("Hi!"), Submitted{Text: "first question"}, testPolicy)

	next, req := Update(loading, Submitted{Text: "second question"}, testPolicy)
	if req != nil {
		t.Error("second submit must not issue a request")
	}
	if diff := cmp.Diff(loading, next); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

func TestUpdateResolveWhileIdleIsIgnored(t *testing.T) {
	s := NewState("Hi!")
	next, _ := Update(s, Resolved{Message: models.NewAssistantMessage("stray", nil)}, testPolicy)
	if len(next.Messages) != 1 {
		t.Errorf("stray resolution appended a message")
	}
}

func TestUpdatePromptSelected(t *testing.T) {
	s := NewState("Hi!")
	s.ValidationError = "Please enter a message."

	next, req := Update(s, PromptSelected{Index: 1}, testPolicy)
	if req != nil {
		t.Error("selecting a prompt must not submit")
	}
	if next.Input != testPolicy.Prompts[1] {
		t.Errorf("Input = %q, want %q", next.Input, testPolicy.Prompts[1])
	}
	if next.ValidationError != "" {
		t.Error("validation error should clear")
	}
	if len(next.Messages) != len(s.Messages) {
		t.Error("selecting a prompt must not append messages")
	}

	for _, idx := range []int{-1, 2, 99} {
		same, _ := Update(s, PromptSelected{Index: idx}, testPolicy)
		if same.Input != s.Input {
			t.Errorf("out of range index %d changed input", idx)
		}
	}
}

func TestUpdateInputChanged(t *testing.T) {
	next, _ := Update(NewState(""), InputChanged{Text: "draft"}, testPolicy)
	if next.Input != "draft" {
		t.Errorf("Input = %q, want draft", next.Input)
	}
	if len(next.Messages) != 0 {
		t.Error("empty greeting should start an empty conversation")
	}
}

func TestPhaseString(t *testing.T) {
	if Idle.String() != "idle" || !strings.Contains(AwaitingResponse.String(), "awaiting") {
		t.Error("unexpected phase names")
	}
}
