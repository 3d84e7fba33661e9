package title

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/NateKeola/memovault/internal/llm"
)

// fakeProvider returns a canned response and counts calls.
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string, opts llm.CompletionOpts) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestFallbackShortTextPassthrough(t *testing.T) {
	if got := Fallback("Hi", KindNote); got != "Hi" {
		t.Errorf("expected passthrough 'Hi', got %q", got)
	}
	if got := Fallback("Buy milk and eggs", KindTask); got != "Buy milk and eggs" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestFallbackEmptyInput(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		want string
	}{
		{"", KindTask, "New Task"},
		{"   ", KindNote, "New Note"},
		{"[Category: work]", KindIdea, "New Idea"},
	}
	for _, tt := range tests {
		if got := Fallback(tt.text, tt.kind); got != tt.want {
			t.Errorf("Fallback(%q, %s) = %q, want %q", tt.text, tt.kind, got, tt.want)
		}
	}
}

func TestFallbackTaskExtraction(t *testing.T) {
	got := Fallback("I need to call John tomorrow about the proposal.", KindTask)
	if got != "Call John tomorrow about the..." {
		t.Errorf("unexpected task title %q", got)
	}
}

func TestFallbackTaskStripsTrailingTime(t *testing.T) {
	got := Fallback("I have to finish the quarterly report tomorrow", KindTask)
	if got != "Finish the quarterly report" {
		t.Errorf("unexpected task title %q", got)
	}
}

func TestFallbackIdeaExtraction(t *testing.T) {
	got := Fallback("I think we should build a mobile app for tracking medication schedules.", KindIdea)
	if got != "Build a mobile app for tracking..." {
		t.Errorf("unexpected idea title %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncated title, got %q", got)
	}
}

func TestFallbackIdeaAppendsConcept(t *testing.T) {
	got := Fallback("What if we offered weekend delivery", KindIdea)
	if got != "We offered weekend delivery concept" {
		t.Errorf("unexpected idea title %q", got)
	}
}

func TestFallbackNoteExtraction(t *testing.T) {
	got := Fallback("Meeting about the new product launch strategy", KindNote)
	if got != "The new product launch strategy" {
		t.Errorf("unexpected note title %q", got)
	}
}

func TestFallbackMeaningfulWords(t *testing.T) {
	got := Fallback("The quarterly numbers looked better than expected overall", KindNote)
	if got != "Quarterly numbers looked" {
		t.Errorf("unexpected keyword title %q", got)
	}
}

func TestFallbackReproductionGuard(t *testing.T) {
	got := Fallback("Groceries tomorrow afternoon maybe", KindNote)
	if got != "Groceries tomorrow..." {
		t.Errorf("unexpected guarded title %q", got)
	}
}

func TestFallbackDeterministic(t *testing.T) {
	texts := []string{
		"I need to call John tomorrow about the proposal.",
		"Meeting about the new product launch strategy",
		"I think we should build a mobile app for tracking medication schedules.",
	}
	for _, text := range texts {
		for _, kind := range []Kind{KindTask, KindNote, KindIdea} {
			a := Fallback(text, kind)
			b := Fallback(text, kind)
			if a != b {
				t.Errorf("Fallback(%q, %s) not deterministic: %q vs %q", text, kind, a, b)
			}
		}
	}
}

func TestFallbackLengthBound(t *testing.T) {
	texts := []string{
		"I need to call John tomorrow about the proposal and then follow up with the whole team before the deadline.",
		strings.Repeat("details ", 40),
		"Meeting about the extremely long and winding product launch strategy session notes",
	}
	for _, text := range texts {
		for _, kind := range []Kind{KindTask, KindNote, KindIdea} {
			got := Fallback(text, kind)
			if n := utf8.RuneCountInString(got); n > MaxTitleLen {
				t.Errorf("title %q is %d runes, max %d", got, n, MaxTitleLen)
			}
			if got == "" {
				t.Errorf("empty title for %q/%s", text, kind)
			}
		}
	}
}

func TestGenerateUsesProvider(t *testing.T) {
	p := &fakeProvider{response: "Quarterly Planning"}
	s := NewSynthesizer(WithProvider(p))

	got := s.Generate(context.Background(), "Long discussion about planning the next quarter.", KindNote)
	if got != "Quarterly Planning" {
		t.Errorf("expected provider title, got %q", got)
	}
	if p.calls != 1 {
		t.Errorf("expected one provider call, got %d", p.calls)
	}
}

func TestGenerateSkipsProviderForShortText(t *testing.T) {
	p := &fakeProvider{response: "Should Not Appear"}
	s := NewSynthesizer(WithProvider(p))

	got := s.Generate(context.Background(), "Hi", KindNote)
	if got != "Hi" {
		t.Errorf("expected passthrough, got %q", got)
	}
	if p.calls != 0 {
		t.Errorf("provider must not run for short input, got %d calls", p.calls)
	}
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("rate limited")}
	s := NewSynthesizer(WithProvider(p))

	got := s.Generate(context.Background(), "Meeting about the new product launch strategy", KindNote)
	if got != "The new product launch strategy" {
		t.Errorf("expected heuristic fallback, got %q", got)
	}
}

func TestGenerateRejectsUnusableProviderResponses(t *testing.T) {
	text := "Meeting about the new product launch strategy"
	want := "The new product launch strategy"

	responses := []string{
		"",
		strings.Repeat("x", 60),
		text, // echoing the input is not a title
	}
	for _, resp := range responses {
		s := NewSynthesizer(WithProvider(&fakeProvider{response: resp}))
		if got := s.Generate(context.Background(), text, KindNote); got != want {
			t.Errorf("response %q: expected fallback %q, got %q", resp, want, got)
		}
	}
}

func TestGenerateTrimsQuotedResponse(t *testing.T) {
	s := NewSynthesizer(WithProvider(&fakeProvider{response: `"Launch Plan"`}))
	got := s.Generate(context.Background(), "Long discussion about the launch plan timing.", KindNote)
	if got != "Launch Plan" {
		t.Errorf("expected unquoted title, got %q", got)
	}
}

func TestGenerateCaches(t *testing.T) {
	p := &fakeProvider{response: "Quarterly Planning"}
	s := NewSynthesizer(WithProvider(p), WithCache(NewCache(8)))

	text := "Long discussion about planning the next quarter."
	first := s.Generate(context.Background(), text, KindNote)
	second := s.Generate(context.Background(), text, KindNote)

	if first != second {
		t.Errorf("cached result differs: %q vs %q", first, second)
	}
	if p.calls != 1 {
		t.Errorf("expected a single provider call, got %d", p.calls)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"task", KindTask},
		{"TASK", KindTask},
		{"idea", KindIdea},
		{"note", KindNote},
		{"", KindNote},
		{"journal", KindNote},
	}
	for _, tt := range tests {
		if got := ParseKind(tt.in); got != tt.want {
			t.Errorf("ParseKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
