package detect

import (
	"strings"
	"testing"
	"time"
)

func memoAt(id, text string, created time.Time) Memo {
	return Memo{ID: id, Text: text, Kind: "task", CreatedAt: created}
}

func TestDetectFollowUpsCallWithTimeframe(t *testing.T) {
	now := time.Now()
	followUps := DetectFollowUps([]Memo{
		memoAt("m1", "I need to call John tomorrow about the proposal.", now),
	})

	if len(followUps) != 1 {
		t.Fatalf("expected one follow-up, got %+v", followUps)
	}
	fu := followUps[0]
	if fu.Action != "call" {
		t.Errorf("expected action call, got %q", fu.Action)
	}
	if fu.ContactName != "John" {
		t.Errorf("expected contact John, got %q", fu.ContactName)
	}
	if fu.Text != "Call John" {
		t.Errorf("expected text 'Call John', got %q", fu.Text)
	}
	if fu.Priority != PriorityMedium {
		t.Errorf("expected medium priority for 'tomorrow', got %s", fu.Priority)
	}
	if fu.MemoID != "m1" {
		t.Errorf("expected memo m1, got %q", fu.MemoID)
	}
	if !strings.HasPrefix(fu.ID, "m1-john-call-") {
		t.Errorf("unexpected ID shape: %q", fu.ID)
	}
}

func TestDetectFollowUpsSkipsCompletedMemos(t *testing.T) {
	followUps := DetectFollowUps([]Memo{
		{ID: "m1", Text: "Call Sarah about the invoice.", Completed: true, CreatedAt: time.Now()},
	})
	if len(followUps) != 0 {
		t.Errorf("expected no follow-ups from completed memo, got %+v", followUps)
	}
}

func TestDetectFollowUpsMultiWordAction(t *testing.T) {
	followUps := DetectFollowUps([]Memo{
		memoAt("m1", "Grab coffee with Sarah soon.", time.Now()),
	})

	if len(followUps) != 1 {
		t.Fatalf("expected one follow-up, got %+v", followUps)
	}
	fu := followUps[0]
	// The multi-word phrase must win over any bare verb.
	if fu.Action != "grab coffee with" {
		t.Errorf("expected action 'grab coffee with', got %q", fu.Action)
	}
	if fu.Text != "Grab coffee with Sarah" {
		t.Errorf("unexpected text %q", fu.Text)
	}
	if fu.Priority != PriorityMedium {
		t.Errorf("expected medium priority for 'soon', got %s", fu.Priority)
	}
}

func TestDetectFollowUpsConnectorWindow(t *testing.T) {
	followUps := DetectFollowUps([]Memo{
		memoAt("m1", "Email the report to Marcus asap.", time.Now()),
	})

	if len(followUps) != 1 {
		t.Fatalf("expected one follow-up, got %+v", followUps)
	}
	fu := followUps[0]
	if fu.ContactName != "Marcus" {
		t.Errorf("expected contact Marcus, got %q", fu.ContactName)
	}
	if fu.Priority != PriorityHigh {
		t.Errorf("expected high priority for 'asap', got %s", fu.Priority)
	}
}

func TestDetectFollowUpsOnePerClause(t *testing.T) {
	followUps := DetectFollowUps([]Memo{
		memoAt("m1", "Call Sarah and email John.", time.Now()),
	})

	if len(followUps) != 1 {
		t.Fatalf("expected exactly one follow-up per clause, got %+v", followUps)
	}
	if followUps[0].ContactName != "Sarah" {
		t.Errorf("expected first catalog match Sarah, got %q", followUps[0].ContactName)
	}
}

func TestDetectFollowUpsClauseSplitting(t *testing.T) {
	followUps := DetectFollowUps([]Memo{
		memoAt("m1", "Call John, Email Sarah tomorrow.", time.Now()),
	})

	if len(followUps) != 2 {
		t.Fatalf("expected two follow-ups, got %+v", followUps)
	}
	// Same memo, same CreatedAt: the medium-priority one sorts first.
	if followUps[0].ContactName != "Sarah" || followUps[0].Priority != PriorityMedium {
		t.Errorf("expected Sarah/medium first, got %s/%s", followUps[0].ContactName, followUps[0].Priority)
	}
	if followUps[1].ContactName != "John" || followUps[1].Priority != PriorityLow {
		t.Errorf("expected John/low second, got %s/%s", followUps[1].ContactName, followUps[1].Priority)
	}
}

func TestDetectFollowUpsSortedNewestFirst(t *testing.T) {
	older := time.Now().Add(-24 * time.Hour)
	newer := time.Now()
	followUps := DetectFollowUps([]Memo{
		memoAt("old", "Call Sarah about the budget.", older),
		memoAt("new", "Email Marcus about the launch.", newer),
	})

	if len(followUps) != 2 {
		t.Fatalf("expected two follow-ups, got %+v", followUps)
	}
	if followUps[0].MemoID != "new" || followUps[1].MemoID != "old" {
		t.Errorf("expected newest first, got [%s %s]", followUps[0].MemoID, followUps[1].MemoID)
	}
}

func TestDetectFollowUpsRequiresLinkedName(t *testing.T) {
	texts := []string{
		"Need to call the bank today.",
		"call someone tomorrow",
		"Schedule everything for next week.",
	}
	for _, text := range texts {
		followUps := DetectFollowUps([]Memo{memoAt("m1", text, time.Now())})
		if len(followUps) != 0 {
			t.Errorf("expected no follow-ups for %q, got %+v", text, followUps)
		}
	}
}

func TestDetectFollowUpsTwoWordName(t *testing.T) {
	followUps := DetectFollowUps([]Memo{
		memoAt("m1", "Meet with John Smith tomorrow.", time.Now()),
	})

	if len(followUps) != 1 {
		t.Fatalf("expected one follow-up, got %+v", followUps)
	}
	fu := followUps[0]
	if fu.ContactName != "John Smith" {
		t.Errorf("expected John Smith, got %q", fu.ContactName)
	}
	if fu.ContactID != "john-smith" {
		t.Errorf("expected slug john-smith, got %q", fu.ContactID)
	}
}

func TestDetectFollowUpsEmptyInput(t *testing.T) {
	if followUps := DetectFollowUps(nil); len(followUps) != 0 {
		t.Errorf("expected no follow-ups, got %+v", followUps)
	}
	followUps := DetectFollowUps([]Memo{memoAt("m1", "  ", time.Now())})
	if len(followUps) != 0 {
		t.Errorf("expected no follow-ups for blank memo, got %+v", followUps)
	}
}

func TestDetectFollowUpsUniqueIDsWithinMemo(t *testing.T) {
	followUps := DetectFollowUps([]Memo{
		memoAt("m1", "Call Sarah today. Call Sarah again about the invoice.", time.Now()),
	})

	if len(followUps) != 2 {
		t.Fatalf("expected two follow-ups, got %+v", followUps)
	}
	if followUps[0].ID == followUps[1].ID {
		t.Fatalf("duplicate follow-up IDs in one pass: %q", followUps[0].ID)
	}
	got := map[string]bool{followUps[0].ID: true, followUps[1].ID: true}
	for _, want := range []string{"m1-sarah-call-1", "m1-sarah-call-2"} {
		if !got[want] {
			t.Errorf("missing ID %q, got %v", want, got)
		}
	}
}

func TestDetectFollowUpsStableIDsAcrossPasses(t *testing.T) {
	now := time.Now()
	memos := []Memo{
		memoAt("m1", "Email the report to Marcus asap.", now.Add(-time.Hour)),
		memoAt("m2", "Grab coffee with Sarah soon.", now),
	}

	first := DetectFollowUps(memos)
	second := DetectFollowUps(memos)
	if len(first) != 2 || len(second) != len(first) {
		t.Fatalf("expected two follow-ups per pass, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("ID changed between passes: %q vs %q", first[i].ID, second[i].ID)
		}
	}
}
