package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// newTestStore creates an in-memory store for testing.
func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStore(Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)

	ss := s.(*SQLiteStore)
	tables := []string{"memos", "contacts", "follow_ups", "meta"}
	for _, table := range tables {
		var name string
		err := ss.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	ss := s.(*SQLiteStore)

	// Rerunning the migration against a bootstrapped schema is a no-op.
	if err := ss.migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestAddAndGetMemo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	memo := &Memo{Text: "Call Sarah about the invoice.", Kind: "task", Title: "Call Sarah"}
	if err := s.AddMemo(ctx, memo); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	if memo.ID == "" {
		t.Fatal("expected a generated memo ID")
	}

	got, err := s.GetMemo(ctx, memo.ID)
	if err != nil {
		t.Fatalf("GetMemo failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected memo, got nil")
	}
	if got.Text != memo.Text || got.Kind != "task" || got.Title != "Call Sarah" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Completed {
		t.Error("new memo must not be completed")
	}
}

func TestAddMemoDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	memo := &Memo{Text: "something"}
	if err := s.AddMemo(ctx, memo); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	if memo.Kind != "note" {
		t.Errorf("expected default kind note, got %q", memo.Kind)
	}
	if memo.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestAddMemoRejectsEmptyText(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddMemo(context.Background(), &Memo{}); err == nil {
		t.Error("expected error for empty memo text")
	}
}

func TestGetMemoNotFound(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetMemo(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetMemo failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing memo, got %+v", got)
	}
}

func TestListMemosFiltersAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		memo := &Memo{
			ID:        fmt.Sprintf("m%d", i),
			Text:      fmt.Sprintf("memo %d", i),
			Kind:      "note",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AddMemo(ctx, memo); err != nil {
			t.Fatalf("AddMemo failed: %v", err)
		}
	}
	if err := s.AddMemo(ctx, &Memo{ID: "t1", Text: "a task", Kind: "task"}); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	if err := s.SetMemoCompleted(ctx, "m0", true); err != nil {
		t.Fatalf("SetMemoCompleted failed: %v", err)
	}

	memos, err := s.ListMemos(ctx, ListOpts{})
	if err != nil {
		t.Fatalf("ListMemos failed: %v", err)
	}
	if len(memos) != 3 {
		t.Fatalf("expected 3 open memos, got %d", len(memos))
	}
	for i := 1; i < len(memos); i++ {
		if memos[i].CreatedAt.After(memos[i-1].CreatedAt) {
			t.Error("memos not ordered newest first")
		}
	}

	memos, err = s.ListMemos(ctx, ListOpts{IncludeCompleted: true})
	if err != nil {
		t.Fatalf("ListMemos failed: %v", err)
	}
	if len(memos) != 4 {
		t.Errorf("expected 4 memos with completed, got %d", len(memos))
	}

	memos, err = s.ListMemos(ctx, ListOpts{Kind: "task"})
	if err != nil {
		t.Fatalf("ListMemos failed: %v", err)
	}
	if len(memos) != 1 || memos[0].ID != "t1" {
		t.Errorf("expected only the task memo, got %+v", memos)
	}

	memos, err = s.ListMemos(ctx, ListOpts{IncludeCompleted: true, Limit: 2})
	if err != nil {
		t.Fatalf("ListMemos failed: %v", err)
	}
	if len(memos) != 2 {
		t.Errorf("expected limit of 2, got %d", len(memos))
	}
}

func TestUpdateMemoTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	memo := &Memo{Text: "text"}
	if err := s.AddMemo(ctx, memo); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	if err := s.UpdateMemoTitle(ctx, memo.ID, "Better Title"); err != nil {
		t.Fatalf("UpdateMemoTitle failed: %v", err)
	}
	got, _ := s.GetMemo(ctx, memo.ID)
	if got.Title != "Better Title" {
		t.Errorf("expected updated title, got %q", got.Title)
	}

	if err := s.UpdateMemoTitle(ctx, "missing", "X"); err == nil {
		t.Error("expected error updating missing memo")
	}
}

func TestDeleteMemoCascadesFollowUps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	memo := &Memo{ID: "m1", Text: "Call Sarah."}
	if err := s.AddMemo(ctx, memo); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	saved, err := s.SaveFollowUps(ctx, []*FollowUp{
		{ID: "f1", MemoID: "m1", Text: "Call Sarah", Action: "call", ContactName: "Sarah", Priority: "low"},
	})
	if err != nil || saved != 1 {
		t.Fatalf("SaveFollowUps = %d, %v", saved, err)
	}

	if err := s.DeleteMemo(ctx, "m1"); err != nil {
		t.Fatalf("DeleteMemo failed: %v", err)
	}
	items, err := s.ListFollowUps(ctx, true)
	if err != nil {
		t.Fatalf("ListFollowUps failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected cascade delete of follow-ups, got %+v", items)
	}
}

func TestSaveFollowUpsIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddMemo(ctx, &Memo{ID: "m1", Text: "Call Sarah."}); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	items := []*FollowUp{
		{ID: "f1", MemoID: "m1", Text: "Call Sarah", Action: "call", ContactName: "Sarah", Priority: "low"},
	}
	if saved, err := s.SaveFollowUps(ctx, items); err != nil || saved != 1 {
		t.Fatalf("first save = %d, %v", saved, err)
	}
	if saved, err := s.SaveFollowUps(ctx, items); err != nil || saved != 0 {
		t.Fatalf("second save = %d, %v; duplicates must be ignored", saved, err)
	}
}

func TestSaveFollowUpsUnknownMemo(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SaveFollowUps(context.Background(), []*FollowUp{
		{ID: "f1", MemoID: "missing", Text: "Call Sarah", Action: "call", Priority: "low"},
	})
	if err == nil {
		t.Error("expected foreign key error for unknown memo")
	}
}

func TestCompleteFollowUp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddMemo(ctx, &Memo{ID: "m1", Text: "Call Sarah."}); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	if _, err := s.SaveFollowUps(ctx, []*FollowUp{
		{ID: "f1", MemoID: "m1", Text: "Call Sarah", Action: "call", Priority: "low"},
	}); err != nil {
		t.Fatalf("SaveFollowUps failed: %v", err)
	}

	if err := s.CompleteFollowUp(ctx, "f1"); err != nil {
		t.Fatalf("CompleteFollowUp failed: %v", err)
	}
	open, err := s.ListFollowUps(ctx, false)
	if err != nil {
		t.Fatalf("ListFollowUps failed: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("expected no open follow-ups, got %+v", open)
	}

	if err := s.CompleteFollowUp(ctx, "missing"); err == nil {
		t.Error("expected error completing missing follow-up")
	}
}

func TestContactsCaseInsensitiveLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddContact(ctx, &Contact{Name: "Sarah", Relationship: "colleague"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected nonzero contact ID")
	}

	got, err := s.FindContactByName(ctx, "  sarah ")
	if err != nil {
		t.Fatalf("FindContactByName failed: %v", err)
	}
	if got == nil || got.Name != "Sarah" || got.Relationship != "colleague" {
		t.Errorf("unexpected lookup result: %+v", got)
	}

	// The unique index treats SARAH and Sarah as the same contact.
	if _, err := s.AddContact(ctx, &Contact{Name: "SARAH"}); err == nil {
		t.Error("expected duplicate contact rejection")
	}

	missing, err := s.FindContactByName(ctx, "Nobody")
	if err != nil {
		t.Fatalf("FindContactByName failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown contact, got %+v", missing)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddMemo(ctx, &Memo{ID: "m1", Text: "Call Sarah."}); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	if err := s.AddMemo(ctx, &Memo{ID: "m2", Text: "Done already.", Completed: true}); err != nil {
		t.Fatalf("AddMemo failed: %v", err)
	}
	if _, err := s.AddContact(ctx, &Contact{Name: "Sarah"}); err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}
	if _, err := s.SaveFollowUps(ctx, []*FollowUp{
		{ID: "f1", MemoID: "m1", Text: "Call Sarah", Action: "call", Priority: "low"},
	}); err != nil {
		t.Fatalf("SaveFollowUps failed: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.MemoCount != 2 || stats.OpenMemoCount != 1 {
		t.Errorf("memo counts wrong: %+v", stats)
	}
	if stats.ContactCount != 1 || stats.FollowUpCount != 1 {
		t.Errorf("contact/follow-up counts wrong: %+v", stats)
	}
}
