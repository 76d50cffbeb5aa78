package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	adapterout "oryx/internal/modules/session/adapter/out"
	"oryx/internal/modules/session/domain"
	"oryx/internal/platform/markdown"
)

func TestVaultNoteStoreWritesDatedNoteWithFrontmatter(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	store := adapterout.NewVaultNoteStore()
	session := domain.Session{Title: "Write the Draft!", Labels: []string{"work", "writing"}, Date: "2026-10-16", Time: "09:30"}

	path, err := store.SaveNote(context.Background(), root, session, 2)
	if err != nil {
		t.Fatalf("save note: %v", err)
	}
	want := filepath.Join(root, "sessions", "2026", "10", "16", "02-0930-write-the-draft.md")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	meta := map[string]any{}
	body, found, err := markdown.Split(string(raw), &meta)
	if err != nil || !found {
		t.Fatalf("split note: found=%v err=%v", found, err)
	}
	if meta["title"] != "Write the Draft!" || meta["date"] != "2026-10-16" || meta["time"] != "09:30" || meta["duration_minutes"] != 25 {
		t.Fatalf("unexpected frontmatter %+v", meta)
	}
	if !strings.Contains(body, "[[work]], [[writing]]") {
		t.Fatalf("expected label links in body %q", body)
	}
}

func TestVaultNoteStoreUndatedFallback(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path, err := adapterout.NewVaultNoteStore().SaveNote(context.Background(), root, domain.Session{Title: "x", Date: "someday", Time: "10:00"}, 1)
	if err != nil {
		t.Fatalf("save note: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(root, "sessions", "undated") {
		t.Fatalf("expected undated dir, got %s", path)
	}
}

func TestVaultNoteStoreIndexKeepsUserText(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	store := adapterout.NewVaultNoteStore()
	ctx := context.Background()

	first := domain.Stats{TotalCount: 1, TotalMinutes: 25, TodayCount: 1, TodayMinutes: 25}
	path, err := store.SaveIndex(ctx, root, first, nil)
	if err != nil {
		t.Fatalf("save index: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	edited := string(raw) + "\nMy own reflections.\n"
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit index: %v", err)
	}

	second := domain.Aggregate(make([]domain.Session, 7), "2026-10-16")
	labels := []domain.LabelCount{{Label: "work", Count: 3, TodayCount: 1}}
	if _, err := store.SaveIndex(ctx, root, second, labels); err != nil {
		t.Fatalf("save index again: %v", err)
	}
	raw, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	content := string(raw)
	if strings.Count(content, "<!-- oryx:stats:start -->") != 1 {
		t.Fatalf("expected a single stats block in %q", content)
	}
	for _, want := range []string{"My own reflections.", "| All time | 7 | 2h:55m |", "| [[work]] | 3 | 1 | 1h:15m |", "total_sessions: 7"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "| All time | 1 |") {
		t.Fatalf("stale stats left behind: %q", content)
	}
}
