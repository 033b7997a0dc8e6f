package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"tvrename/internal/identification"
	"tvrename/internal/logging"
	"tvrename/internal/scan"
	"tvrename/internal/services"
	"tvrename/internal/store"
	"tvrename/internal/testsupport"
	"tvrename/internal/workflow"
)

const pattern = "{n} - {s00e00} - {t}"

type stubResolver struct {
	mu      sync.Mutex
	calls   []string
	indexes []int
	results map[string]identification.MatchResult
	onCall  func(n int)
}

func (s *stubResolver) Resolve(ctx context.Context, entry scan.FileEntry) identification.MatchResult {
	s.mu.Lock()
	s.calls = append(s.calls, entry.BaseName)
	if idx, ok := services.ItemIndexFromContext(ctx); ok {
		s.indexes = append(s.indexes, idx)
	}
	n := len(s.calls)
	s.mu.Unlock()
	if s.onCall != nil {
		s.onCall(n)
	}
	result, ok := s.results[entry.BaseName]
	if !ok {
		result = identification.MatchResult{Status: identification.StatusShowNotFound, Detail: identification.DetailShowNotFound, Season: 1, Episode: 1}
	}
	result.Entry = entry
	return result
}

type recordingJournal struct {
	entries []store.JournalEntry
	err     error
}

func (j *recordingJournal) RecordRename(_ context.Context, entry store.JournalEntry) error {
	j.entries = append(j.entries, entry)
	return j.err
}

func entriesFor(t *testing.T, paths []string) []scan.FileEntry {
	t.Helper()
	entries := make([]scan.FileEntry, 0, len(paths))
	for _, path := range paths {
		entry, err := scan.NewFileEntry(path)
		if err != nil {
			t.Fatalf("NewFileEntry: %v", err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func newResolver() *stubResolver {
	return &stubResolver{results: map[string]identification.MatchResult{
		"foo.s01e02.mkv": {Show: "Foo", Season: 1, Episode: 2, Title: "Bar", Status: identification.StatusMatched, Detail: identification.DetailMatched},
		"foo.s01e03.mkv": {Show: "Foo", Season: 1, Episode: 3, Status: identification.StatusFallback, Detail: identification.DetailFallback},
		"broken.mkv":     {Season: 1, Episode: 1, Status: identification.StatusError, Detail: "Error: boom"},
	}}
}

func TestMatchProducesOneItemPerEntryInOrder(t *testing.T) {
	dir := t.TempDir()
	paths := testsupport.WriteVideos(t, dir, "foo.s01e02.mkv", "unknown.mkv", "foo.s01e03.mkv", "broken.mkv")
	resolver := newResolver()
	pipeline := workflow.New(resolver, logging.NewNop())

	var progress []workflow.Progress
	items, err := pipeline.Match(context.Background(), entriesFor(t, paths), pattern, func(p workflow.Progress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	wantOrder := []string{"foo.s01e02.mkv", "unknown.mkv", "foo.s01e03.mkv", "broken.mkv"}
	for i, name := range wantOrder {
		if items[i].Result.Entry.BaseName != name || resolver.calls[i] != name {
			t.Fatalf("item %d = %q (call %q), want %q", i, items[i].Result.Entry.BaseName, resolver.calls[i], name)
		}
		if resolver.indexes[i] != i+1 {
			t.Fatalf("item index %d = %d", i, resolver.indexes[i])
		}
	}
	if items[0].Preview != "Foo - S01E02 - Bar.mkv" {
		t.Fatalf("preview = %q", items[0].Preview)
	}
	if items[2].Preview != "Foo - S01E03.mkv" {
		t.Fatalf("fallback preview = %q", items[2].Preview)
	}
	if items[1].Preview != "" || items[3].Preview != "" {
		t.Fatalf("unrenamable items should have no preview: %+v", items)
	}
	if len(progress) != 4 || progress[3].Completed != 4 || progress[3].Total != 4 {
		t.Fatalf("progress = %+v", progress)
	}
}

func TestMatchStopsOnCancellation(t *testing.T) {
	dir := t.TempDir()
	paths := testsupport.WriteVideos(t, dir, "a.mkv", "b.mkv", "c.mkv")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resolver := newResolver()
	resolver.onCall = func(n int) {
		if n == 2 {
			cancel()
		}
	}
	items, err := workflow.New(resolver, nil).Match(ctx, entriesFor(t, paths), pattern, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(items) != 2 || len(resolver.calls) != 2 {
		t.Fatalf("items=%d calls=%d, want 2/2", len(items), len(resolver.calls))
	}
}

func TestRenameRecordsOutcomesAndContinuesPastFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	paths := testsupport.WriteVideos(t, dir, "foo.s01e02.mkv", "unknown.mkv", "foo.s01e03.mkv", "broken.mkv")
	// Occupy the first target so that rename fails.
	testsupport.WriteFile(t, filepath.Join(dir, "Foo - S01E02 - Bar.mkv"), 4)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	journal := &recordingJournal{}
	pipeline := workflow.New(newResolver(), logging.NewNop(),
		workflow.WithJournal(journal),
		workflow.WithLockPath(cfg.LockPath()),
	)
	items, err := pipeline.Match(context.Background(), entriesFor(t, paths), pattern, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	summary, err := pipeline.Rename(context.Background(), items, pattern)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(summary.Outcomes) != 2 || summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if !errors.Is(summary.Outcomes[0].Err, services.ErrFilesystem) {
		t.Fatalf("first outcome err = %v", summary.Outcomes[0].Err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Foo - S01E03.mkv")); err != nil {
		t.Fatalf("fallback rename missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "unknown.mkv")); err != nil {
		t.Fatalf("unmatched file touched: %v", err)
	}

	if len(journal.entries) != 2 {
		t.Fatalf("journal rows = %d, want 2", len(journal.entries))
	}
	for _, entry := range journal.entries {
		if entry.RunID != summary.RunID {
			t.Fatalf("journal run id = %q, want %q", entry.RunID, summary.RunID)
		}
	}
	if journal.entries[0].Success || !journal.entries[1].Success {
		t.Fatalf("journal success flags wrong: %+v", journal.entries)
	}
}

func TestRenameDryRunLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	paths := testsupport.WriteVideos(t, dir, "foo.s01e02.mkv")
	journal := &recordingJournal{}
	pipeline := workflow.New(newResolver(), nil, workflow.WithDryRun(true), workflow.WithJournal(journal))

	items, err := pipeline.Match(context.Background(), entriesFor(t, paths), pattern, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	summary, err := pipeline.Rename(context.Background(), items, pattern)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if !summary.DryRun || summary.Succeeded != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Outcomes[0].TargetPath != filepath.Join(dir, "Foo - S01E02 - Bar.mkv") {
		t.Fatalf("target = %q", summary.Outcomes[0].TargetPath)
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Fatalf("dry run moved file: %v", err)
	}
	if len(journal.entries) != 0 {
		t.Fatalf("dry run wrote journal rows: %+v", journal.entries)
	}
}

func TestRenameHonorsHeldLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	held := flock.New(cfg.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	pipeline := workflow.New(newResolver(), nil, workflow.WithLockPath(cfg.LockPath()))
	if _, err := pipeline.Rename(context.Background(), nil, pattern); !errors.Is(err, workflow.ErrRenameInProgress) {
		t.Fatalf("expected ErrRenameInProgress, got %v", err)
	}
}

func TestRenameWritesToStoreJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	paths := testsupport.WriteVideos(t, dir, "foo.s01e02.mkv")

	pipeline := workflow.New(newResolver(), nil, workflow.WithJournal(st), workflow.WithLockPath(cfg.LockPath()))
	items, err := pipeline.Match(context.Background(), entriesFor(t, paths), pattern, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	summary, err := pipeline.Rename(context.Background(), items, pattern)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}

	rows, err := st.ListRenames(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRenames: %v", err)
	}
	if len(rows) != 1 || rows[0].RunID != summary.RunID || rows[0].Status != "matched" || !rows[0].Success {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestRenameFailureLogsErrorKind(t *testing.T) {
	dir := t.TempDir()
	paths := testsupport.WriteVideos(t, dir, "foo.s01e02.mkv")
	testsupport.WriteFile(t, filepath.Join(dir, "Foo - S01E02 - Bar.mkv"), 4)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	pipeline := workflow.New(newResolver(), logger)
	items, err := pipeline.Match(context.Background(), entriesFor(t, paths), pattern, nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	summary, err := pipeline.Rename(context.Background(), items, pattern)
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if !strings.Contains(buf.String(), `"error_kind":"filesystem"`) {
		t.Fatalf("rename failure log missing error kind:\n%s", buf.String())
	}
}
