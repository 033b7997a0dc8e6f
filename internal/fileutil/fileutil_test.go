package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRenameNoReplace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dst := filepath.Join(dir, "dst.mkv")
	writeFile(t, src, "video")

	if err := RenameNoReplace(src, dst); err != nil {
		t.Fatalf("RenameNoReplace returned error: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected source to be gone, got %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "video" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestRenameNoReplaceRefusesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dst := filepath.Join(dir, "dst.mkv")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	err := RenameNoReplace(src, dst)
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected fs.ErrExist in chain, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "old" {
		t.Fatalf("target overwritten: %q", got)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestRenameNoReplaceSamePath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "same.mkv")
	writeFile(t, src, "x")
	if err := RenameNoReplace(src, src); err != nil {
		t.Fatalf("same path rename should be a no-op, got %v", err)
	}
}

func TestRenameCheckedFallback(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")
	dst := filepath.Join(dir, "b.mkv")
	other := filepath.Join(dir, "c.mkv")
	writeFile(t, src, "a")
	writeFile(t, other, "c")

	if err := renameChecked(src, other); !errors.Is(err, ErrTargetExists) {
		t.Fatalf("expected ErrTargetExists, got %v", err)
	}
	if err := renameChecked(src, dst); err != nil {
		t.Fatalf("renameChecked returned error: %v", err)
	}
}

func TestRenameMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := RenameNoReplace(filepath.Join(dir, "missing.mkv"), filepath.Join(dir, "x.mkv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
