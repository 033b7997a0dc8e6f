package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tvrename/internal/logging"
	"tvrename/internal/services"
)

const component = "scan"

// FileEntry is one discovered video file.
type FileEntry struct {
	AbsolutePath string `json:"absolute_path"`
	BaseName     string `json:"base_name"`
	Extension    string `json:"extension"`
}

// Dir returns the directory containing the file.
func (e FileEntry) Dir() string {
	return filepath.Dir(e.AbsolutePath)
}

// NewFileEntry builds an entry for path, resolving it to an absolute path.
func NewFileEntry(path string) (FileEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileEntry{}, services.Wrap(services.ErrFilesystem, component, "resolve path", path, err)
	}
	base := filepath.Base(abs)
	return FileEntry{
		AbsolutePath: abs,
		BaseName:     base,
		Extension:    filepath.Ext(base),
	}, nil
}

// Scanner enumerates video files under a set of roots.
type Scanner struct {
	extensions map[string]struct{}
	logger     *slog.Logger
}

// New constructs a Scanner matching the given extensions case-insensitively.
func New(extensions []string, logger *slog.Logger) *Scanner {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return &Scanner{extensions: set, logger: logging.NewComponentLogger(logger, component)}
}

// Matches reports whether name carries a recognized video extension.
func (s *Scanner) Matches(name string) bool {
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Files enumerates matching files under roots. A root that is itself a
// matching file is included directly; directories are walked recursively in
// lexical order. Duplicate paths keep their first occurrence.
func (s *Scanner) Files(ctx context.Context, roots []string) ([]FileEntry, error) {
	seen := make(map[string]struct{})
	var entries []FileEntry

	add := func(path string) error {
		entry, err := NewFileEntry(path)
		if err != nil {
			return err
		}
		if _, dup := seen[entry.AbsolutePath]; dup {
			return nil
		}
		seen[entry.AbsolutePath] = struct{}{}
		entries = append(entries, entry)
		return nil
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		info, err := os.Stat(root)
		if err != nil {
			return entries, services.Wrap(services.ErrFilesystem, component, "stat root", root, err)
		}
		if !info.IsDir() {
			if s.Matches(root) {
				if err := add(root); err != nil {
					return entries, err
				}
			}
			continue
		}

		// WalkDir does not descend into a symlinked root, so walk its target
		// and report paths under the root as given.
		walkRoot := root
		if resolved, evalErr := filepath.EvalSymlinks(root); evalErr == nil {
			walkRoot = resolved
		}
		walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == walkRoot {
					return err
				}
				logging.WarnWithContext(s.logger, "skipping unreadable path", "scan_path_unreadable",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check directory permissions"),
					logging.String(logging.FieldImpact, "files under this path are not renamed"),
				)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || (!d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0) {
				return nil
			}
			if !s.Matches(d.Name()) {
				return nil
			}
			rel, relErr := filepath.Rel(walkRoot, path)
			if relErr != nil {
				return add(path)
			}
			return add(filepath.Join(root, rel))
		})
		if walkErr != nil {
			if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
				return entries, walkErr
			}
			return entries, services.Wrap(services.ErrFilesystem, component, "walk", root, walkErr)
		}
	}

	s.logger.Debug("scan complete", logging.Int("roots", len(roots)), logging.Int("files", len(entries)))
	return entries, nil
}

// Result is the outcome of a background scan.
type Result struct {
	Entries []FileEntry
	Err     error
}

// Start runs Files on a separate goroutine and delivers the single result on
// the returned channel, which is closed afterwards.
func (s *Scanner) Start(ctx context.Context, roots []string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				out <- Result{Err: services.Wrap(services.ErrFilesystem, component, "scan", fmt.Sprintf("panic: %v", r), nil)}
			}
		}()
		entries, err := s.Files(ctx, roots)
		out <- Result{Entries: entries, Err: err}
	}()
	return out
}

// Files is a convenience wrapper around New(extensions, nil).Files.
func Files(ctx context.Context, roots, extensions []string) ([]FileEntry, error) {
	return New(extensions, nil).Files(ctx, roots)
}

// Start is a convenience wrapper around New(extensions, nil).Start.
func Start(ctx context.Context, roots, extensions []string) <-chan Result {
	return New(extensions, nil).Start(ctx, roots)
}
