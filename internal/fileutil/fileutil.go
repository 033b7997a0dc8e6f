package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrTargetExists reports that a rename destination is already occupied.
var ErrTargetExists = fmt.Errorf("target already exists: %w", fs.ErrExist)

// RenameNoReplace renames oldpath to newpath and fails with ErrTargetExists
// instead of overwriting an existing newpath.
func RenameNoReplace(oldpath, newpath string) error {
	if oldpath == newpath {
		return nil
	}
	return renameNoReplace(oldpath, newpath)
}

// renameChecked is the portable fallback: check, then rename. A concurrent
// writer can still slip in between the two calls.
func renameChecked(oldpath, newpath string) error {
	info, err := os.Lstat(newpath)
	switch {
	case err == nil:
		// A case-only rename on a case-insensitive filesystem resolves to
		// the source itself.
		if src, srcErr := os.Lstat(oldpath); srcErr == nil && os.SameFile(src, info) {
			return os.Rename(oldpath, newpath)
		}
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: ErrTargetExists}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.Rename(oldpath, newpath)
}
