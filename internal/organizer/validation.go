package organizer

import (
	"path/filepath"
	"strings"

	"tvrename/internal/identification"
	"tvrename/internal/services"
)

// targetPath renders the new name and checks that it is usable as a sibling
// of the source file.
func targetPath(result identification.MatchResult, pattern string) (string, error) {
	if !result.Status.Renamable() {
		return "", services.Wrap(
			services.ErrValidation,
			"organizer",
			"plan rename",
			"result status "+string(result.Status)+" is not renamable",
			nil,
		)
	}
	source := strings.TrimSpace(result.Entry.AbsolutePath)
	if source == "" {
		return "", services.Wrap(services.ErrValidation, "organizer", "plan rename", "source path is required", nil)
	}

	stem := Render(pattern, result)
	if strings.TrimSpace(stem) == "" {
		return "", services.Wrap(services.ErrValidation, "organizer", "plan rename", "pattern rendered an empty name", nil)
	}
	name := stem + result.Entry.Extension
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", services.Wrap(services.ErrValidation, "organizer", "plan rename", "rendered name "+name+" is not a plain file name", nil)
	}
	return filepath.Join(result.Entry.Dir(), name), nil
}
