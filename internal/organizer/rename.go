package organizer

import (
	"errors"

	"tvrename/internal/fileutil"
	"tvrename/internal/identification"
	"tvrename/internal/services"
)

// DetailUnchanged marks an outcome whose target equals its source.
const DetailUnchanged = "unchanged"

// Outcome records what happened when renaming one file.
type Outcome struct {
	Result     identification.MatchResult `json:"result"`
	TargetPath string                     `json:"target_path"`
	Success    bool                       `json:"success"`
	Detail     string                     `json:"detail"`
	Err        error                      `json:"-"`
}

// Plan computes the outcome of renaming result without touching the
// filesystem. A valid plan is reported as successful.
func Plan(result identification.MatchResult, pattern string) Outcome {
	outcome := Outcome{Result: result}
	target, err := targetPath(result, pattern)
	if err != nil {
		return failed(outcome, err)
	}
	outcome.TargetPath = target
	outcome.Success = true
	if target == result.Entry.AbsolutePath {
		outcome.Detail = DetailUnchanged
	}
	return outcome
}

// Rename moves the file to its rendered name in the same directory. An
// occupied target is reported as a failed outcome; nothing is overwritten.
func Rename(result identification.MatchResult, pattern string) Outcome {
	outcome := Plan(result, pattern)
	if !outcome.Success || outcome.Detail == DetailUnchanged {
		return outcome
	}

	if err := fileutil.RenameNoReplace(result.Entry.AbsolutePath, outcome.TargetPath); err != nil {
		if errors.Is(err, fileutil.ErrTargetExists) {
			return failed(outcome, services.Wrap(services.ErrFilesystem, "organizer", "rename", "target already exists", err))
		}
		return failed(outcome, services.Wrap(services.ErrFilesystem, "organizer", "rename", "rename failed", err))
	}
	return outcome
}

func failed(outcome Outcome, err error) Outcome {
	outcome.Success = false
	outcome.Err = err
	outcome.Detail = err.Error()
	return outcome
}
