// Package git edits the project's ignore file and inspects the project's
// repository.
package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// ErrInvalidRepo is returned when a repository exists but cannot be opened.
var ErrInvalidRepo = errors.New("invalid git repository")

// IsRepo reports whether dir is inside a git working tree. Parent
// directories are searched for the .git directory.
// Returns (true, nil) if found, (false, nil) if not, (false, err) if corrupted.
func IsRepo(ctx context.Context, dir string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	_, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidRepo, err.Error())
	}
	return true, nil
}
