package release

import (
	"errors"
	"fmt"
)

// Kind classifies a locator failure.
type Kind int

const (
	// KindNetwork covers unreachable hosts and non-2xx responses.
	KindNetwork Kind = iota + 1
	// KindParse covers bodies that are not a valid release document.
	KindParse
	// KindNoAsset means the release has no archive asset.
	KindNoAsset
	// KindUntrustedOrigin means the archive URL is outside the trusted origin.
	KindUntrustedOrigin
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindNoAsset:
		return "no asset"
	case KindUntrustedOrigin:
		return "untrusted origin"
	default:
		return "unknown"
	}
}

var (
	// ErrNoAssetFound is returned when no asset carries the archive extension.
	ErrNoAssetFound = errors.New("no zip asset found in the latest release")
	// ErrUntrustedOrigin is returned when the asset URL fails the origin check.
	ErrUntrustedOrigin = errors.New("untrusted download URL")
)

// Error is returned by every Locator operation.
type Error struct {
	Kind       Kind
	StatusCode int    // set for non-2xx responses
	URL        string // the offending URL for KindUntrustedOrigin
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUntrustedOrigin:
		return fmt.Sprintf("SECURITY: %v: %s", ErrUntrustedOrigin, e.URL)
	case KindNetwork:
		if e.StatusCode != 0 {
			return fmt.Sprintf("GitHub API returned an error: status %d", e.StatusCode)
		}
		return fmt.Sprintf("failed to reach GitHub API: %v", e.Err)
	case KindParse:
		return fmt.Sprintf("failed to parse GitHub release JSON: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
