package checksum

import (
	_ "crypto/sha256" // registers the hash behind digest.SHA256
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
)

// Algorithm is the only digest algorithm used for artifacts and manifests.
const Algorithm = digest.SHA256

// HexLen is the length of an encoded digest.
const HexLen = 64

// ErrMismatch is matched by every *MismatchError.
var ErrMismatch = errors.New("checksum mismatch")

// MismatchError reports a file whose digest differs from the expected one.
// The file has already been removed when this error is returned.
type MismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s\n  expected: %s\n  actual:   %s\ncorrupted file has been deleted",
		e.Path, e.Expected, e.Actual)
}

// Is reports whether target is ErrMismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Digest returns the hex digest of b.
func Digest(b []byte) string {
	return Algorithm.FromBytes(b).Encoded()
}

// DigestReader returns the hex digest of everything read from r.
func DigestReader(r io.Reader) (string, error) {
	d, err := Algorithm.FromReader(r)
	if err != nil {
		return "", fmt.Errorf("digest reader: %w", err)
	}
	return d.Encoded(), nil
}

// DigestFile returns the hex digest of the file at path.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return DigestReader(f)
}

// ValidHex reports whether s is a well-formed lowercase SHA-256 hex digest.
func ValidHex(s string) bool {
	return digest.NewDigestFromEncoded(Algorithm, s).Validate() == nil
}

// Verify reads the file at path and compares its digest with expected.
// On mismatch the file is deleted and a *MismatchError is returned.
func Verify(path, expected string) error {
	actual, err := DigestFile(path)
	if err != nil {
		return fmt.Errorf("read file for checksum: %w", err)
	}

	if actual != expected {
		// Best effort: the mismatch is the error worth surfacing.
		_ = os.Remove(path)
		return &MismatchError{
			Path:     path,
			Expected: expected,
			Actual:   actual,
		}
	}

	return nil
}

// Writer accumulates the digest of everything written to it.
type Writer struct {
	d digest.Digester
}

// NewWriter returns an empty digest Writer.
func NewWriter() *Writer {
	return &Writer{d: Algorithm.Digester()}
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.d.Hash().Write(p)
}

// Sum returns the hex digest of the bytes written so far.
func (w *Writer) Sum() string {
	return w.d.Digest().Encoded()
}
