// Package checksum computes and verifies SHA-256 content digests.
//
// The algorithm is fixed. Digests are rendered as 64 lowercase hex
// characters and compared case-sensitively. A failed verification deletes
// the offending file so a corrupted artifact is never reused.
package checksum
