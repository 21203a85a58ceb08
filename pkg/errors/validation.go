package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxLayoutBytes bounds layout text accepted from network clients.
const MaxLayoutBytes = 1 << 20

// MaxBankLen bounds the number of values accepted in a single tick request.
const MaxBankLen = 1 << 16

// ValidateLayoutSize rejects layout text larger than [MaxLayoutBytes].
// The parser itself accepts any length; this guard is for the HTTP surface.
func ValidateLayoutSize(n int) error {
	if n > MaxLayoutBytes {
		return New(ErrCodeInvalidInput, "layout too large (%d bytes, max %d)", n, MaxLayoutBytes)
	}
	return nil
}

// ValidateBank checks a channel bank supplied by a client.
// Values must be finite; the length is bounded by [MaxBankLen]. Any length
// mismatch with the active node count is resolved by routing, not here.
func ValidateBank(bank []float64) error {
	if len(bank) > MaxBankLen {
		return New(ErrCodeInvalidInput, "bank too long (%d values, max %d)", len(bank), MaxBankLen)
	}
	for i, v := range bank {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "bank value %d is not finite", i)
		}
	}
	return nil
}

// ValidateOutputPath validates a file path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
