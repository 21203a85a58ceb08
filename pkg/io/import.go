package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/hapticfloor/pkg/errors"
)

// ReadLayout reads a layout document from r. Documents larger than
// [errors.MaxLayoutBytes] are rejected without being parsed. ReadLayout does
// not close r.
func ReadLayout(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, errors.MaxLayoutBytes+1))
	if err != nil {
		return "", fmt.Errorf("read layout: %w", err)
	}
	if err := errors.ValidateLayoutSize(len(data)); err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportLayout reads the layout document at path.
func ImportLayout(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeNotFound, err, "layout %s not found", path)
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
