package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><circle cx="5" cy="5" r="4"/></svg>`

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	out, err := ToPNG(context.Background(), []byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Errorf("ToPNG() output is not a PNG")
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	out, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("ToPDF() output is not a PDF")
	}
}

func TestMissingConverter(t *testing.T) {
	t.Setenv("PATH", "")
	_, err := ToPDF(context.Background(), []byte(tinySVG))
	if err == nil || !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("ToPDF() error = %v, want install hint", err)
	}
}
