package floor

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/hapticfloor/pkg/errors"
)

// Parse validates layout text and returns its descriptors in document order.
//
// Parse never panics on untrusted input. It returns an error coded
// [errors.ErrCodeMalformedDocument] when the text is not a single JSON value
// or its root is not an array, and [errors.ErrCodeInvalidElement] for the
// first element that is not an object with a "coords" array of exactly two
// integers. No descriptors are returned alongside an error.
//
// Integers are JSON numbers without fraction or exponent that fit in 32 bits.
// A "type" that is not a string and a "channel" that is not an integer are
// treated as absent rather than rejected.
func Parse(text string) ([]RawNode, error) {
	root, err := decode(text)
	if err != nil {
		return nil, err
	}

	items, ok := root.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "layout root must be an array, got %s", kindOf(root))
	}

	out := make([]RawNode, 0, len(items))
	for i, item := range items {
		raw, err := parseElement(item)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidElement, err, "element %d", i)
		}
		out = append(out, raw)
	}
	return out, nil
}

func decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "layout is not valid JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "unexpected data after layout document")
	}
	return root, nil
}

func parseElement(item any) (RawNode, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return RawNode{}, fmt.Errorf("expected object, got %s", kindOf(item))
	}

	coords, ok := obj["coords"].([]any)
	if !ok {
		return RawNode{}, fmt.Errorf(`"coords" must be an array`)
	}
	if len(coords) != 2 {
		return RawNode{}, fmt.Errorf(`"coords" must have 2 entries, got %d`, len(coords))
	}
	x, ok := asInt(coords[0])
	if !ok {
		return RawNode{}, fmt.Errorf(`"coords"[0] must be an integer`)
	}
	y, ok := asInt(coords[1])
	if !ok {
		return RawNode{}, fmt.Errorf(`"coords"[1] must be an integer`)
	}

	raw := RawNode{X: x, Y: y}
	if s, ok := obj["type"].(string); ok {
		raw.Type = &s
	}
	if c, ok := asInt(obj["channel"]); ok {
		raw.Channel = &c
	}
	return raw, nil
}

// asInt accepts integral JSON numbers in the signed 32-bit range.
func asInt(v any) (int, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(n.String(), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(i), true
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
