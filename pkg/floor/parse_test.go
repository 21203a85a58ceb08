package floor

import (
	"testing"

	"github.com/matzehuels/hapticfloor/pkg/errors"
)

func TestParseValid(t *testing.T) {
	text := `[
		{"coords": [0, 0], "type": "active", "channel": 2},
		{"coords": [1, 1]},
		{"coords": [-2, 3], "type": "active"},
		{"coords": [4, 5], "type": "sensor", "channel": 9, "label": "ignored"}
	]`

	raw, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(raw) != 4 {
		t.Fatalf("len(raw) = %d, want 4", len(raw))
	}

	tests := []struct {
		x, y    int
		active  bool
		channel int
	}{
		{0, 0, true, 2},
		{1, 1, false, 0},
		{-2, 3, true, 0},
		{4, 5, false, 0},
	}
	for i, tt := range tests {
		r := raw[i]
		if r.X != tt.x || r.Y != tt.y {
			t.Errorf("raw[%d] coords = (%d,%d), want (%d,%d)", i, r.X, r.Y, tt.x, tt.y)
		}
		if r.IsActive() != tt.active {
			t.Errorf("raw[%d].IsActive() = %v, want %v", i, r.IsActive(), tt.active)
		}
		if r.EffectiveChannel() != tt.channel {
			t.Errorf("raw[%d].EffectiveChannel() = %d, want %d", i, r.EffectiveChannel(), tt.channel)
		}
	}
}

func TestParseEmptyArray(t *testing.T) {
	raw, err := Parse("  [ ]  ")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("len(raw) = %d, want 0", len(raw))
	}
}

func TestParseFieldRules(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantActive  bool
		wantChannel int
	}{
		{"type is case sensitive", `[{"coords":[1,2],"type":"Active","channel":3}]`, false, 0},
		{"type with whitespace", `[{"coords":[1,2],"type":"active ","channel":3}]`, false, 0},
		{"non-string type", `[{"coords":[1,2],"type":1,"channel":3}]`, false, 0},
		{"null type", `[{"coords":[1,2],"type":null}]`, false, 0},
		{"string channel", `[{"coords":[1,2],"type":"active","channel":"3"}]`, true, 0},
		{"fractional channel", `[{"coords":[1,2],"type":"active","channel":2.5}]`, true, 0},
		{"negative channel", `[{"coords":[1,2],"type":"active","channel":-4}]`, true, -4},
		{"channel on passive ignored", `[{"coords":[1,2],"channel":7}]`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(raw) != 1 {
				t.Fatalf("len(raw) = %d, want 1", len(raw))
			}
			if got := raw[0].IsActive(); got != tt.wantActive {
				t.Errorf("IsActive() = %v, want %v", got, tt.wantActive)
			}
			if got := raw[0].EffectiveChannel(); got != tt.wantChannel {
				t.Errorf("EffectiveChannel() = %d, want %d", got, tt.wantChannel)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errors.Code
	}{
		{"empty text", "", errors.ErrCodeMalformedDocument},
		{"not json", "coords: 1, 2", errors.ErrCodeMalformedDocument},
		{"truncated", `[{"coords":[0,0]}`, errors.ErrCodeMalformedDocument},
		{"object root", `{"not":"an array"}`, errors.ErrCodeMalformedDocument},
		{"null root", `null`, errors.ErrCodeMalformedDocument},
		{"number root", `42`, errors.ErrCodeMalformedDocument},
		{"trailing document", `[] []`, errors.ErrCodeMalformedDocument},
		{"trailing garbage", `[]x`, errors.ErrCodeMalformedDocument},

		{"element not object", `[5]`, errors.ErrCodeInvalidElement},
		{"missing coords", `[{"type":"active"}]`, errors.ErrCodeInvalidElement},
		{"coords not array", `[{"coords":"0,0"}]`, errors.ErrCodeInvalidElement},
		{"coords too short", `[{"coords":[0]}]`, errors.ErrCodeInvalidElement},
		{"coords too long", `[{"coords":[0,1,2]}]`, errors.ErrCodeInvalidElement},
		{"coords fractional", `[{"coords":[0,1.5]}]`, errors.ErrCodeInvalidElement},
		{"coords exponent", `[{"coords":[1e2,1]}]`, errors.ErrCodeInvalidElement},
		{"coords string", `[{"coords":["0",1]}]`, errors.ErrCodeInvalidElement},
		{"coords null", `[{"coords":[null,1]}]`, errors.ErrCodeInvalidElement},
		{"coords overflow int32", `[{"coords":[2147483648,0]}]`, errors.ErrCodeInvalidElement},
		{"bad element last", `[{"coords":[0,0]},{"coords":[1,1]},{"coords":[2]}]`, errors.ErrCodeInvalidElement},
		{"bad element first", `[{"coords":[]},{"coords":[1,1]}]`, errors.ErrCodeInvalidElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Parse(tt.text)
			if err == nil {
				t.Fatalf("Parse() = %v, want error", raw)
			}
			if raw != nil {
				t.Errorf("Parse() returned %d descriptors alongside error", len(raw))
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestParseInt32Bounds(t *testing.T) {
	raw, err := Parse(`[{"coords":[2147483647,-2147483648]}]`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if raw[0].X != 2147483647 || raw[0].Y != -2147483648 {
		t.Errorf("coords = (%d,%d), want int32 bounds", raw[0].X, raw[0].Y)
	}
}

func TestParseErrorNamesElement(t *testing.T) {
	_, err := Parse(`[{"coords":[0,0]},{"coords":[0,0]},{"oops":true}]`)
	if err == nil {
		t.Fatal("Parse() error = nil, want error")
	}
	if got := errors.UserMessage(err); got != "element 2" {
		t.Errorf("UserMessage() = %q, want %q", got, "element 2")
	}
}
