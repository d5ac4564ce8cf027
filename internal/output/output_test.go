package output

import (
	"strings"
	"testing"
)

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"round to 6 decimal places", 0.123456789, 0.123457},
		{"no rounding needed", 0.123456, 0.123456},
		{"round down", 0.1234564, 0.123456},
		{"zero", 0.0, 0.0},
		{"negative", -0.123456789, -0.123457},
		{"very small number", 0.000001234567, 0.000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundFloat(tt.input); got != tt.want {
				t.Errorf("RoundFloat(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0.5, "0.5"},
		{0.123456789, "0.123457"},
		{1.0, "1"},
		{0.0, "0"},
		{0.1000001, "0.1"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.input); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEncodeIndented(t *testing.T) {
	v := map[string]interface{}{"path": "src/<App>.jsx", "n": 1}

	got, err := EncodeIndented(v, "  ")
	if err != nil {
		t.Fatalf("EncodeIndented() error = %v", err)
	}
	s := string(got)
	if !strings.Contains(s, `"path": "src/<App>.jsx"`) {
		t.Errorf("HTML should not be escaped: %s", s)
	}
	if strings.HasSuffix(s, "\n") {
		t.Error("trailing newline should be trimmed")
	}
	if !strings.Contains(s, "\n  \"n\": 1") {
		t.Errorf("expected indented output: %s", s)
	}

	// Determinism
	again, _ := EncodeIndented(v, "  ")
	if string(again) != s {
		t.Error("EncodeIndented is not deterministic")
	}
}

func TestStrip(t *testing.T) {
	input := []byte(`{"size": 2, "loads": [{"id": "a", "file": "x"}, {"id": "b", "file": "y"}], "meta": {"durationMs": 5, "keep": true}}`)

	got, err := Strip(input, "loads.id", "meta.durationMs", "missing.field")
	if err != nil {
		t.Fatalf("Strip() error = %v", err)
	}
	want := `{"loads":[{"file":"x"},{"file":"y"}],"meta":{"keep":true},"size":2}`
	if string(got) != want {
		t.Errorf("Strip() = %s, want %s", got, want)
	}
}

func TestStrip_InvalidJSON(t *testing.T) {
	if _, err := Strip([]byte(`{`), "a"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestEqual(t *testing.T) {
	a := []byte(`{"loads": [{"id": "1", "records": 3}]}`)
	b := []byte(`{"loads": [{"id": "2", "records": 3}]}`)
	c := []byte(`{"loads": [{"id": "2", "records": 4}]}`)

	if eq, err := Equal(a, b, "loads.id"); err != nil || !eq {
		t.Errorf("Equal(a, b) = %v, %v; want true", eq, err)
	}
	if eq, _ := Equal(a, c, "loads.id"); eq {
		t.Error("Equal(a, c) should be false")
	}
	if eq, _ := Equal(a, b); eq {
		t.Error("Equal without stripping should be false")
	}
}
