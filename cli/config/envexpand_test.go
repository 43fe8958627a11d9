package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("OCIMPORT_SET", "value")
	t.Setenv("OCIMPORT_EMPTY", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set variable", "token: ${OCIMPORT_SET}", "token: value"},
		{"unset variable", "token: ${OCIMPORT_UNSET_XYZ}", "token: "},
		{"unset with default", "url: ${OCIMPORT_UNSET_XYZ:-http://fallback}", "url: http://fallback"},
		{"set overrides default", "token: ${OCIMPORT_SET:-other}", "token: value"},
		{"empty falls back to default", "token: ${OCIMPORT_EMPTY:-fallback}", "token: fallback"},
		{"multiple in one line", "${OCIMPORT_SET}/${OCIMPORT_SET}", "value/value"},
		{"no variables", "plain text", "plain text"},
		{"bare dollar untouched", "cost: $5", "cost: $5"},
		{"unbraced form untouched", "token: $OCIMPORT_SET", "token: $OCIMPORT_SET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
