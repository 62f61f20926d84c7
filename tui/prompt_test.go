// ABOUTME: Tests for threshold prompt parsing
// ABOUTME: Method aliases, scientific notation, and malformed input

package tui

import (
	"testing"

	"epoch-select/rejection"
)

func TestParseThresholdInput(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantMethod rejection.Method
		wantValue  float64
		wantErr    bool
	}{
		{"absolute scientific", "absolute 2e-12", rejection.MethodAbsolute, 2e-12, false},
		{"abs alias", "abs 1.5e-12", rejection.MethodAbsolute, 1.5e-12, false},
		{"p2p plain", "p2p 4", rejection.MethodPeakToPeak, 4, false},
		{"long alias", "peak-to-peak 3e-12", rejection.MethodPeakToPeak, 3e-12, false},
		{"extra whitespace", "  absolute   2e-12  ", rejection.MethodAbsolute, 2e-12, false},
		{"missing value", "absolute", "", 0, true},
		{"too many fields", "absolute 2e-12 extra", "", 0, true},
		{"unknown method", "rms 2e-12", "", 0, true},
		{"bad number", "absolute twelve", "", 0, true},
		{"empty", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, value, err := parseThresholdInput(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				return
			}

			if method != tt.wantMethod {
				t.Errorf("method = %q, want %q", method, tt.wantMethod)
			}

			if value != tt.wantValue {
				t.Errorf("value = %g, want %g", value, tt.wantValue)
			}
		})
	}
}
