package utils

import (
	"testing"
)

func TestEnsureBool(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want bool
		ok   bool
	}{
		{"bool true", true, true, true},
		{"bool false", false, false, true},
		{"number one", float64(1), true, true},
		{"number zero", float64(0), false, true},
		{"other number", float64(2), false, false},
		{"string true", "true", true, true},
		{"string yes upper", "YES", true, true},
		{"string one", "1", true, true},
		{"string false", "false", false, true},
		{"string no", "no", false, true},
		{"padded string", "  True ", true, true},
		{"null", nil, false, true},
		{"garbage", "perhaps", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EnsureBool(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("EnsureBool(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStringToInt(t *testing.T) {
	if got := StringToInt("42"); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if got := StringToInt("nope"); got != 0 {
		t.Errorf("Expected 0 on parse failure, got %d", got)
	}
}
