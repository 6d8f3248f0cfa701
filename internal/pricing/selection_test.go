package pricing

import (
	"reflect"
	"testing"
)

func TestAllSelected(t *testing.T) {
	options := []string{"a", "b", "c"}

	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact match", []string{"a", "b", "c"}, true},
		{"order ignored", []string{"c", "a", "b"}, true},
		{"duplicates ignored", []string{"a", "a", "b", "c"}, true},
		{"partial", []string{"a", "b"}, false},
		{"superset", []string{"a", "b", "c", "d"}, false},
		{"empty selection", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllSelected(tt.selected, options); got != tt.want {
				t.Errorf("AllSelected(%v) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}

	if AllSelected(nil, nil) {
		t.Error("empty option list must never count as all-selected")
	}
}

func TestToggleAll(t *testing.T) {
	options := []string{"a", "b", "c"}

	got := ToggleAll([]string{"a"}, options)
	if !reflect.DeepEqual(got, options) {
		t.Errorf("partial selection toggled to %v, want all options", got)
	}

	got = ToggleAll([]string{"c", "b", "a"}, options)
	if len(got) != 0 {
		t.Errorf("full selection toggled to %v, want empty", got)
	}

	// The returned slice is a copy; mutating it must not alias options.
	got = ToggleAll(nil, options)
	got[0] = "zzz"
	if options[0] != "a" {
		t.Error("ToggleAll aliased the option list")
	}
}
