package chunker

import (
	"errors"
	"strings"
	"testing"
)

func TestWindow_SplitsAtExactTokenCount(t *testing.T) {
	input := "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10"
	windows, err := Window(strings.NewReader(input), 4, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"w1 w2 w3 w4", "w5 w6 w7 w8", "w9 w10"}
	if len(windows) != len(want) {
		t.Fatalf("expected %d windows, got %d: %v", len(want), len(windows), windows)
	}
	for i, w := range want {
		if windows[i] != w {
			t.Errorf("window %d: expected %q, got %q", i, w, windows[i])
		}
	}
}

func TestWindow_OverlapRepeatsTrailingTokens(t *testing.T) {
	input := "a b c d e f g h"
	windows, err := Window(strings.NewReader(input), 4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 4-token windows stepping by 2.
	want := []string{"a b c d", "c d e f", "e f g h", "g h"}
	if len(windows) != len(want) {
		t.Fatalf("expected %d windows, got %d: %v", len(want), len(windows), windows)
	}
	for i, w := range want {
		if windows[i] != w {
			t.Errorf("window %d: expected %q, got %q", i, w, windows[i])
		}
	}
}

func TestWindow_EmptyInput(t *testing.T) {
	windows, err := Window(strings.NewReader(""), 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("expected no windows, got %v", windows)
	}
}

func TestWindow_InvalidParameters(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Window(strings.NewReader("a b c"), tc.size, tc.overlap)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}
