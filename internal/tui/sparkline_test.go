package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// testColor is a neutral color used for sparkline tests.
var testColor = lipgloss.Color("#ffffff")

func TestRenderSparkline_Empty(t *testing.T) {
	result := stripANSI(RenderSparkline(nil, 10, testColor))
	if result != strings.Repeat(" ", 10) {
		t.Errorf("expected 10 spaces, got %q", result)
	}
}

func TestRenderSparkline_AllZeros(t *testing.T) {
	result := []rune(stripANSI(RenderSparkline([]float64{0, 0, 0, 0, 0}, 5, testColor)))
	if len(result) != 5 {
		t.Fatalf("expected 5 runes, got %d: %q", len(result), string(result))
	}
	for i, ch := range result {
		if ch != '▁' {
			t.Errorf("index %d: expected '▁', got %q", i, ch)
		}
	}
}

func TestRenderSparkline_Ascending(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	result := []rune(stripANSI(RenderSparkline(values, 8, testColor)))
	if len(result) != 8 {
		t.Fatalf("expected 8 runes, got %d: %q", len(result), string(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i] < result[i-1] {
			t.Errorf("index %d: expected non-decreasing, got %q < %q", i, result[i], result[i-1])
		}
	}
	if result[7] != '█' {
		t.Errorf("last char: expected '█', got %q", result[7])
	}
}

func TestRenderSparkline_TruncatesLeft(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i)
	}
	result := []rune(stripANSI(RenderSparkline(values, 10, testColor)))
	if len(result) != 10 {
		t.Fatalf("expected 10 runes, got %d", len(result))
	}
	if result[9] != '█' {
		t.Errorf("expected last char '█', got %q", result[9])
	}
}

func TestRenderSparkline_PadsLeft(t *testing.T) {
	result := []rune(stripANSI(RenderSparkline([]float64{42}, 5, testColor)))
	if string(result) != "    █" {
		t.Errorf("expected 4 spaces and '█', got %q", string(result))
	}
}

func TestRenderSparkline_Negative(t *testing.T) {
	result := []rune(stripANSI(RenderSparkline([]float64{-4, 0, 4}, 3, testColor)))
	if result[0] != '▁' || result[2] != '█' {
		t.Errorf("expected floor and top at the ends, got %q", string(result))
	}
}

func TestRenderSparkline_ZeroWidth(t *testing.T) {
	if got := RenderSparkline([]float64{1, 2, 3}, 0, testColor); got != "" {
		t.Errorf("expected empty string for width=0, got %q", got)
	}
}
