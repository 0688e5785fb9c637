package palette_test

import (
	"testing"

	"github.com/chromabiz/chromabiz/internal/palette"
)

func TestFallbackCuratedCategory(t *testing.T) {
	t.Parallel()

	got := palette.Fallback("Food & Beverage")
	if len(got) != 1 {
		t.Fatalf("expected 1 curated palette, got %d", len(got))
	}
	if got[0].Name != "Warm Appetite" {
		t.Errorf("expected Warm Appetite, got %q", got[0].Name)
	}
	if len(got[0].Colors) != 5 {
		t.Errorf("expected 5 colors, got %d", len(got[0].Colors))
	}
	if got[0].ID == "" {
		t.Error("expected generated palette id")
	}
}

func TestFallbackUnknownCategory(t *testing.T) {
	t.Parallel()

	got := palette.Fallback("Nonexistent Category")
	if len(got) != 5 {
		t.Fatalf("expected 5 default palettes, got %d", len(got))
	}

	wantNames := []string{"Professional Classic", "Modern Minimal", "Nature Inspired", "Warm Sunset", "Cool Ocean"}
	for i, p := range got {
		if p.Name != wantNames[i] {
			t.Errorf("palette %d: expected %q, got %q", i, wantNames[i], p.Name)
		}
		if len(p.Colors) != 5 {
			t.Errorf("palette %q: expected 5 colors, got %d", p.Name, len(p.Colors))
		}
		if p.ID == "" {
			t.Errorf("palette %q: expected generated id", p.Name)
		}
	}
}

func TestFallbackFreshIDsPerCall(t *testing.T) {
	t.Parallel()

	first := palette.Fallback("Technology")
	second := palette.Fallback("Technology")
	if first[0].ID == second[0].ID {
		t.Error("expected distinct ids across calls")
	}

	// Mutating a returned palette must not leak into later lookups.
	first[0].Colors[0].Hex = "#FFFFFF"
	if third := palette.Fallback("Technology"); third[0].Colors[0].Hex == "#FFFFFF" {
		t.Error("catalog data was mutated through a returned palette")
	}
}
