package palette_test

import (
	"strings"
	"testing"

	"github.com/chromabiz/chromabiz/internal/palette"
)

func baseRequest() palette.BrandingRequest {
	return palette.BrandingRequest{
		BusinessName:     "Aurora Cafe",
		BusinessCategory: "Food & Beverage",
		TargetCountry:    "Brazil",
		AgeGroups:        []string{"18-24", "25-34"},
		TargetGender:     "All",
	}
}

func TestBuildGenerationPrompt(t *testing.T) {
	t.Parallel()

	prompt := palette.BuildGenerationPrompt(baseRequest())

	for _, want := range []string{
		"Generate 5 professional color palettes for a Aurora Cafe business in the Food & Beverage industry.",
		"- Country: Brazil",
		"- Age Groups: 18-24, 25-34",
		"- Gender: All",
		"Cultural color associations for Brazil",
		"Age-appropriate appeal for 18-24, 25-34",
		"Return ONLY a JSON array with this exact structure (no other text):",
		`"usage": "Primary/Secondary/Accent/Background/Text"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if strings.Contains(prompt, "Brand Values") {
		t.Error("prompt must omit the brand values line when the field is empty")
	}
	if strings.Contains(prompt, "Competitors") {
		t.Error("prompt must omit the competitors line when the field is empty")
	}
}

func TestBuildGenerationPromptOptionalFields(t *testing.T) {
	t.Parallel()

	req := baseRequest()
	req.BrandValues = "sustainability, warmth"
	req.Competitors = "MegaCoffee"

	prompt := palette.BuildGenerationPrompt(req)

	if !strings.Contains(prompt, "- Brand Values: sustainability, warmth") {
		t.Error("prompt missing brand values line")
	}
	if !strings.Contains(prompt, "- Competitors to differentiate from: MegaCoffee") {
		t.Error("prompt missing competitors line")
	}
}

func TestBuildGenerationPromptDeterministic(t *testing.T) {
	t.Parallel()

	if palette.BuildGenerationPrompt(baseRequest()) != palette.BuildGenerationPrompt(baseRequest()) {
		t.Error("prompt must be deterministic for identical requests")
	}
}

func TestBuildRefinementPrompt(t *testing.T) {
	t.Parallel()

	chatCtx := palette.ChatContext{
		Palettes: []palette.Palette{
			{ID: "p1", Name: "Warm Appetite", Colors: []palette.Color{{Hex: "#D4380D", Name: "Tomato Red", Usage: "Primary"}}},
		},
		BusinessInfo: palette.BusinessInfo{
			BusinessName:     "Aurora Cafe",
			BusinessCategory: "Food & Beverage",
			TargetCountry:    "Brazil",
			AgeGroups:        []string{"18-24"},
			TargetGender:     "All",
		},
	}

	system, user := palette.BuildRefinementPrompt(chatCtx, "make it bolder")

	if user != "make it bolder" {
		t.Errorf("user message must pass through unmodified, got %q", user)
	}
	for _, want := range []string{
		"color consultant helping refine color palettes for Aurora Cafe",
		"- Type: Food & Beverage",
		"- Target Country: Brazil",
		"- Target Audience: 18-24 All",
		`"hex": "#D4380D"`,
		"Warm Appetite",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
}

func TestBuildRefinementPromptDefaults(t *testing.T) {
	t.Parallel()

	system, _ := palette.BuildRefinementPrompt(palette.ChatContext{}, "hi")

	for _, want := range []string{
		"for a business",
		"- Type: General",
		"- Target Country: Global",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system instruction missing placeholder %q", want)
		}
	}
}
