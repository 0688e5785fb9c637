package palette

import (
	"encoding/json"
	"fmt"
	"strings"
)

// generationPromptHeader opens the generation prompt. The format string
// expects 2 parameters: business name and business category.
const generationPromptHeader = `Generate 5 professional color palettes for a %s business in the %s industry.

Target Audience:
`

// generationPromptBody closes the generation prompt with the analysis
// criteria and the required output schema. The format string expects 2
// parameters: target country and the joined age-group list.
const generationPromptBody = `
For each palette, provide exactly 5 colors. Consider:
1. Cultural color associations for %s
2. Age-appropriate appeal for %s
3. Gender preferences if applicable
4. Industry standards and competitor differentiation

Return ONLY a JSON array with this exact structure (no other text):
[
  {
    "name": "Palette Name",
    "description": "Brief description",
    "psychology": "Color psychology explanation",
    "colors": [
      {"hex": "#XXXXXX", "name": "Color Name", "usage": "Primary/Secondary/Accent/Background/Text"},
      {"hex": "#XXXXXX", "name": "Color Name", "usage": "Primary/Secondary/Accent/Background/Text"},
      {"hex": "#XXXXXX", "name": "Color Name", "usage": "Primary/Secondary/Accent/Background/Text"},
      {"hex": "#XXXXXX", "name": "Color Name", "usage": "Primary/Secondary/Accent/Background/Text"},
      {"hex": "#XXXXXX", "name": "Color Name", "usage": "Primary/Secondary/Accent/Background/Text"}
    ]
  }
]`

// refinementSystemInstruction is the system-role instruction for the chat
// refinement turn. The format string expects 6 parameters: business name,
// category, country, joined age groups, gender, and the serialized current
// palettes.
const refinementSystemInstruction = `You are a professional color consultant helping refine color palettes for %s.

Business Context:
- Type: %s
- Target Country: %s
- Target Audience: %s %s

Current Palettes:
%s

Provide helpful, concise advice about color choices, psychology, and brand alignment. When suggesting color changes, always include specific hex codes. Format color suggestions clearly.`

// BuildGenerationPrompt renders a branding request into the instruction sent
// to the model as a single user turn. Output is deterministic for a given
// request; optional fields contribute extra lines only when non-empty.
func BuildGenerationPrompt(req BrandingRequest) string {
	ageGroups := strings.Join(req.AgeGroups, ", ")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(generationPromptHeader, req.BusinessName, req.BusinessCategory))
	sb.WriteString(fmt.Sprintf("- Country: %s\n", req.TargetCountry))
	sb.WriteString(fmt.Sprintf("- Age Groups: %s\n", ageGroups))
	sb.WriteString(fmt.Sprintf("- Gender: %s\n", req.TargetGender))
	if req.BrandValues != "" {
		sb.WriteString(fmt.Sprintf("- Brand Values: %s\n", req.BrandValues))
	}
	if req.Competitors != "" {
		sb.WriteString(fmt.Sprintf("- Competitors to differentiate from: %s\n", req.Competitors))
	}
	sb.WriteString(fmt.Sprintf(generationPromptBody, req.TargetCountry, ageGroups))

	return sb.String()
}

// BuildRefinementPrompt renders the conversational refinement instruction.
// The prior palettes and business info are embedded in the system
// instruction; the end-user message passes through unmodified as the user
// turn.
func BuildRefinementPrompt(chatCtx ChatContext, userMessage string) (system, user string) {
	palettesJSON, err := json.MarshalIndent(chatCtx.Palettes, "", "  ")
	if err != nil {
		palettesJSON = []byte("[]")
	}

	info := chatCtx.BusinessInfo
	name := info.BusinessName
	if name == "" {
		name = "a business"
	}
	category := info.BusinessCategory
	if category == "" {
		category = "General"
	}
	country := info.TargetCountry
	if country == "" {
		country = "Global"
	}

	system = fmt.Sprintf(refinementSystemInstruction,
		name,
		category,
		country,
		strings.Join(info.AgeGroups, ", "),
		info.TargetGender,
		string(palettesJSON),
	)

	return system, userMessage
}
