// Package palette contains the branding domain model: color palettes, the
// prompt templates sent to the AI provider, the best-effort extractor that
// turns free-text model output into structured palettes, and the curated
// fallback catalog served when live generation fails.
package palette

// Color is a single palette entry. Hex is expected in "#RRGGBB" form but is
// not validated; the upstream model is trusted only loosely.
type Color struct {
	Hex   string `json:"hex"`
	Name  string `json:"name"`
	Usage string `json:"usage"`
}

// Palette is an immutable set of colors with supporting copy. ID is always
// generated server-side, never taken from model output.
type Palette struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Colors      []Color `json:"colors"`
	Psychology  string  `json:"psychology"`
}

// BrandingRequest is the input contract for palette generation.
// BrandValues and Competitors are optional and omitted from the prompt when
// empty rather than interpolated as empty strings.
type BrandingRequest struct {
	BusinessName     string   `json:"business_name"     validate:"required"`
	BusinessCategory string   `json:"business_category" validate:"required"`
	TargetCountry    string   `json:"target_country"    validate:"required"`
	AgeGroups        []string `json:"age_groups"        validate:"required,min=1"`
	TargetGender     string   `json:"target_gender"     validate:"required"`
	BrandValues      string   `json:"brand_values"`
	Competitors      string   `json:"competitors"`
}

// BusinessInfo carries the subset of branding context echoed into the
// refinement system instruction. All fields are optional; the prompt
// substitutes generic placeholders for missing values.
type BusinessInfo struct {
	BusinessName     string   `json:"business_name"`
	BusinessCategory string   `json:"business_category"`
	TargetCountry    string   `json:"target_country"`
	AgeGroups        []string `json:"age_groups"`
	TargetGender     string   `json:"target_gender"`
}

// ChatContext is prior conversation state passed opaquely into the
// refinement prompt. It is serialized, never validated or mutated.
type ChatContext struct {
	Palettes     []Palette    `json:"palettes"`
	BusinessInfo BusinessInfo `json:"business_info"`
}
