package palette

import "github.com/google/uuid"

// curatedFallbacks maps a business category to its hand-picked palette set.
// Some categories carry a single palette; callers that need more variety get
// the generic defaults when the category key is absent. The asymmetry is
// intentional and matches the curated source data.
var curatedFallbacks = map[string][]Palette{
	"Food & Beverage": {
		{
			Name:        "Warm Appetite",
			Description: "Warm, inviting colors that stimulate appetite",
			Psychology:  "Red and orange stimulate hunger, while earth tones create comfort",
			Colors: []Color{
				{Hex: "#D4380D", Name: "Tomato Red", Usage: "Primary"},
				{Hex: "#FA8C16", Name: "Orange Zest", Usage: "Secondary"},
				{Hex: "#FADB14", Name: "Golden Yellow", Usage: "Accent"},
				{Hex: "#F5F0E6", Name: "Cream", Usage: "Background"},
				{Hex: "#3D3D3D", Name: "Espresso", Usage: "Text"},
			},
		},
	},
	"Technology": {
		{
			Name:        "Digital Trust",
			Description: "Modern, trustworthy tech palette",
			Psychology:  "Blue conveys trust and reliability, common in tech branding",
			Colors: []Color{
				{Hex: "#1890FF", Name: "Tech Blue", Usage: "Primary"},
				{Hex: "#13C2C2", Name: "Cyan", Usage: "Secondary"},
				{Hex: "#722ED1", Name: "Purple", Usage: "Accent"},
				{Hex: "#F0F5FF", Name: "Ice White", Usage: "Background"},
				{Hex: "#262626", Name: "Charcoal", Usage: "Text"},
			},
		},
	},
}

// defaultFallbacks is the generic 5-entry set served for any category
// without a curated entry.
var defaultFallbacks = []Palette{
	{
		Name:        "Professional Classic",
		Description: "Timeless professional palette",
		Psychology:  "Blue builds trust, neutral tones provide balance",
		Colors: []Color{
			{Hex: "#2F54EB", Name: "Royal Blue", Usage: "Primary"},
			{Hex: "#597EF7", Name: "Light Blue", Usage: "Secondary"},
			{Hex: "#F5222D", Name: "Action Red", Usage: "Accent"},
			{Hex: "#FAFAFA", Name: "Off White", Usage: "Background"},
			{Hex: "#1F1F1F", Name: "Near Black", Usage: "Text"},
		},
	},
	{
		Name:        "Modern Minimal",
		Description: "Clean, contemporary design",
		Psychology:  "Monochrome with accent creates sophisticated modern feel",
		Colors: []Color{
			{Hex: "#000000", Name: "Pure Black", Usage: "Primary"},
			{Hex: "#595959", Name: "Gray", Usage: "Secondary"},
			{Hex: "#EB2F96", Name: "Magenta", Usage: "Accent"},
			{Hex: "#FFFFFF", Name: "White", Usage: "Background"},
			{Hex: "#262626", Name: "Dark Gray", Usage: "Text"},
		},
	},
	{
		Name:        "Nature Inspired",
		Description: "Organic, earthy tones",
		Psychology:  "Green represents growth and harmony, connecting to nature",
		Colors: []Color{
			{Hex: "#52C41A", Name: "Fresh Green", Usage: "Primary"},
			{Hex: "#389E0D", Name: "Forest", Usage: "Secondary"},
			{Hex: "#FAAD14", Name: "Sunflower", Usage: "Accent"},
			{Hex: "#F6FFED", Name: "Mint Cream", Usage: "Background"},
			{Hex: "#135200", Name: "Deep Green", Usage: "Text"},
		},
	},
	{
		Name:        "Warm Sunset",
		Description: "Energetic and inviting",
		Psychology:  "Warm colors evoke energy, passion, and friendliness",
		Colors: []Color{
			{Hex: "#FA541C", Name: "Sunset Orange", Usage: "Primary"},
			{Hex: "#FAAD14", Name: "Gold", Usage: "Secondary"},
			{Hex: "#F5222D", Name: "Coral Red", Usage: "Accent"},
			{Hex: "#FFF7E6", Name: "Warm White", Usage: "Background"},
			{Hex: "#AD2102", Name: "Deep Orange", Usage: "Text"},
		},
	},
	{
		Name:        "Cool Ocean",
		Description: "Calm and refreshing",
		Psychology:  "Cool tones promote relaxation and trust",
		Colors: []Color{
			{Hex: "#1890FF", Name: "Ocean Blue", Usage: "Primary"},
			{Hex: "#13C2C2", Name: "Teal", Usage: "Secondary"},
			{Hex: "#722ED1", Name: "Purple Accent", Usage: "Accent"},
			{Hex: "#E6F7FF", Name: "Sky White", Usage: "Background"},
			{Hex: "#003A8C", Name: "Deep Blue", Usage: "Text"},
		},
	},
}

// Fallback returns the curated palette list for an exactly matching
// category, or the generic 5-entry default set otherwise. The result is
// always non-empty and every palette carries a freshly generated ID, so
// callers may hand the slice out without further copying.
func Fallback(category string) []Palette {
	src, ok := curatedFallbacks[category]
	if !ok {
		src = defaultFallbacks
	}

	out := make([]Palette, len(src))
	for i, p := range src {
		p.ID = uuid.NewString()
		p.Colors = append([]Color(nil), p.Colors...)
		out[i] = p
	}
	return out
}
