package palette

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Extract locates and parses palette data embedded in unstructured model
// output. Attempts are ordered and the first parseable one wins:
//
//  1. the widest bracket-delimited substring (first '[' to last ']') parsed
//     as a JSON array of palette objects,
//  2. the widest brace-delimited substring (first '{' to last '}') that
//     contains a "palettes" key, reading that key's array.
//
// Malformed JSON is swallowed, never propagated; when nothing parses the
// result is empty and the caller is expected to fall back to the curated
// catalog. Every extracted palette receives a freshly generated ID.
func Extract(raw string) []Palette {
	if candidate, ok := clip(raw, '[', ']'); ok && gjson.Valid(candidate) {
		if arr := gjson.Parse(candidate); arr.IsArray() {
			return normalizeAll(arr.Array())
		}
	}

	if candidate, ok := clip(raw, '{', '}'); ok && strings.Contains(candidate, `"palettes"`) && gjson.Valid(candidate) {
		if arr := gjson.Get(candidate, "palettes"); arr.IsArray() {
			return normalizeAll(arr.Array())
		}
	}

	return nil
}

// clip returns the substring from the first occurrence of open to the last
// occurrence of close, inclusive.
func clip(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func normalizeAll(items []gjson.Result) []Palette {
	palettes := make([]Palette, 0, len(items))
	for _, item := range items {
		palettes = append(palettes, normalizePalette(item))
	}
	return palettes
}

// normalizePalette fills defaults for any field the model omitted or
// mangled. IDs from the model are ignored.
func normalizePalette(item gjson.Result) Palette {
	p := Palette{
		ID:          uuid.NewString(),
		Name:        stringOr(item.Get("name"), "Palette"),
		Description: item.Get("description").String(),
		Psychology:  item.Get("psychology").String(),
		Colors:      []Color{},
	}

	colors := item.Get("colors")
	if !colors.IsArray() {
		return p
	}
	for _, c := range colors.Array() {
		p.Colors = append(p.Colors, Color{
			Hex:   stringOr(c.Get("hex"), "#000000"),
			Name:  stringOr(c.Get("name"), "Unknown"),
			Usage: stringOr(c.Get("usage"), "General"),
		})
	}
	return p
}

func stringOr(r gjson.Result, def string) string {
	if s := r.String(); s != "" {
		return s
	}
	return def
}
