package model

import (
	"errors"
	"regexp"
)

// ErrInvalidColor is returned for a brand color that is not a #RRGGBB hex value
var ErrInvalidColor = errors.New("color must be a #RRGGBB hex value")

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidHexColor reports whether s is a #RRGGBB color
func ValidHexColor(s string) bool { return hexColor.MatchString(s) }

// Palette categories
const (
	PaletteTraditional = "traditional"
	PaletteModern      = "modern"
	PaletteLuxury      = "luxury"
	PaletteFriendly    = "friendly"
)

// PaletteCategories lists the categories in display order
var PaletteCategories = []string{PaletteTraditional, PaletteModern, PaletteLuxury, PaletteFriendly}

// Palette is a curated set of brand colors
type Palette struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Primary    string `json:"primary"`
	Secondary1 string `json:"secondary1"`
	Secondary2 string `json:"secondary2"`
}

// Patch is the profile update that applies the palette
func (p Palette) Patch() ProfilePatch {
	primary, s1, s2 := p.Primary, p.Secondary1, p.Secondary2
	return ProfilePatch{PrimaryColor: &primary, SecondaryColor1: &s1, SecondaryColor2: &s2}
}

var palettes = []Palette{
	{ID: "saudi-heritage", Name: "الوطني التقليدي", Category: PaletteTraditional, Primary: "#006C35", Secondary1: "#DAA520", Secondary2: "#F9FAFB"},
	{ID: "diriyah", Name: "رقي الدرعية", Category: PaletteTraditional, Primary: "#0A4D3C", Secondary1: "#BFAF80", Secondary2: "#FFFFFF"},
	{ID: "smart-future", Name: "المستقبل الذكي", Category: PaletteModern, Primary: "#6366F1", Secondary1: "#A855F7", Secondary2: "#F43F5E"},
	{ID: "tech-pro", Name: "تقني احترافي", Category: PaletteModern, Primary: "#0F172A", Secondary1: "#3B82F6", Secondary2: "#10B981"},
	{ID: "modern-neon", Name: "نيون عصري", Category: PaletteModern, Primary: "#2563EB", Secondary1: "#7C3AED", Secondary2: "#DB2777"},
	{ID: "black-luxury", Name: "فخامة سوداء", Category: PaletteLuxury, Primary: "#1C1917", Secondary1: "#D4AF37", Secondary2: "#78716C"},
	{ID: "haute-fashion", Name: "أزياء راقية", Category: PaletteLuxury, Primary: "#4C1D95", Secondary1: "#F472B6", Secondary2: "#EDE9FE"},
	{ID: "royal-classic", Name: "ملكي كلاسيك", Category: PaletteLuxury, Primary: "#991B1B", Secondary1: "#FCD34D", Secondary2: "#7F1D1D"},
	{ID: "fresh-nature", Name: "طبيعة نضرة", Category: PaletteFriendly, Primary: "#166534", Secondary1: "#84CC16", Secondary2: "#F7FEE7"},
	{ID: "bright", Name: "حيوي ومشرق", Category: PaletteFriendly, Primary: "#EA580C", Secondary1: "#FACC15", Secondary2: "#FFF7ED"},
	{ID: "sea-breeze", Name: "هواء البحر", Category: PaletteFriendly, Primary: "#0891B2", Secondary1: "#22D3EE", Secondary2: "#ECFEFF"},
	{ID: "purple-creative", Name: "إبداع أرجواني", Category: PaletteFriendly, Primary: "#5B21B6", Secondary1: "#D8B4FE", Secondary2: "#FAF5FF"},
}

// ValidPaletteCategory accepts a known category, "all" or empty
func ValidPaletteCategory(category string) bool {
	if category == "" || category == "all" {
		return true
	}
	for _, c := range PaletteCategories {
		if c == category {
			return true
		}
	}
	return false
}

// PalettesIn returns the palettes of category. "all" or empty returns every palette.
func PalettesIn(category string) []Palette {
	out := make([]Palette, 0, len(palettes))
	for _, p := range palettes {
		if category == "" || category == "all" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FindPalette looks up a palette by id
func FindPalette(id string) (Palette, bool) {
	for _, p := range palettes {
		if p.ID == id {
			return p, true
		}
	}
	return Palette{}, false
}
