// Package artwork builds the image instruction for a post and requests the render.
package artwork

import (
	"fmt"
	"strings"

	"github.com/vitrinepost/vitrinepost/internal/pkg/marketing"
)

const (
	SizeFeed  = "1024x1024"
	SizeStory = "1024x1792"
)

// SizeFor returns the render resolution for a post format.
func SizeFor(format string) string {
	if format == "story" {
		return SizeStory
	}
	return SizeFeed
}

const defaultStyle = "clean studio product photography, soft even lighting, neutral seamless background, sharp focus on the product"

var layoutStyles = map[string]string{
	"promo_highlight":  "vibrant background in brand primary color, dramatic lighting, space reserved for price text",
	"minimal_clean":    "minimalist composition, generous white space, soft shadows, calm premium feel",
	"lifestyle":        "product in a realistic everyday scene, natural light, people using it in context, warm tones",
	"product_showcase": "hero shot of the product centered on a podium, rim lighting, subtle reflections, high detail",
	"bold_typography":  "strong geometric shapes and color blocks, high contrast, large empty area reserved for headline text",
	"seasonal":         "festive seasonal decoration around the product, celebratory mood, bokeh lights",
}

// LayoutStyle returns the visual-style fragment for a template layout. Unknown
// or empty layouts get the neutral studio fragment.
func LayoutStyle(layout string) string {
	if s, ok := layoutStyles[strings.ToLower(strings.TrimSpace(layout))]; ok {
		return s
	}
	return defaultStyle
}

// Request holds everything the image instruction depends on.
type Request struct {
	Format  string
	Layout  string
	Context marketing.Context
}

// BuildPrompt concatenates the format preamble, the product, the layout style,
// the brand colors and the optional watermark into one instruction.
func BuildPrompt(r Request) string {
	mc := r.Context
	parts := make([]string, 0, 7)

	if r.Format == "story" {
		parts = append(parts, "Vertical 9:16 Instagram story advertisement image.")
	} else {
		parts = append(parts, "Square 1:1 Instagram feed advertisement image.")
	}

	product := fmt.Sprintf("Product: %s.", mc.Product.Name)
	if mc.Product.Description != marketing.DefaultDescription {
		product += fmt.Sprintf(" Description: %s.", mc.Product.Description)
	}
	if mc.Product.CategoryName != marketing.DefaultCategory {
		product += fmt.Sprintf(" Category: %s.", mc.Product.CategoryName)
	}
	parts = append(parts, product)

	parts = append(parts, "Visual style: "+LayoutStyle(r.Layout)+".")
	parts = append(parts, fmt.Sprintf("Use the brand colors %s (primary) and %s (secondary) in the composition.",
		mc.Store.PrimaryColor, mc.Store.SecondaryColor))

	if mc.Store.Watermark {
		parts = append(parts, fmt.Sprintf("Add a small, subtle watermark with the store name \"%s\" in a bottom corner.", mc.Store.Name))
	}
	parts = append(parts, "Do not render any other text, prices or logos. Photorealistic, high quality, commercial look.")

	return strings.Join(parts, " ")
}
