// Package caption writes the three caption variants of a post.
package caption

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

type Style string

const (
	StyleOferta        Style = "oferta"
	StyleInstitucional Style = "institucional"
	StyleEscassez      Style = "escassez"
)

// Styles lists the commercial angles in the order variants are returned.
var Styles = []Style{StyleOferta, StyleInstitucional, StyleEscassez}

func (s Style) Valid() bool {
	return s == StyleOferta || s == StyleInstitucional || s == StyleEscassez
}

// Variant is one caption written from a single commercial angle.
type Variant struct {
	Style    Style  `json:"style"`
	Text     string `json:"text"`
	Hashtags string `json:"hashtags"`
}

// Tier names the parsing strategy that produced a result.
type Tier string

const (
	TierStrict    Tier = "strict"
	TierExtracted Tier = "extracted"
	TierFallback  Tier = "fallback"
)

// ParseResult holds the variants recovered from a raw completion.
type ParseResult struct {
	Variants []Variant
	Tier     Tier
}

// ErrUnusableResponse is returned when nothing can be recovered from the completion.
var ErrUnusableResponse = errors.New("caption response is empty or unusable")

// minFallbackLength is the shortest raw text worth wrapping as a caption.
const minFallbackLength = 10

var captionsObject = regexp.MustCompile(`(?s)\{.*"captions".*\}`)

// ParseVariants recovers caption variants from raw model output. It tries a
// strict JSON parse, then the JSON object embedded in surrounding prose, then
// wraps the raw text as a single oferta variant.
func ParseVariants(raw string) (ParseResult, error) {
	trimmed := strings.TrimSpace(raw)

	variants, err := decodeVariants(trimmed)
	if err == nil {
		log.Debugf("[Caption] Parsed %d variants (tier=%s)", len(variants), TierStrict)
		return ParseResult{Variants: variants, Tier: TierStrict}, nil
	}
	log.Infof("[Caption] Strict parse failed: %v", err)

	if captionsObject.MatchString(trimmed) {
		variants, err = extractVariants(trimmed)
		if err == nil {
			log.Infof("[Caption] Recovered %d variants from embedded JSON (tier=%s)", len(variants), TierExtracted)
			return ParseResult{Variants: variants, Tier: TierExtracted}, nil
		}
		log.Infof("[Caption] Embedded JSON parse failed: %v", err)
	}

	if len([]rune(trimmed)) > minFallbackLength {
		log.Warnf("[Caption] Falling back to raw text as single variant (tier=%s, %d chars)", TierFallback, len(trimmed))
		return ParseResult{
			Variants: []Variant{{Style: StyleOferta, Text: trimmed}},
			Tier:     TierFallback,
		}, nil
	}

	log.Errorf("[Caption] Unusable response: %q", trimmed)
	return ParseResult{}, ErrUnusableResponse
}

type captionEnvelope struct {
	Captions []rawVariant `json:"captions"`
}

type rawVariant struct {
	Style    string   `json:"style"`
	Text     string   `json:"text"`
	Hashtags hashtags `json:"hashtags"`
}

// hashtags accepts either "#a #b" or ["#a", "#b"].
type hashtags string

func (h *hashtags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*h = ""
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		tags := make([]string, 0, len(list))
		for _, t := range list {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		*h = hashtags(strings.Join(tags, " "))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*h = hashtags(strings.TrimSpace(s))
	return nil
}

var errTooFewVariants = errors.New("fewer than three usable captions")

// decodeVariants accepts a captions envelope with at least three non-empty
// texts.
func decodeVariants(s string) ([]Variant, error) {
	var env captionEnvelope
	if err := json.Unmarshal([]byte(s), &env); err != nil {
		return nil, err
	}
	return env.variants()
}

// extractVariants tries every '{' in s as the start of a captions object. The
// decoder stops at the end of the first complete value, so braces in the
// surrounding prose do not spoil an otherwise valid object.
func extractVariants(s string) ([]Variant, error) {
	lastErr := errors.New("no captions object found")
	for i := strings.IndexByte(s, '{'); i >= 0; {
		var env captionEnvelope
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&env); err != nil {
			lastErr = err
		} else if variants, err := env.variants(); err != nil {
			lastErr = err
		} else {
			return variants, nil
		}
		next := strings.IndexByte(s[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, lastErr
}

// variants keeps the first three non-empty captions and repairs their styles.
func (env captionEnvelope) variants() ([]Variant, error) {
	out := make([]Variant, 0, len(Styles))
	for _, rv := range env.Captions {
		text := strings.TrimSpace(rv.Text)
		if text == "" {
			continue
		}
		out = append(out, Variant{Style: Style(strings.ToLower(strings.TrimSpace(rv.Style))), Text: text, Hashtags: string(rv.Hashtags)})
		if len(out) == len(Styles) {
			break
		}
	}
	if len(out) < len(Styles) {
		return nil, errTooFewVariants
	}
	repairStyles(out)
	return out, nil
}

// repairStyles replaces unknown or repeated styles with the styles not yet
// used, in enum order, so the three variants always cover the whole enum.
func repairStyles(vs []Variant) {
	used := make(map[Style]bool, len(Styles))
	var broken []int
	for i, v := range vs {
		if v.Style.Valid() && !used[v.Style] {
			used[v.Style] = true
			continue
		}
		broken = append(broken, i)
	}
	for _, style := range Styles {
		if len(broken) == 0 {
			return
		}
		if !used[style] {
			vs[broken[0]].Style = style
			used[style] = true
			broken = broken[1:]
		}
	}
}

// MainCaption is the single caption shown by default: the first variant's
// text followed by a blank line and its hashtags when present.
func MainCaption(variants []Variant) string {
	if len(variants) == 0 {
		return ""
	}
	v := variants[0]
	if strings.TrimSpace(v.Hashtags) == "" {
		return v.Text
	}
	return v.Text + "\n\n" + v.Hashtags
}
