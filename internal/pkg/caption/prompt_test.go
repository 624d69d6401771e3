package caption

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPromptCarriesContextAndRules(t *testing.T) {
	mc := testContext()
	mc.Factory.Name = "Luz Forte"
	mc.Store.Name = "Auto Center Silva"

	p := BuildSystemPrompt(mc)
	assert.Contains(t, p, "Luz Forte")
	assert.Contains(t, p, "Auto Center Silva")
	assert.Contains(t, p, "Farol LED H7")
	assert.Contains(t, p, "não informado")
	assert.Contains(t, p, "150 e 300 caracteres")
	assert.Contains(t, p, "5 a 8 hashtags")
	assert.Contains(t, p, "2 a 4 emojis")
	assert.Contains(t, p, "Nunca invente preço")
	assert.Contains(t, p, `{"captions":[`)
	for _, s := range Styles {
		assert.Contains(t, p, `"`+string(s)+`"`)
	}
	assert.Equal(t, p, BuildSystemPrompt(mc))
}

func TestBuildUserPromptOptionalParts(t *testing.T) {
	bare := BuildUserPrompt(Options{ProductName: "Farol LED H7", Format: "feed"})
	assert.Contains(t, bare, "Farol LED H7")
	assert.Contains(t, bare, "feed")
	assert.NotContains(t, bare, "Tom desejado")
	assert.NotContains(t, bare, "Template")
	assert.NotContains(t, bare, "Instrução adicional")

	full := BuildUserPrompt(Options{
		ProductName:   "Farol LED H7",
		Format:        "story",
		Tone:          "divertido",
		TemplateName:  "Destaque Promo",
		TemplateStyle: "promo_highlight",
		CustomPrompt:  "mencionar instalação grátis",
	})
	assert.Contains(t, full, "story")
	assert.Contains(t, full, "mais curtos")
	assert.Contains(t, full, "divertido")
	assert.Contains(t, full, "Destaque Promo (estilo: promo_highlight)")
	assert.Contains(t, full, "mencionar instalação grátis")
}
