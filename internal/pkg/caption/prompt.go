package caption

import (
	"fmt"
	"strings"

	"github.com/vitrinepost/vitrinepost/internal/pkg/marketing"
)

// Options are the per-request variables of the user instruction.
type Options struct {
	ProductName   string
	Format        string
	Tone          string
	TemplateName  string
	TemplateStyle string
	CustomPrompt  string
}

// BuildSystemPrompt encodes the marketing context and the fixed authoring
// rules. The output is deterministic for a given context.
func BuildSystemPrompt(mc marketing.Context) string {
	var b strings.Builder

	b.WriteString("Você é um redator publicitário especialista em varejo brasileiro e redes sociais.\n")
	b.WriteString("Escreva legendas para Instagram em português do Brasil para um lojista divulgar um produto.\n\n")

	b.WriteString("## Fábrica\n")
	fmt.Fprintf(&b, "- Nome: %s\n", mc.Factory.Name)
	fmt.Fprintf(&b, "- Nicho: %s\n", mc.Factory.Niche)
	fmt.Fprintf(&b, "- Diferenciais: %s\n", mc.Factory.Differentiators)
	fmt.Fprintf(&b, "- Tom de voz: %s\n", mc.Factory.BrandVoice)
	fmt.Fprintf(&b, "- Público-alvo: %s\n\n", mc.Factory.TargetAudience)

	b.WriteString("## Loja\n")
	fmt.Fprintf(&b, "- Nome: %s\n", mc.Store.Name)
	fmt.Fprintf(&b, "- Tipo: %s\n", mc.Store.Type)
	fmt.Fprintf(&b, "- Cidade: %s - %s\n", mc.Store.City, mc.Store.State)
	fmt.Fprintf(&b, "- Tom de voz: %s\n", mc.Store.Voice)
	fmt.Fprintf(&b, "- Instagram: %s\n", mc.Store.InstagramHandle)
	fmt.Fprintf(&b, "- WhatsApp: %s\n\n", mc.Store.WhatsApp)

	b.WriteString("## Produto\n")
	fmt.Fprintf(&b, "- Nome: %s\n", mc.Product.Name)
	fmt.Fprintf(&b, "- Descrição: %s\n", mc.Product.Description)
	fmt.Fprintf(&b, "- Categoria: %s\n", mc.Product.CategoryName)
	fmt.Fprintf(&b, "- Benefício principal: %s\n", mc.Product.MainBenefit)
	fmt.Fprintf(&b, "- Especificações técnicas: %s\n\n", mc.Product.TechnicalSpecs)

	b.WriteString("## Regras\n")
	b.WriteString("1. Gere exatamente 3 legendas, uma para cada estilo, nesta ordem:\n")
	b.WriteString("   - \"oferta\": oferta direta, foco em comprar agora;\n")
	b.WriteString("   - \"institucional\": confiança na loja e na fábrica, qualidade e tradição;\n")
	b.WriteString("   - \"escassez\": urgência e estoque limitado.\n")
	b.WriteString("2. Cada legenda deve ter entre 150 e 300 caracteres no campo text.\n")
	b.WriteString("3. Cada legenda deve ter exatamente uma chamada para ação (ex.: chamar no WhatsApp, visitar a loja).\n")
	b.WriteString("4. Use de 2 a 4 emojis por legenda.\n")
	b.WriteString("5. Coloque de 5 a 8 hashtags relevantes no campo hashtags, separadas por espaço.\n")
	b.WriteString("6. Nunca invente preço, desconto ou condição de pagamento que não tenha sido informado.\n")
	b.WriteString("7. Responda somente com JSON válido, sem texto antes ou depois, no formato:\n")
	b.WriteString(`{"captions":[{"style":"oferta","text":"...","hashtags":"#..."},{"style":"institucional","text":"...","hashtags":"#..."},{"style":"escassez","text":"...","hashtags":"#..."}]}`)
	b.WriteString("\n")

	return b.String()
}

// BuildUserPrompt carries the per-request variables.
func BuildUserPrompt(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crie as 3 legendas para o produto \"%s\".\n", opts.ProductName)

	if opts.Format == "story" {
		b.WriteString("Formato: story vertical. Textos mais curtos e diretos, próximos de 150 caracteres.\n")
	} else {
		b.WriteString("Formato: post de feed quadrado.\n")
	}
	if tone := strings.TrimSpace(opts.Tone); tone != "" {
		fmt.Fprintf(&b, "Tom desejado para esta postagem: %s.\n", tone)
	}
	if name := strings.TrimSpace(opts.TemplateName); name != "" {
		fmt.Fprintf(&b, "Template visual escolhido: %s", name)
		if style := strings.TrimSpace(opts.TemplateStyle); style != "" {
			fmt.Fprintf(&b, " (estilo: %s)", style)
		}
		b.WriteString(".\n")
	}
	if custom := strings.TrimSpace(opts.CustomPrompt); custom != "" {
		fmt.Fprintf(&b, "Instrução adicional do lojista: %s\n", custom)
	}
	return b.String()
}
