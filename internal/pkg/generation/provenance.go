package generation

import (
	"encoding/json"

	"github.com/vitrinepost/vitrinepost/internal/pkg/assets"
	"github.com/vitrinepost/vitrinepost/internal/pkg/caption"
	"gorm.io/datatypes"
)

type TemplateInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

type ModelInfo struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// Provenance is stored in generations.fields_data.
type Provenance struct {
	Format         string            `json:"format"`
	Tone           string            `json:"tone,omitempty"`
	CustomPrompt   string            `json:"custom_prompt,omitempty"`
	Template       *TemplateInfo     `json:"template,omitempty"`
	Captions       []caption.Variant `json:"captions"`
	CaptionTier    caption.Tier      `json:"caption_tier"`
	ImagePrompt    string            `json:"image_prompt"`
	RevisedPrompt  string            `json:"revised_prompt,omitempty"`
	Models         ModelInfo         `json:"models"`
	ContextVersion string            `json:"context_version"`
	Asset          assets.Asset      `json:"asset"`
}

func (p Provenance) JSON() (datatypes.JSON, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeProvenance reads fields_data back. Empty input yields a zero value.
func DecodeProvenance(raw datatypes.JSON) (Provenance, error) {
	var p Provenance
	if len(raw) == 0 {
		return p, nil
	}
	err := json.Unmarshal(raw, &p)
	return p, err
}
