package scryfall

import (
	"sort"
	"strings"
)

// Card is the subset of a Scryfall card record the engine reads. The
// cache persists the remote JSON verbatim; this struct is a tolerant
// view over it, with every field optional and defaulted when absent.
type Card struct {
	Name       string            `json:"name"`
	ManaCost   string            `json:"mana_cost"`
	CMC        float64           `json:"cmc"`
	TypeLine   string            `json:"type_line"`
	OracleText string            `json:"oracle_text"`
	Power      string            `json:"power,omitempty"`
	Toughness  string            `json:"toughness,omitempty"`
	ImageURIs  map[string]string `json:"image_uris,omitempty"`
	CardFaces  []CardFace        `json:"card_faces,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string            `json:"name"`
	ManaCost   string            `json:"mana_cost"`
	TypeLine   string            `json:"type_line"`
	OracleText string            `json:"oracle_text"`
	ImageURIs  map[string]string `json:"image_uris,omitempty"`
}

// IsLand reports whether the type line marks the card as a land.
func (c *Card) IsLand() bool {
	return strings.Contains(c.TypeLine, "Land")
}

// ImageURL picks the best available image URL: large, then normal, then
// png, then any. Multi-faced cards fall back to the first face that
// exposes an image. Returns "" when no image is available.
func (c *Card) ImageURL() string {
	if url := pickImageURI(c.ImageURIs); url != "" {
		return url
	}
	for _, face := range c.CardFaces {
		if url := pickImageURI(face.ImageURIs); url != "" {
			return url
		}
	}
	return ""
}

func pickImageURI(uris map[string]string) string {
	if len(uris) == 0 {
		return ""
	}
	for _, variant := range []string{"large", "normal", "png"} {
		if url := uris[variant]; url != "" {
			return url
		}
	}
	// Any remaining variant, in sorted key order for determinism.
	keys := make([]string, 0, len(uris))
	for k := range uris {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if uris[k] != "" {
			return uris[k]
		}
	}
	return ""
}
