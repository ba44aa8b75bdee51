package models

const MaxPreviewItems = 5

type PreviewItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Published   string `json:"published"`
	Link        string `json:"link"`
}

// Preview é efêmero: recalculado a cada pausa de digitação e nunca persistido.
// Items só vem preenchido para rss; PreviewText só para web.
type Preview struct {
	Type        SourceType    `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Items       []PreviewItem `json:"items,omitempty"`
	PreviewText string        `json:"preview_text,omitempty"`
}

func (p *Preview) VisibleItems() []PreviewItem {
	if len(p.Items) > MaxPreviewItems {
		return p.Items[:MaxPreviewItems]
	}

	return p.Items
}
