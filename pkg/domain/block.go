package domain

import (
	"encoding/json"
	"fmt"
)

// Component tags identify block kinds as authored in the CMS. The tag set is
// closed on the client side; anything else decodes to UnknownBlock.
const (
	KindHero             = "blocks.hero-section"
	KindSectionHeading   = "blocks.section-heading"
	KindCardGrid         = "blocks.card-grid"
	KindContentWithImage = "blocks.content-with-image"
	KindMarkdown         = "blocks.markdown"
	KindFAQ              = "blocks.faqs"
)

// Block is one renderable unit of CMS-authored page content.
// Blocks are read-only: they are decoded fresh on every fetch and never
// mutated afterwards. The numeric id is only used for render-key stability
// and may repeat across a page.
type Block interface {
	Kind() string
	BlockID() int
}

// Link is a call-to-action reference inside a block.
type Link struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Href     string `json:"href"`
	External bool   `json:"isExternal"`
}

// Image is a media reference. URL may arrive relative to the CMS host and is
// resolved by the fetch layer before blocks are handed to consumers.
type Image struct {
	ID              int    `json:"id"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText"`
}

// HeroSection is the page-opening banner block.
type HeroSection struct {
	ID         int    `json:"id"`
	Heading    string `json:"heading"`
	SubHeading string `json:"subHeading"`
	Image      Image  `json:"image"`
	Links      []Link `json:"links"`
}

func (b HeroSection) Kind() string { return KindHero }
func (b HeroSection) BlockID() int { return b.ID }

// SectionHeading introduces a page section.
type SectionHeading struct {
	ID         int    `json:"id"`
	SubHeading string `json:"subHeading"`
	Heading    string `json:"heading"`
	Text       string `json:"text"`
}

func (b SectionHeading) Kind() string { return KindSectionHeading }
func (b SectionHeading) BlockID() int { return b.ID }

// Card is one entry of a CardGrid.
type Card struct {
	ID      int    `json:"id"`
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// CardGrid is a uniform grid of short feature cards.
type CardGrid struct {
	ID    int    `json:"id"`
	Cards []Card `json:"cards"`
}

func (b CardGrid) Kind() string { return KindCardGrid }
func (b CardGrid) BlockID() int { return b.ID }

// ContentWithImage pairs prose with a side image. Reversed flips the layout.
type ContentWithImage struct {
	ID       int    `json:"id"`
	Reversed bool   `json:"reversed"`
	Heading  string `json:"heading"`
	Content  string `json:"content"`
	Image    Image  `json:"image"`
	Link     *Link  `json:"link,omitempty"`
}

func (b ContentWithImage) Kind() string { return KindContentWithImage }
func (b ContentWithImage) BlockID() int { return b.ID }

// MarkdownBlock is free-form markdown prose.
type MarkdownBlock struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

func (b MarkdownBlock) Kind() string { return KindMarkdown }
func (b MarkdownBlock) BlockID() int { return b.ID }

// FAQ is one question/answer pair. Answers are markdown.
type FAQ struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQGroup is an ordered list of FAQ entries.
type FAQGroup struct {
	ID   int   `json:"id"`
	FAQs []FAQ `json:"faqs"`
}

func (b FAQGroup) Kind() string { return KindFAQ }
func (b FAQGroup) BlockID() int { return b.ID }

// UnknownBlock preserves a block whose component tag has no client-side type.
// It keeps the raw fields so nothing authored in the CMS is silently lost;
// renderers surface it as a visible placeholder instead of failing the page.
type UnknownBlock struct {
	Component string
	ID        int
	Fields    map[string]any
}

func (b UnknownBlock) Kind() string { return b.Component }
func (b UnknownBlock) BlockID() int { return b.ID }

// Blocks is an ordered block sequence. Order is render order.
//
// It implements json.Marshaler/Unmarshaler so that a block sequence survives
// a JSON round-trip (wire envelope decode as well as cache storage): each
// element is tagged with its "__component" discriminant on the way out and
// dispatched on it on the way in.
type Blocks []Block

const componentField = "__component"

func (bs Blocks) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(bs))
	for _, b := range bs {
		var fields map[string]any
		if u, ok := b.(UnknownBlock); ok {
			fields = make(map[string]any, len(u.Fields)+1)
			for k, v := range u.Fields {
				fields[k] = v
			}
		} else {
			data, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("marshal block %q: %w", b.Kind(), err)
			}
			if err := json.Unmarshal(data, &fields); err != nil {
				return nil, fmt.Errorf("remap block %q: %w", b.Kind(), err)
			}
		}
		fields[componentField] = b.Kind()
		out = append(out, fields)
	}
	return json.Marshal(out)
}

func (bs *Blocks) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	blocks := make(Blocks, 0, len(raw))
	for i, item := range raw {
		var tagged struct {
			Component string `json:"__component"`
		}
		if err := json.Unmarshal(item, &tagged); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		b, err := decodeBlock(tagged.Component, item)
		if err != nil {
			return fmt.Errorf("block %d (%s): %w", i, tagged.Component, err)
		}
		blocks = append(blocks, b)
	}
	*bs = blocks
	return nil
}

// decodeBlock dispatches on the component tag. Unrecognized tags never fail:
// they decode to UnknownBlock so backend-authored content that postdates this
// client still round-trips and renders as a placeholder.
func decodeBlock(tag string, data []byte) (Block, error) {
	switch tag {
	case KindHero:
		var b HeroSection
		return b, json.Unmarshal(data, &b)
	case KindSectionHeading:
		var b SectionHeading
		return b, json.Unmarshal(data, &b)
	case KindCardGrid:
		var b CardGrid
		return b, json.Unmarshal(data, &b)
	case KindContentWithImage:
		var b ContentWithImage
		return b, json.Unmarshal(data, &b)
	case KindMarkdown:
		var b MarkdownBlock
		return b, json.Unmarshal(data, &b)
	case KindFAQ:
		var b FAQGroup
		return b, json.Unmarshal(data, &b)
	default:
		u := UnknownBlock{Component: tag}
		if err := json.Unmarshal(data, &u.Fields); err != nil {
			return nil, err
		}
		delete(u.Fields, componentField)
		if id, ok := u.Fields["id"].(float64); ok {
			u.ID = int(id)
		}
		return u, nil
	}
}
