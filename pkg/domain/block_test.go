package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocks_UnmarshalDispatch(t *testing.T) {
	payload := `[
		{"__component": "blocks.hero-section", "id": 1, "heading": "Welcome", "subHeading": "Hi", "links": [{"id": 4, "text": "Start", "href": "/start"}]},
		{"__component": "blocks.markdown", "id": 2, "content": "# Body"},
		{"__component": "blocks.faqs", "id": 3, "faqs": [{"id": 9, "question": "Q?", "answer": "A."}]}
	]`

	var blocks Blocks
	require.NoError(t, json.Unmarshal([]byte(payload), &blocks))
	require.Len(t, blocks, 3)

	hero, ok := blocks[0].(HeroSection)
	require.True(t, ok, "first block should be a HeroSection")
	assert.Equal(t, "Welcome", hero.Heading)
	assert.Equal(t, 1, hero.BlockID())
	require.Len(t, hero.Links, 1)
	assert.Equal(t, "/start", hero.Links[0].Href)

	md, ok := blocks[1].(MarkdownBlock)
	require.True(t, ok)
	assert.Equal(t, "# Body", md.Content)

	faq, ok := blocks[2].(FAQGroup)
	require.True(t, ok)
	require.Len(t, faq.FAQs, 1)
	assert.Equal(t, "Q?", faq.FAQs[0].Question)
}

func TestBlocks_UnknownComponentIsPreserved(t *testing.T) {
	payload := `[{"__component": "blocks.unknown-type", "id": 7, "mystery": "value"}]`

	var blocks Blocks
	require.NoError(t, json.Unmarshal([]byte(payload), &blocks))
	require.Len(t, blocks, 1)

	u, ok := blocks[0].(UnknownBlock)
	require.True(t, ok, "unrecognized tags must decode to UnknownBlock, not fail")
	assert.Equal(t, "blocks.unknown-type", u.Kind())
	assert.Equal(t, 7, u.BlockID())
	assert.Equal(t, "value", u.Fields["mystery"])
}

func TestBlocks_RoundTripPreservesOrderAndKinds(t *testing.T) {
	original := Blocks{
		SectionHeading{ID: 1, Heading: "First"},
		CardGrid{ID: 2, Cards: []Card{{ID: 5, Heading: "Fast", Text: "Very"}}},
		UnknownBlock{Component: "blocks.video-embed", ID: 3, Fields: map[string]any{"id": float64(3), "url": "https://example.com/v"}},
		ContentWithImage{ID: 4, Reversed: true, Heading: "Pair", Content: "text", Link: &Link{ID: 8, Text: "More", Href: "/more"}},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Blocks
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, len(original))

	for i := range original {
		assert.Equal(t, original[i].Kind(), decoded[i].Kind(), "kind at %d", i)
		assert.Equal(t, original[i].BlockID(), decoded[i].BlockID(), "id at %d", i)
	}

	cwi, ok := decoded[3].(ContentWithImage)
	require.True(t, ok)
	assert.True(t, cwi.Reversed)
	require.NotNil(t, cwi.Link)
	assert.Equal(t, "/more", cwi.Link.Href)
}

func TestBlocks_EmptySequence(t *testing.T) {
	var blocks Blocks
	require.NoError(t, json.Unmarshal([]byte(`[]`), &blocks))
	assert.Empty(t, blocks)
}

func TestPagination_HasNext(t *testing.T) {
	assert.True(t, Pagination{Page: 1, PageCount: 3}.HasNext())
	assert.True(t, Pagination{Page: 2, PageCount: 3}.HasNext())
	assert.False(t, Pagination{Page: 3, PageCount: 3}.HasNext())
	assert.False(t, Pagination{Page: 1, PageCount: 1}.HasNext())
}
