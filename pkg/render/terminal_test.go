package render_test

import (
	"io"
	"testing"

	"github.com/muesli/termenv"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal() *render.Terminal {
	// Ascii profile keeps assertions free of escape sequences.
	out := termenv.NewOutput(io.Discard, termenv.WithProfile(termenv.Ascii))
	return render.NewTerminal(render.WithOutput(out))
}

func TestTerminal_RendersAllKnownKinds(t *testing.T) {
	term := newTestTerminal()

	blocks := []domain.Block{
		domain.HeroSection{ID: 1, Heading: "Hero heading", SubHeading: "sub", Links: []domain.Link{{Text: "Go", Href: "/go"}}},
		domain.SectionHeading{ID: 2, SubHeading: "why", Heading: "Section heading", Text: "some text"},
		domain.CardGrid{ID: 3, Cards: []domain.Card{{Heading: "Card A", Text: "a"}, {Heading: "Card B", Text: "b"}}},
		domain.ContentWithImage{ID: 4, Heading: "Pairing", Content: "*prose*", Image: domain.Image{URL: "https://cms/x.png"}},
		domain.MarkdownBlock{ID: 5, Content: "# Title"},
		domain.FAQGroup{ID: 6, FAQs: []domain.FAQ{{Question: "Why?", Answer: "Because."}}},
	}

	units, err := term.Render(blocks)
	require.NoError(t, err)
	require.Len(t, units, len(blocks))

	assert.Contains(t, units[0], "Hero heading")
	assert.Contains(t, units[0], "/go")
	assert.Contains(t, units[1], "Section heading")
	assert.Contains(t, units[2], "Card A")
	assert.Contains(t, units[2], "Card B")
	assert.Contains(t, units[3], "https://cms/x.png")
	assert.Contains(t, units[4], "Title")
	assert.Contains(t, units[5], "Why?")
}

func TestTerminal_UnknownKindStillPlaceholders(t *testing.T) {
	term := newTestTerminal()

	units, err := term.Render([]domain.Block{
		domain.UnknownBlock{Component: "blocks.video-embed", ID: 9},
	})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Contains(t, units[0], "blocks.video-embed")
}

func TestTerminal_Article(t *testing.T) {
	term := newTestTerminal()

	out, err := term.Article(&domain.Article{
		Title:       "A deep dive",
		Description: "All the details",
		Author:      &domain.Author{Name: "Sam"},
		Tags:        []domain.Tag{{Title: "go"}, {Title: "cms"}},
		Content:     "## Section\nbody",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "A deep dive")
	assert.Contains(t, out, "Sam")
	assert.Contains(t, out, "go, cms")
	assert.Contains(t, out, "Section")
}
