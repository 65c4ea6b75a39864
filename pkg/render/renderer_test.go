package render_test

import (
	"fmt"
	"testing"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_PreservesOrderAndCount(t *testing.T) {
	r := render.New()
	r.Register(domain.KindMarkdown, func(b domain.Block) (string, error) {
		return fmt.Sprintf("md-%d", b.BlockID()), nil
	})
	r.Register(domain.KindSectionHeading, func(b domain.Block) (string, error) {
		return fmt.Sprintf("heading-%d", b.BlockID()), nil
	})

	blocks := []domain.Block{
		domain.MarkdownBlock{ID: 1},
		domain.SectionHeading{ID: 2},
		domain.MarkdownBlock{ID: 3},
	}

	units, err := r.Render(blocks)
	require.NoError(t, err)
	assert.Equal(t, []string{"md-1", "heading-2", "md-3"}, units, "one unit per block, in input order")
}

func TestRenderer_UnknownKindYieldsPlaceholder(t *testing.T) {
	r := render.New()

	units, err := r.Render([]domain.Block{
		domain.UnknownBlock{Component: "blocks.unknown-type", ID: 1},
	})
	require.NoError(t, err, "unrecognized tags degrade, never fail")
	require.Len(t, units, 1)
	assert.Contains(t, units[0], "blocks.unknown-type", "the placeholder must carry the raw tag")
}

func TestRenderer_EmptySequence(t *testing.T) {
	units, err := render.New().Render(nil)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestRenderer_DuplicateIDsTolerated(t *testing.T) {
	r := render.New()
	r.Register(domain.KindMarkdown, func(b domain.Block) (string, error) {
		return "unit", nil
	})

	units, err := r.Render([]domain.Block{
		domain.MarkdownBlock{ID: 7},
		domain.MarkdownBlock{ID: 7},
	})
	require.NoError(t, err)
	assert.Len(t, units, 2, "ids are render keys, not identity")
}

func TestRenderer_HandlerErrorPropagates(t *testing.T) {
	r := render.New()
	r.Register(domain.KindMarkdown, func(b domain.Block) (string, error) {
		return "", fmt.Errorf("broken handler")
	})

	_, err := r.Render([]domain.Block{domain.MarkdownBlock{ID: 1}})
	assert.ErrorContains(t, err, "broken handler")
}

func TestRenderer_CustomPlaceholder(t *testing.T) {
	r := render.New()
	r.SetPlaceholder(func(b domain.Block) string {
		return "??" + b.Kind()
	})

	units, err := r.Render([]domain.Block{domain.UnknownBlock{Component: "x.y"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"??x.y"}, units)
}
