package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/aretw0/canopy/pkg/domain"
)

// Terminal renders blocks and articles for an ANSI terminal: markdown goes
// through glamour, headings and accents through termenv styling.
type Terminal struct {
	*Renderer
	markdown func(string) (string, error)
	output   *termenv.Output
}

type TerminalOption func(*Terminal)

// WithWordWrap sets the markdown wrap width. Defaults to 80.
func WithWordWrap(width int) TerminalOption {
	return func(t *Terminal) {
		t.markdown = newMarkdownRenderer(width)
	}
}

// WithOutput overrides the termenv output, e.g. to force a color profile
// in tests.
func WithOutput(out *termenv.Output) TerminalOption {
	return func(t *Terminal) {
		t.output = out
	}
}

// NewTerminal creates a renderer with handlers for every known block kind.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{
		Renderer: New(),
		markdown: newMarkdownRenderer(80),
		output:   termenv.DefaultOutput(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.Register(domain.KindHero, t.hero)
	t.Register(domain.KindSectionHeading, t.sectionHeading)
	t.Register(domain.KindCardGrid, t.cardGrid)
	t.Register(domain.KindContentWithImage, t.contentWithImage)
	t.Register(domain.KindMarkdown, t.markdownBlock)
	t.Register(domain.KindFAQ, t.faqGroup)
	return t
}

// newMarkdownRenderer returns a glamour-backed render function.
// Auto style detects light/dark terminal backgrounds.
func newMarkdownRenderer(width int) func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Glamour only fails on invalid options; fall back to raw text.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return r.Render
}

func (t *Terminal) heading(s string) string {
	return t.output.String(s).Bold().String()
}

func (t *Terminal) accent(s string) string {
	return t.output.String(s).Faint().String()
}

func (t *Terminal) hero(b domain.Block) (string, error) {
	hero, ok := b.(domain.HeroSection)
	if !ok {
		return "", fmt.Errorf("unexpected block type %T for %s", b, b.Kind())
	}
	var sb strings.Builder
	sb.WriteString(t.heading(hero.Heading))
	sb.WriteString("\n")
	if hero.SubHeading != "" {
		sb.WriteString(hero.SubHeading)
		sb.WriteString("\n")
	}
	for _, link := range hero.Links {
		fmt.Fprintf(&sb, "  %s %s\n", link.Text, t.accent("<"+link.Href+">"))
	}
	return sb.String(), nil
}

func (t *Terminal) sectionHeading(b domain.Block) (string, error) {
	sh, ok := b.(domain.SectionHeading)
	if !ok {
		return "", fmt.Errorf("unexpected block type %T for %s", b, b.Kind())
	}
	var sb strings.Builder
	if sh.SubHeading != "" {
		sb.WriteString(t.accent(sh.SubHeading))
		sb.WriteString("\n")
	}
	sb.WriteString(t.heading(sh.Heading))
	sb.WriteString("\n")
	if sh.Text != "" {
		sb.WriteString(sh.Text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (t *Terminal) cardGrid(b domain.Block) (string, error) {
	grid, ok := b.(domain.CardGrid)
	if !ok {
		return "", fmt.Errorf("unexpected block type %T for %s", b, b.Kind())
	}
	var sb strings.Builder
	for _, card := range grid.Cards {
		fmt.Fprintf(&sb, "%s\n  %s\n", t.heading(card.Heading), card.Text)
	}
	return sb.String(), nil
}

func (t *Terminal) contentWithImage(b domain.Block) (string, error) {
	cwi, ok := b.(domain.ContentWithImage)
	if !ok {
		return "", fmt.Errorf("unexpected block type %T for %s", b, b.Kind())
	}
	var sb strings.Builder
	sb.WriteString(t.heading(cwi.Heading))
	sb.WriteString("\n")
	body, err := t.markdown(cwi.Content)
	if err != nil {
		return "", err
	}
	sb.WriteString(body)
	if cwi.Image.URL != "" {
		fmt.Fprintf(&sb, "%s\n", t.accent("[image: "+cwi.Image.URL+"]"))
	}
	if cwi.Link != nil {
		fmt.Fprintf(&sb, "%s %s\n", cwi.Link.Text, t.accent("<"+cwi.Link.Href+">"))
	}
	return sb.String(), nil
}

func (t *Terminal) markdownBlock(b domain.Block) (string, error) {
	md, ok := b.(domain.MarkdownBlock)
	if !ok {
		return "", fmt.Errorf("unexpected block type %T for %s", b, b.Kind())
	}
	return t.markdown(md.Content)
}

func (t *Terminal) faqGroup(b domain.Block) (string, error) {
	group, ok := b.(domain.FAQGroup)
	if !ok {
		return "", fmt.Errorf("unexpected block type %T for %s", b, b.Kind())
	}
	var sb strings.Builder
	for _, faq := range group.FAQs {
		sb.WriteString(t.heading(faq.Question))
		sb.WriteString("\n")
		answer, err := t.markdown(faq.Answer)
		if err != nil {
			return "", err
		}
		sb.WriteString(answer)
	}
	return sb.String(), nil
}

// Article renders an article detail view: styled title, byline, and the
// markdown body.
func (t *Terminal) Article(a *domain.Article) (string, error) {
	var sb strings.Builder
	sb.WriteString(t.heading(a.Title))
	sb.WriteString("\n")
	if a.Description != "" {
		sb.WriteString(a.Description)
		sb.WriteString("\n")
	}
	if a.Author != nil {
		sb.WriteString(t.accent("by " + a.Author.Name))
		sb.WriteString("\n")
	}
	if len(a.Tags) > 0 {
		titles := make([]string, 0, len(a.Tags))
		for _, tag := range a.Tags {
			titles = append(titles, tag.Title)
		}
		sb.WriteString(t.accent("tags: " + strings.Join(titles, ", ")))
		sb.WriteString("\n")
	}
	body, err := t.markdown(a.Content)
	if err != nil {
		return "", err
	}
	sb.WriteString(body)
	return sb.String(), nil
}
