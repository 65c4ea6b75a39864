package strapi

import (
	"net/url"

	"github.com/aretw0/canopy/pkg/domain"
)

// ResolveMedia resolves a possibly relative asset URL against the client's
// base URL. Absolute URLs pass through unchanged, as do values that fail to
// parse (the backend owns its own data quality).
func (c *Client) ResolveMedia(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.IsAbs() {
		return raw
	}
	return c.baseURL.ResolveReference(u).String()
}

func (c *Client) resolveArticle(a *domain.Article) {
	if a.Image != nil {
		a.Image.URL = c.ResolveMedia(a.Image.URL)
	}
}

// resolveBlocks rewrites image URLs in place before the blocks leave the
// adapter; consumers only ever see resolved URLs.
func (c *Client) resolveBlocks(blocks domain.Blocks) {
	for i, b := range blocks {
		switch v := b.(type) {
		case domain.HeroSection:
			v.Image.URL = c.ResolveMedia(v.Image.URL)
			blocks[i] = v
		case domain.ContentWithImage:
			v.Image.URL = c.ResolveMedia(v.Image.URL)
			blocks[i] = v
		}
	}
}
