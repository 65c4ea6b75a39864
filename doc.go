// Package canopy is a Go client for Strapi-style headless CMS backends. It
// fetches block-composed landing pages and a paginated, tag-filterable
// article collection, caches decoded content behind a read-through query
// layer, and renders block sequences for the terminal.
//
// The content model is a tagged union: every block in a page carries a
// component tag, and unknown tags decode into a placeholder block instead of
// failing the page. Listings are walked with a forward-only pager whose
// cursor resets when the tag filter changes.
//
// Basic use:
//
//	client, err := canopy.New("http://localhost:1337")
//	if err != nil {
//		log.Fatal(err)
//	}
//	units, err := client.RenderPage(ctx, "")
//
// Subpackages expose the layers for embedders: pkg/query for the caching
// client and pager, pkg/render for the block renderer, and pkg/adapters for
// the content sources and cache backends.
package canopy
