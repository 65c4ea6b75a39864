package strapi

import (
	"net/url"
	"strconv"

	"github.com/aretw0/canopy/pkg/ports"
)

const defaultPageSize = 10

// pagePopulate expands the blocks dynamic zone and everything nested in it
// (images, links, cards, FAQ items) in one request.
func pagePopulate() url.Values {
	v := url.Values{}
	v.Set("populate[blocks][populate]", "*")
	return v
}

func pageBySlug(slug string) url.Values {
	v := pagePopulate()
	v.Set("filters[slug][$eq]", slug)
	return v
}

func articlePopulate(v url.Values) url.Values {
	v.Set("populate[0]", "image")
	v.Set("populate[1]", "author")
	v.Set("populate[2]", "tags")
	return v
}

func articlesQueryValues(q ports.ArticlesQuery) url.Values {
	v := articlePopulate(url.Values{})
	v.Set("pagination[page]", strconv.Itoa(q.Page))
	v.Set("pagination[pageSize]", strconv.Itoa(q.PageSize))
	v.Set("sort", "publishedAt:desc")
	if q.Tag != "" {
		v.Set("filters[tags][title][$eq]", q.Tag)
	}
	return v
}

func articleBySlug(slug string) url.Values {
	v := articlePopulate(url.Values{})
	v.Set("filters[slug][$eq]", slug)
	v.Set("pagination[pageSize]", "1")
	return v
}
