package domain

import "time"

// Author is the optional byline reference on an article.
type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Tag is a category label. Articles carry zero or more; the collection
// fetcher can filter on a tag title.
type Tag struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Article is one item of the paginated article collection. Slug is the
// externally visible stable identifier used for detail lookups; uniqueness
// is assumed from the backend, not enforced here.
type Article struct {
	ID          int       `json:"id"`
	DocumentID  string    `json:"documentId"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Image       *Image    `json:"image,omitempty"`
	Author      *Author   `json:"author,omitempty"`
	Tags        []Tag     `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	PublishedAt time.Time `json:"publishedAt"`
}
