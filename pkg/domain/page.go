package domain

import "time"

// Page is a landing page: scalar metadata plus an ordered block sequence.
type Page struct {
	ID          int       `json:"id"`
	DocumentID  string    `json:"documentId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Blocks      Blocks    `json:"blocks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	PublishedAt time.Time `json:"publishedAt"`
}
