package domain

// Pagination is the paging metadata of a collection response. Page echoes
// the requested page, so a request past the end reports Page > PageCount
// with no items. Concatenating pages 1..PageCount in order yields the full
// collection, assuming the backend is not mutated mid-walk.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// HasNext reports whether a page follows this one in the forward-only cursor.
func (p Pagination) HasNext() bool {
	return p.Page < p.PageCount
}

// ArticleList is one page of the article collection.
type ArticleList struct {
	Items      []Article  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
