package models

// PostPage is one page of a feed listing plus pagination metadata derived
// from the total row count. The last page may be partial.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalCount int     `json:"totalCount"`
	TotalPages int     `json:"totalPages"`
	HasNext    bool    `json:"hasNext"`
	HasPrev    bool    `json:"hasPrev"`
}

// NewPostPage assembles pagination metadata for a page of posts.
func NewPostPage(posts []*Post, page, pageSize, total int) *PostPage {
	if posts == nil {
		posts = make([]*Post, 0)
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &PostPage{
		Posts:      posts,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
