package client

import "time"

// Post is the blog post entity owned by the remote API. ViewCount,
// ReadingTime, and PublishedAt are computed server-side and ignored on writes.
type Post struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	Excerpt         string      `json:"excerpt"`
	Content         string      `json:"content"`
	MetaDescription string      `json:"metaDescription,omitempty"`
	FeaturedImage   string      `json:"featuredImage,omitempty"`
	Tags            []string    `json:"tags"`
	Images          []PostImage `json:"images"`
	IsPublished     bool        `json:"isPublished"`
	IsFeatured      bool        `json:"isFeatured"`

	ViewCount   int        `json:"viewCount,omitempty"`
	ReadingTime int        `json:"readingTime,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// PostImage is one entry of a post's ordered image gallery.
type PostImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	Order   int    `json:"order"`
}

// PostInput holds the writable fields sent on create and update.
type PostInput struct {
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	Excerpt         string      `json:"excerpt"`
	Content         string      `json:"content"`
	MetaDescription string      `json:"metaDescription,omitempty"`
	FeaturedImage   string      `json:"featuredImage,omitempty"`
	Tags            []string    `json:"tags"`
	Images          []PostImage `json:"images"`
	IsPublished     bool        `json:"isPublished"`
	IsFeatured      bool        `json:"isFeatured"`
}

// Upload is a binary image travelling alongside a create or update.
type Upload struct {
	Filename string
	MIME     string
	Data     []byte
}

// ListParams are the query parameters accepted by the list endpoint.
type ListParams struct {
	Page               int
	Limit              int
	Search             string
	SortBy             string
	SortOrder          string // "asc" or "desc"
	IncludeUnpublished bool
}

// ListResult is one page of posts plus pagination metadata.
type ListResult struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Total      int    `json:"total"`
}
