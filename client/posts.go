package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

const postsPath = "/posts"

// PostService is the typed facade for the remote post collection. It does no
// caching; callers re-invoke List when their parameters change.
type PostService struct {
	c *Client
}

// Posts returns the post service bound to this client.
func (c *Client) Posts() *PostService {
	return &PostService{c: c}
}

// List fetches one page of posts. Zero Page/Limit default to 1 and 10.
func (s *PostService) List(ctx context.Context, p ListParams) (*ListResult, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	q.Set("includeUnpublished", strconv.FormatBool(p.IncludeUnpublished))

	req, err := s.c.newRequest(ctx, http.MethodGet, postsPath, q, nil, "")
	if err != nil {
		return nil, err
	}
	var result ListResult
	if err := s.c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches a single post by id. A missing post matches ErrNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, fmt.Errorf("postadmin: get: missing post id")
	}
	req, err := s.c.newRequest(ctx, http.MethodGet, postsPath+"/"+url.PathEscape(id), nil, nil, "")
	if err != nil {
		return nil, err
	}
	var post Post
	if err := s.c.do(req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create submits a new post. When file is non-nil the request is multipart
// and the file takes precedence: FeaturedImage is cleared from the
// structured fields before encoding. Returns the created post with its
// server-assigned id.
func (s *PostService) Create(ctx context.Context, in PostInput, file *Upload) (*Post, error) {
	req, err := s.writeRequest(ctx, http.MethodPost, postsPath, in, file)
	if err != nil {
		return nil, err
	}
	var post Post
	if err := s.c.do(req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update replaces the post identified by id. The id is required: an empty id
// is rejected locally, before any request is built.
func (s *PostService) Update(ctx context.Context, id string, in PostInput, file *Upload) (*Post, error) {
	if id == "" {
		return nil, fmt.Errorf("postadmin: update: missing post id")
	}
	req, err := s.writeRequest(ctx, http.MethodPut, postsPath+"/"+url.PathEscape(id), in, file)
	if err != nil {
		return nil, err
	}
	var post Post
	if err := s.c.do(req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes the post identified by id. A second delete of the same id
// surfaces whatever the server answers; nothing is swallowed here.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("postadmin: delete: missing post id")
	}
	req, err := s.c.newRequest(ctx, http.MethodDelete, postsPath+"/"+url.PathEscape(id), nil, nil, "")
	if err != nil {
		return err
	}
	return s.c.do(req, nil)
}

// writeRequest encodes in as a JSON body, or as multipart form data when a
// file accompanies it. Multipart fields: scalars as plain values, tags and
// images JSON-encoded, the binary part named "image".
func (s *PostService) writeRequest(ctx context.Context, method, path string, in PostInput, file *Upload) (*http.Request, error) {
	if file == nil {
		body, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("postadmin: encode post: %w", err)
		}
		return s.c.newRequest(ctx, method, path, nil, bytes.NewReader(body), "application/json")
	}

	in.FeaturedImage = ""

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":           in.Title,
		"slug":            in.Slug,
		"excerpt":         in.Excerpt,
		"content":         in.Content,
		"metaDescription": in.MetaDescription,
		"isPublished":     strconv.FormatBool(in.IsPublished),
		"isFeatured":      strconv.FormatBool(in.IsFeatured),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("postadmin: encode field %s: %w", name, err)
		}
	}
	for name, value := range map[string]any{"tags": in.Tags, "images": in.Images} {
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("postadmin: encode field %s: %w", name, err)
		}
		if err := w.WriteField(name, string(encoded)); err != nil {
			return nil, fmt.Errorf("postadmin: encode field %s: %w", name, err)
		}
	}
	part, err := w.CreateFormFile("image", file.Filename)
	if err != nil {
		return nil, fmt.Errorf("postadmin: encode image part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("postadmin: write image part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("postadmin: finish multipart body: %w", err)
	}
	return s.c.newRequest(ctx, method, path, nil, &buf, w.FormDataContentType())
}
