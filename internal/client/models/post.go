package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/scrawlapp/scrawl/internal/client/platform"
	"github.com/scrawlapp/scrawl/internal/common"
)

// wordsPerMinute is the reading speed assumed by ReadTime.
const wordsPerMinute = 200

// Post is a single authored content item. AuthorID and AuthorName are a
// snapshot taken at creation time and are immutable afterwards; they are not
// kept in sync with later identity edits.
type Post struct {
	ID         string
	Title      string
	Body       string
	Tags       []string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the fields a post must carry before it may be sent to the
// store. Failures wrap common.ErrValidation.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: post title must not be empty", common.ErrValidation)
	}
	if strings.TrimSpace(p.Body) == "" {
		return fmt.Errorf("%w: post body must not be empty", common.ErrValidation)
	}
	if p.AuthorID == "" {
		return fmt.Errorf("%w: post has no author", common.ErrValidation)
	}
	return nil
}

// ReadTime estimates reading time in whole minutes: word count at
// wordsPerMinute, rounded up, never less than 1. Words are separated by
// whitespace runs.
func (p Post) ReadTime() int {
	words := len(strings.Fields(p.Body))
	if words == 0 {
		return 1
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// PostFromDocument validates and coerces a store document into a Post.
// Title, body and authorId are required; tags default to empty. Creation and
// update timestamps prefer the document data fields and fall back to the
// store's system timestamps.
func PostFromDocument(doc platform.Document) (*Post, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: post document without id", common.ErrValidation)
	}

	title, ok := stringField(doc.Data, "title")
	if !ok || title == "" {
		return nil, fmt.Errorf("%w: post %s: missing title", common.ErrValidation, doc.ID)
	}
	body, ok := stringField(doc.Data, "body")
	if !ok || body == "" {
		return nil, fmt.Errorf("%w: post %s: missing body", common.ErrValidation, doc.ID)
	}
	authorID, ok := stringField(doc.Data, "authorId")
	if !ok || authorID == "" {
		return nil, fmt.Errorf("%w: post %s: missing authorId", common.ErrValidation, doc.ID)
	}
	authorName, _ := stringField(doc.Data, "authorName")

	tags, err := tagsField(doc.Data, "tags")
	if err != nil {
		return nil, fmt.Errorf("%w: post %s: %v", common.ErrValidation, doc.ID, err)
	}

	createdAt := timeField(doc.Data, "createdAt", doc.CreatedAt)
	updatedAt := timeField(doc.Data, "updatedAt", doc.UpdatedAt)

	return &Post{
		ID:         doc.ID,
		Title:      title,
		Body:       body,
		Tags:       tags,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

// ParseTags splits a comma-separated tag line into normalized tags:
// surrounding whitespace trimmed, empty items dropped, original order kept.
func ParseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func tagsField(data map[string]any, key string) ([]string, error) {
	v, present := data[key]
	if !present || v == nil {
		return []string{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q is not a list", key)
	}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q contains a non-string tag", key)
		}
		tags = append(tags, s)
	}
	return tags, nil
}

func timeField(data map[string]any, key string, fallback time.Time) time.Time {
	s, ok := stringField(data, key)
	if !ok {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t
}
