// Package content holds the fetched post collection and its derived views:
// the full feed, per-author subsets, and text-search matches. The collection
// is fetched as one page from the document store and filtered purely in
// memory; projections never trigger a refetch.
package content

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scrawlapp/scrawl/internal/client/models"
	"github.com/scrawlapp/scrawl/internal/client/platform"
	"github.com/scrawlapp/scrawl/internal/common"
	"github.com/scrawlapp/scrawl/internal/logging"
)

// Snapshot is a read-only view of the view model. Posts is a copy; callers
// may keep it across later fetches.
type Snapshot struct {
	Posts   []models.Post
	Loading bool
	LastErr error
}

// ViewModel caches the most recent successful fetch of the post collection.
// A failed fetch records the error and leaves the previous collection in
// place: a stale feed beats a blank one.
type ViewModel struct {
	client     platform.Client
	collection string
	limit      int
	log        logging.Logger

	mu      sync.Mutex
	posts   []models.Post
	loading bool
	lastErr error
}

// NewViewModel builds a view model over the given posts collection. limit
// bounds the fetched page; <= 0 defers to the server default.
func NewViewModel(client platform.Client, collection string, limit int, log logging.Logger) *ViewModel {
	return &ViewModel{client: client, collection: collection, limit: limit, log: log}
}

func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Snapshot{
		Posts:   append([]models.Post(nil), vm.posts...),
		Loading: vm.loading,
		LastErr: vm.lastErr,
	}
}

// FetchAll replaces the cached collection with the newest page of posts,
// most recent first. A second call while one is in flight fails with
// common.ErrBusy. On failure the cached collection is untouched and the
// error is both recorded and returned.
func (vm *ViewModel) FetchAll(ctx context.Context) error {
	vm.mu.Lock()
	if vm.loading {
		vm.mu.Unlock()
		return common.ErrBusy
	}
	vm.loading = true
	vm.mu.Unlock()

	docs, err := vm.client.ListDocuments(ctx, vm.collection, platform.ListQuery{
		OrderBy: "-createdAt",
		Limit:   vm.limit,
	})

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.loading = false

	if err != nil {
		vm.lastErr = err
		return err
	}

	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		post, err := models.PostFromDocument(doc)
		if err != nil {
			// One malformed document must not blank the feed.
			vm.log.Warn(ctx, "skipping malformed post document", "id", doc.ID, "err", err)
			continue
		}
		posts = append(posts, *post)
	}

	vm.posts = posts
	vm.lastErr = nil
	return nil
}

// PostsByAuthor returns the cached posts whose author snapshot matches id,
// preserving relative order.
func (vm *ViewModel) PostsByAuthor(id string) []models.Post {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	matched := make([]models.Post, 0)
	for _, p := range vm.posts {
		if p.AuthorID == id {
			matched = append(matched, p)
		}
	}
	return matched
}

// PostByID returns the cached post with the given id, if present.
func (vm *ViewModel) PostByID(id string) (models.Post, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	for _, p := range vm.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// PostsMatching returns the cached posts whose title, body, or any tag
// contains query, case-insensitively. An empty query matches everything.
func (vm *ViewModel) PostsMatching(query string) []models.Post {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	q := strings.ToLower(query)
	matched := make([]models.Post, 0, len(vm.posts))
	for _, p := range vm.posts {
		if matchesPost(p, q) {
			matched = append(matched, p)
		}
	}
	return matched
}

func matchesPost(p models.Post, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Body), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// EstimateReadTime exposes the post's derived read time on the view-model
// surface.
func (vm *ViewModel) EstimateReadTime(p models.Post) int {
	return p.ReadTime()
}

// Publish creates a new post authored by the given identity. The author
// id/name pair is snapshotted onto the document and immutable afterwards.
// The cached collection is not touched; callers refetch to see the new post.
func (vm *ViewModel) Publish(ctx context.Context, title, body string, tags []string, author *models.Identity) (*models.Post, error) {
	if author == nil {
		return nil, fmt.Errorf("%w: publishing requires a session", common.ErrUnauthorized)
	}
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	post := &models.Post{
		Title:      title,
		Body:       body,
		Tags:       tags,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"title":      post.Title,
		"body":       post.Body,
		"tags":       post.Tags,
		"authorId":   post.AuthorID,
		"authorName": post.AuthorName,
		"createdAt":  now.Format(time.RFC3339),
		"updatedAt":  now.Format(time.RFC3339),
	}

	doc, err := vm.client.CreateDocument(ctx, vm.collection, uuid.NewString(), fields)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	created, err := models.PostFromDocument(*doc)
	if err != nil {
		return nil, err
	}

	vm.log.Info(ctx, "post published", "id", created.ID, "author", created.AuthorID)
	return created, nil
}
