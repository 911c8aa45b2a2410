package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/scrawlapp/scrawl/internal/client/models"
)

// List fetches the newest page of posts and prints the feed.
func (a *App) List(ctx context.Context) error {
	if err := a.feed.FetchAll(ctx); err != nil {
		fmt.Printf("Could not load posts: %v\n", err)
		if cached := a.feed.Snapshot().Posts; len(cached) > 0 {
			fmt.Println("Showing previously loaded posts:")
			printPosts(cached)
		}
		return err
	}

	printPosts(a.feed.Snapshot().Posts)
	return nil
}

// Search filters the cached feed; when nothing has been fetched yet it
// fetches first.
func (a *App) Search(ctx context.Context, query string) error {
	if len(a.feed.Snapshot().Posts) == 0 {
		if err := a.feed.FetchAll(ctx); err != nil {
			fmt.Printf("Could not load posts: %v\n", err)
			return err
		}
	}

	matched := a.feed.PostsMatching(query)
	if len(matched) == 0 {
		fmt.Println("No posts found for your search.")
		return nil
	}
	printPosts(matched)
	return nil
}

// Mine shows the dashboard: the signed-in user's own posts.
func (a *App) Mine(ctx context.Context) error {
	st := a.sessions.State()
	if !st.Authenticated {
		fmt.Println("Log in first.")
		return nil
	}

	if err := a.feed.FetchAll(ctx); err != nil {
		fmt.Printf("Could not load posts: %v\n", err)
		return err
	}

	posts := a.feed.PostsByAuthor(st.Identity.ID)
	fmt.Printf("You have published %d post(s)\n", len(posts))
	printPosts(posts)
	return nil
}

// Author shows a writer's public profile: their identity document and the
// posts they authored.
func (a *App) Author(ctx context.Context, id string) error {
	doc, err := a.client.GetDocument(ctx, a.config.UsersCollection, id)
	if err != nil {
		fmt.Printf("Could not load author: %v\n", err)
		return err
	}
	author, err := models.IdentityFromDocument(*doc)
	if err != nil {
		fmt.Printf("Could not load author: %v\n", err)
		return err
	}

	fmt.Println(author.Name)
	if author.Bio != "" {
		fmt.Println(author.Bio)
	}

	if err := a.feed.FetchAll(ctx); err != nil {
		fmt.Printf("Could not load posts: %v\n", err)
		return err
	}
	posts := a.feed.PostsByAuthor(id)
	fmt.Printf("%d post(s)\n", len(posts))
	printPosts(posts)
	return nil
}

// Show prints a single post in full: title, author line, tags, and the
// body. The cached feed is consulted first; a post not on the current page
// is fetched from the store directly.
func (a *App) Show(ctx context.Context, id string) error {
	post, ok := a.feed.PostByID(id)
	if !ok {
		doc, err := a.client.GetDocument(ctx, a.config.PostsCollection, id)
		if err != nil {
			fmt.Printf("Could not load post: %v\n", err)
			return err
		}
		p, err := models.PostFromDocument(*doc)
		if err != nil {
			fmt.Printf("Could not load post: %v\n", err)
			return err
		}
		post = *p
	}

	fmt.Println(post.Title)
	fmt.Printf("by %s on %s (%d min read)\n",
		post.AuthorName, post.CreatedAt.Format("2006-01-02"), post.ReadTime())
	if len(post.Tags) > 0 {
		fmt.Println("[" + strings.Join(post.Tags, ", ") + "]")
	}
	fmt.Println()
	fmt.Println(post.Body)
	return nil
}

// Publish collects a new post interactively and sends it to the store.
func (a *App) Publish(ctx context.Context) error {
	st := a.sessions.State()
	if !st.Authenticated {
		fmt.Println("Log in first.")
		return nil
	}

	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	body, err := GetMultiline(a.reader, "Body", os.Stdout)
	if err != nil {
		return err
	}

	tagLine, err := getSimpleText(a.reader, "Tags (comma separated, optional)", os.Stdout)
	if err != nil {
		return err
	}

	post, err := a.feed.Publish(ctx, title, body, models.ParseTags(tagLine), st.Identity)
	if err != nil {
		fmt.Printf("Could not publish: %v\n", err)
		return err
	}

	fmt.Printf("Published %q (%d min read)\n", post.Title, post.ReadTime())
	return nil
}

func printPosts(posts []models.Post) {
	for _, p := range posts {
		line := fmt.Sprintf("%s  %-30q by %s (%d min read)",
			p.CreatedAt.Format("2006-01-02"), p.Title, p.AuthorName, p.ReadTime())
		if len(p.Tags) > 0 {
			line += "  [" + strings.Join(p.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}
