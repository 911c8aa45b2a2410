package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/scrawlapp/scrawl/internal/client/config"
	"github.com/scrawlapp/scrawl/internal/client/content"
	"github.com/scrawlapp/scrawl/internal/client/platform"
	"github.com/scrawlapp/scrawl/internal/client/session"
	"github.com/scrawlapp/scrawl/internal/logging"
)

// App wires the session manager and the content view model to the REPL.
type App struct {
	config   *config.Config
	sessions *session.Manager
	feed     *content.ViewModel
	client   platform.Client
	log      logging.Logger
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	apiClient := platform.NewHTTPClient(platform.Options{
		Endpoint:   c.Endpoint,
		ProjectID:  c.ProjectID,
		DatabaseID: c.DatabaseID,
		Timeout:    c.RequestTimeout,
	})

	var store *session.FileStore
	if c.SessionFile != "" {
		store = session.NewFileStore(c.SessionFile)
	}

	sessions := session.NewManager(apiClient, c.UsersCollection, store, log)
	feed := content.NewViewModel(apiClient, c.PostsCollection, c.PageLimit, log)

	return &App{
		config:   c,
		sessions: sessions,
		feed:     feed,
		client:   apiClient,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the previous session, then hands control to the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	if err := a.sessions.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}
	if st := a.sessions.State(); st.Authenticated {
		printlnFn("Welcome back,", st.Identity.Name)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.State().Authenticated
}

// status renders the prompt suffix: the signed-in user's name, if any.
func (a *App) status() string {
	st := a.sessions.State()
	if st.Loading {
		return "(...)"
	}
	if st.Authenticated {
		return "(" + st.Identity.Name + ")"
	}
	return ""
}
