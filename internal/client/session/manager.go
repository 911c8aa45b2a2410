// Package session owns the process-wide authentication state: who is logged
// in, whether an auth operation is in flight, and the transitions between
// the anonymous and authenticated states. All mutation goes through the
// Manager's operations; consumers only read snapshots via State.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/scrawlapp/scrawl/internal/client/models"
	"github.com/scrawlapp/scrawl/internal/client/platform"
	"github.com/scrawlapp/scrawl/internal/common"
	"github.com/scrawlapp/scrawl/internal/logging"
)

var (
	// ErrPartialRegistration reports that the remote identity was created
	// but the follow-up session could not be established. The caller should
	// suggest a plain login instead of re-registering.
	ErrPartialRegistration = errors.New("identity created but session not established")

	// ErrRemoteLogout reports that local state was cleared but the remote
	// session could not be terminated and may still be live on the store.
	ErrRemoteLogout = errors.New("remote session termination failed")
)

// State is a point-in-time snapshot of the session. Authenticated is true
// exactly when Identity is non-nil.
type State struct {
	Identity      *models.Identity
	Authenticated bool
	Loading       bool
}

// Manager is the single authority for authentication state. Exactly one
// Manager lives per process; state-changing operations reject re-entrant
// calls with common.ErrBusy instead of interleaving.
type Manager struct {
	client platform.Client
	users  string
	store  *FileStore
	log    logging.Logger

	mu       sync.Mutex
	identity *models.Identity
	loading  bool
	inFlight bool
}

// NewManager builds a Manager over the given platform client. users names
// the collection holding identity profile documents. store may be nil to
// disable durable sessions.
func NewManager(client platform.Client, users string, store *FileStore, log logging.Logger) *Manager {
	return &Manager{client: client, users: users, store: store, loading: true, log: log}
}

// State returns the current snapshot. Identity is a copy; mutating it does
// not affect the manager.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := State{Authenticated: m.identity != nil, Loading: m.loading}
	if m.identity != nil {
		ident := *m.identity
		st.Identity = &ident
	}
	return st
}

// begin marks an operation in flight, optionally raising the loading flag.
// It fails with common.ErrBusy when another operation is already running.
func (m *Manager) begin(withLoading bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return common.ErrBusy
	}
	m.inFlight = true
	if withLoading {
		m.loading = true
	}
	return nil
}

func (m *Manager) end() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	m.loading = false
}

func (m *Manager) setIdentity(ident *models.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = ident
}

// Restore resolves the initial session state, once, at process start. It
// first tries a locally stored session secret (when a store is configured
// and the secret has not expired), then asks the platform for the current
// session. Absence of a session or any failure resolves to Anonymous; the
// loading flag is cleared exactly once on every path.
func (m *Manager) Restore(ctx context.Context) error {
	if err := m.begin(true); err != nil {
		return err
	}
	defer m.end()

	if ident := m.restoreFromStore(ctx); ident != nil {
		m.setIdentity(ident)
		return nil
	}

	tok, err := m.client.CurrentSession(ctx)
	if err != nil {
		m.log.Debug(ctx, "no active session", "err", err)
		m.setIdentity(nil)
		return nil
	}

	ident, err := m.fetchIdentity(ctx, tok.UserID)
	if err != nil {
		m.log.Warn(ctx, "session present but identity fetch failed", "err", err)
		m.setIdentity(nil)
		return nil
	}

	m.setIdentity(ident)
	m.persist(ctx, m.client.Session(), ident.ID)
	return nil
}

// restoreFromStore tries the durable session file. A usable secret is loaded
// into the platform client and the identity refetched; the profile itself is
// never served from disk. Returns nil when anything is off.
func (m *Manager) restoreFromStore(ctx context.Context) *models.Identity {
	if m.store == nil {
		return nil
	}

	stored, err := m.store.Load()
	if err != nil || stored == nil {
		return nil
	}
	if !secretUsable(stored.Secret) {
		m.log.Debug(ctx, "stored session expired, falling back to remote check")
		_ = m.store.Clear()
		return nil
	}

	m.client.SetSession(stored.Secret)
	ident, err := m.fetchIdentity(ctx, stored.UserID)
	if err != nil {
		m.client.SetSession("")
		return nil
	}
	return ident
}

// Login establishes a new session for the credential pair. On failure the
// manager keeps its prior state and the caller receives the error.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := m.begin(true); err != nil {
		return err
	}
	defer m.end()

	return m.establish(ctx, email, password)
}

// establish runs the shared tail of login and register: create a session,
// fetch the identity document, publish both atomically.
func (m *Manager) establish(ctx context.Context, email, password string) error {
	tok, err := m.client.CreateSession(ctx, email, password)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	ident, err := m.fetchIdentity(ctx, tok.UserID)
	if err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}

	m.setIdentity(ident)
	m.persist(ctx, tok.Secret, ident.ID)
	m.log.Info(ctx, "session established", "user", ident.ID)
	return nil
}

// Register creates a new remote identity plus its profile document, then
// logs in with the same credentials. When identity creation succeeds but a
// later step fails, the identity already exists remotely; that is reported
// as ErrPartialRegistration and the manager stays Anonymous.
func (m *Manager) Register(ctx context.Context, email, password, name string) error {
	if err := m.begin(true); err != nil {
		return err
	}
	defer m.end()

	ref, err := m.client.CreateIdentity(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}

	fields := map[string]any{"email": email, "name": name, "bio": "", "avatar": ""}
	if _, err := m.client.CreateDocument(ctx, m.users, ref.ID, fields); err != nil {
		return fmt.Errorf("%w: %w", ErrPartialRegistration, err)
	}

	if err := m.establish(ctx, email, password); err != nil {
		return fmt.Errorf("%w: %w", ErrPartialRegistration, err)
	}
	return nil
}

// Logout clears local state unconditionally. A failing remote termination is
// reported as ErrRemoteLogout so the caller may retry cleanup, but the
// manager is Anonymous either way.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.begin(false); err != nil {
		return err
	}
	defer m.end()

	remoteErr := m.client.DeleteSession(ctx)

	m.client.SetSession("")
	m.setIdentity(nil)
	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.log.Warn(ctx, "clearing stored session failed", "err", err)
		}
	}

	if remoteErr != nil {
		return fmt.Errorf("%w: %v", ErrRemoteLogout, remoteErr)
	}
	return nil
}

// UpdateProfile edits the mutable profile fields of the signed-in identity
// and refreshes the local copy from the store's response. The author
// snapshots on already-published posts are not touched.
func (m *Manager) UpdateProfile(ctx context.Context, name, bio string) error {
	if err := m.begin(false); err != nil {
		return err
	}
	defer m.end()

	m.mu.Lock()
	current := m.identity
	m.mu.Unlock()
	if current == nil {
		return fmt.Errorf("%w: no active session", common.ErrUnauthorized)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: display name must not be empty", common.ErrValidation)
	}

	fields := map[string]any{"name": strings.TrimSpace(name), "bio": strings.TrimSpace(bio)}
	doc, err := m.client.UpdateDocument(ctx, m.users, current.ID, fields)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	ident, err := models.IdentityFromDocument(*doc)
	if err != nil {
		return err
	}

	m.setIdentity(ident)
	m.log.Info(ctx, "profile updated", "user", ident.ID)
	return nil
}

func (m *Manager) fetchIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	doc, err := m.client.GetDocument(ctx, m.users, userID)
	if err != nil {
		return nil, err
	}
	return models.IdentityFromDocument(*doc)
}

// persist saves the session secret for the next process start. Best effort:
// a write failure downgrades the feature, not the login.
func (m *Manager) persist(ctx context.Context, secret, userID string) {
	if m.store == nil || secret == "" {
		return
	}
	if err := m.store.Save(&StoredSession{Secret: secret, UserID: userID}); err != nil {
		m.log.Warn(ctx, "persisting session failed", "err", err)
	}
}
