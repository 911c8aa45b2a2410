// Package platform is the adapter to the hosted backend the client depends
// on: an account/session service plus a schemaless document store, both
// spoken to over HTTP/JSON. Every error crossing this boundary is mapped to
// a sentinel from internal/common so the layers above never inspect
// transport detail.
package platform

import (
	"context"
	"time"
)

// SessionToken identifies an established remote session. Secret is the
// bearer value attached to subsequent requests.
type SessionToken struct {
	ID      string
	UserID  string
	Secret  string
	Expires time.Time
}

// IdentityRef is the account service's view of a newly created principal.
// The full profile lives in the document store and is fetched separately.
type IdentityRef struct {
	ID    string
	Email string
	Name  string
}

// Document is a loosely-typed record from the store. ID and the system
// timestamps are managed by the platform; Data carries the user-defined
// fields exactly as received. Typed validation happens in the models package.
type Document struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      map[string]any
}

// ListQuery bounds and orders a collection listing. Filters are equality
// matches on data fields. OrderBy names a field, with a leading '-' for
// descending. Limit <= 0 leaves the page size to the server.
type ListQuery struct {
	Filters map[string]string
	OrderBy string
	Limit   int
}

// Client is the full surface the rest of the application uses to talk to
// the platform.
//
// Session handling: CreateSession stores the returned secret on the client
// so follow-up calls are authenticated; SetSession/Session expose it for
// restore-from-disk and persistence. DeleteSession clears it even when the
// remote call fails.
type Client interface {
	Close() error

	CreateSession(ctx context.Context, email, password string) (*SessionToken, error)
	CurrentSession(ctx context.Context) (*SessionToken, error)
	DeleteSession(ctx context.Context) error
	CreateIdentity(ctx context.Context, email, password, name string) (*IdentityRef, error)

	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	ListDocuments(ctx context.Context, collection string, q ListQuery) ([]Document, error)
	CreateDocument(ctx context.Context, collection, id string, fields map[string]any) (*Document, error)
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) (*Document, error)

	SetSession(secret string)
	Session() string
}
