// Package models defines the client-side records for the Scrawl blogging
// platform and the converters that admit loosely-typed store documents into
// them. Conversion is the single seam where malformed documents are rejected;
// code past this package can rely on the fields being present and well-typed.
package models

import (
	"fmt"
	"time"

	"github.com/scrawlapp/scrawl/internal/client/platform"
	"github.com/scrawlapp/scrawl/internal/common"
)

// Identity is the authenticated principal's account record. It is owned by
// the remote store; instances held here are transient copies.
type Identity struct {
	ID        string
	Email     string
	Name      string
	Bio       string
	Avatar    string
	CreatedAt time.Time
}

// IdentityFromDocument validates and coerces a store document into an
// Identity. Missing or mistyped required fields (email, name) fail with
// common.ErrValidation; bio and avatar are optional.
func IdentityFromDocument(doc platform.Document) (*Identity, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: identity document without id", common.ErrValidation)
	}

	email, ok := stringField(doc.Data, "email")
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: identity %s: missing email", common.ErrValidation, doc.ID)
	}
	name, ok := stringField(doc.Data, "name")
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: identity %s: missing name", common.ErrValidation, doc.ID)
	}

	bio, _ := stringField(doc.Data, "bio")
	avatar, _ := stringField(doc.Data, "avatar")

	return &Identity{
		ID:        doc.ID,
		Email:     email,
		Name:      name,
		Bio:       bio,
		Avatar:    avatar,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// stringField reads a string-valued key from document data. Absent keys and
// explicit nulls report ok=false; any other non-string value also reports
// ok=false so callers can decide whether the field was required.
func stringField(data map[string]any, key string) (string, bool) {
	v, present := data[key]
	if !present || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
