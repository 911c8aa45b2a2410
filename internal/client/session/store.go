package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StoredSession is the durable form of an established session. Only the
// secret and the owning user id are persisted; the identity profile is
// always refetched from the store.
type StoredSession struct {
	Secret string `json:"secret"`
	UserID string `json:"user_id"`
}

// FileStore persists a single StoredSession as JSON at a fixed path,
// readable only by the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored session. A missing file is not an error; it returns
// (nil, nil).
func (s *FileStore) Load() (*StoredSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var sess StoredSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *FileStore) Save(sess *StoredSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored session. Clearing an absent file is a no-op.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// secretUsable reports whether a stored session secret is still worth
// presenting to the platform. Secrets are JWTs minted by the account
// service; the signature is the server's to verify, here only the expiry
// claim is peeked at. Unparsable secrets and secrets without an expiry are
// handed to the server as-is.
func secretUsable(secret string) bool {
	if secret == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(secret, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}
