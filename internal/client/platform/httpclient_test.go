package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/scrawlapp/scrawl/internal/common"
	"github.com/stretchr/testify/require"
)

// newBackend spins up a fake platform on httptest with the routes the
// client speaks, and returns a client pointed at it.
func newBackend(t *testing.T, register func(r *mux.Router)) *HTTPClient {
	t.Helper()

	r := mux.NewRouter()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return NewHTTPClient(Options{
		Endpoint:   srv.URL + "/v1",
		ProjectID:  "proj-1",
		DatabaseID: "blog",
		Timeout:    2 * time.Second,
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestCreateSession_Success(t *testing.T) {
	var gotProject string
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/account/sessions/email", func(w http.ResponseWriter, req *http.Request) {
			gotProject = req.Header.Get(HeaderProject)

			var body map[string]string
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			require.Equal(t, "a@x.com", body["email"])
			require.Equal(t, "secret1", body["password"])

			writeJSON(t, w, http.StatusCreated, map[string]any{
				"$id":    "sess-1",
				"userId": "u1",
				"secret": "tok-1",
				"expire": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			})
		}).Methods(http.MethodPost)
	})

	tok, err := c.CreateSession(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "sess-1", tok.ID)
	require.Equal(t, "u1", tok.UserID)
	require.Equal(t, "tok-1", tok.Secret)
	require.False(t, tok.Expires.IsZero())

	require.Equal(t, "proj-1", gotProject)
	require.Equal(t, "tok-1", c.Session(), "secret is retained for follow-up calls")
}

func TestCreateSession_InvalidCredentials(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/account/sessions/email", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{
				"message": "Invalid credentials",
				"type":    "invalid_credentials",
			})
		}).Methods(http.MethodPost)
	})

	_, err := c.CreateSession(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	require.Empty(t, c.Session())
}

func TestCurrentSession_AttachesSessionHeader(t *testing.T) {
	var gotSession string
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/account/sessions/current", func(w http.ResponseWriter, req *http.Request) {
			gotSession = req.Header.Get(HeaderSession)
			writeJSON(t, w, http.StatusOK, map[string]any{"$id": "sess-1", "userId": "u1"})
		}).Methods(http.MethodGet)
	})

	c.SetSession("stored-secret")
	tok, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", tok.UserID)
	require.Equal(t, "stored-secret", gotSession)
}

func TestDeleteSession_ClearsSecretEvenOnFailure(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/account/sessions/current", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		}).Methods(http.MethodDelete)
	})

	c.SetSession("tok-1")
	err := c.DeleteSession(context.Background())
	require.ErrorIs(t, err, common.ErrNetwork)
	require.Empty(t, c.Session())
}

func TestCreateIdentity_Duplicate(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/account", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusConflict, map[string]string{
				"message": "user already exists",
				"type":    "user_already_exists",
			})
		}).Methods(http.MethodPost)
	})

	_, err := c.CreateIdentity(context.Background(), "a@x.com", "secret1", "Alice")
	require.ErrorIs(t, err, common.ErrDuplicateIdentity)
}

func TestGetDocument_SplitsSystemFields(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/databases/blog/collections/users/documents/u1", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{
				"$id":        "u1",
				"$createdAt": "2025-01-01T00:00:00Z",
				"$updatedAt": "2025-01-02T00:00:00Z",
				"email":      "a@x.com",
				"name":       "Alice",
			})
		}).Methods(http.MethodGet)
	})

	doc, err := c.GetDocument(context.Background(), "users", "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", doc.ID)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), doc.CreatedAt)
	require.Equal(t, map[string]any{"email": "a@x.com", "name": "Alice"}, doc.Data)
}

func TestGetDocument_NotFound(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/databases/blog/collections/users/documents/{id}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "no such document"})
		}).Methods(http.MethodGet)
	})

	_, err := c.GetDocument(context.Background(), "users", "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListDocuments_QueryEncoding(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/databases/blog/collections/posts/documents", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			require.Equal(t, "-createdAt", q.Get("order"))
			require.Equal(t, "20", q.Get("limit"))
			require.Equal(t, []string{"authorId:u1"}, q["filter"])

			writeJSON(t, w, http.StatusOK, map[string]any{
				"total": 2,
				"documents": []map[string]any{
					{"$id": "p1", "title": "First"},
					{"$id": "p2", "title": "Second"},
				},
			})
		}).Methods(http.MethodGet)
	})

	docs, err := c.ListDocuments(context.Background(), "posts", ListQuery{
		Filters: map[string]string{"authorId": "u1"},
		OrderBy: "-createdAt",
		Limit:   20,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "p1", docs[0].ID)
	require.Equal(t, "First", docs[0].Data["title"])
}

func TestCreateDocument_SendsIDAndData(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/databases/blog/collections/posts/documents", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				DocumentID string         `json:"documentId"`
				Data       map[string]any `json:"data"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			require.Equal(t, "p1", body.DocumentID)
			require.Equal(t, "Hello", body.Data["title"])

			resp := map[string]any{"$id": body.DocumentID}
			for k, v := range body.Data {
				resp[k] = v
			}
			writeJSON(t, w, http.StatusCreated, resp)
		}).Methods(http.MethodPost)
	})

	doc, err := c.CreateDocument(context.Background(), "posts", "p1", map[string]any{"title": "Hello"})
	require.NoError(t, err)
	require.Equal(t, "p1", doc.ID)
	require.Equal(t, "Hello", doc.Data["title"])
}

func TestUpdateDocument_SendsPatch(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/databases/blog/collections/users/documents/u1", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Data map[string]any `json:"data"`
			}
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			require.Equal(t, "Alice B.", body.Data["name"])

			writeJSON(t, w, http.StatusOK, map[string]any{
				"$id":  "u1",
				"name": body.Data["name"],
				"bio":  body.Data["bio"],
			})
		}).Methods(http.MethodPatch)
	})

	doc, err := c.UpdateDocument(context.Background(), "users", "u1", map[string]any{
		"name": "Alice B.",
		"bio":  "writes about Go",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice B.", doc.Data["name"])
	require.Equal(t, "writes about Go", doc.Data["bio"])
}

func TestDo_UnreachableBackendIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewHTTPClient(Options{Endpoint: srv.URL + "/v1", ProjectID: "p", DatabaseID: "blog"})
	_, err := c.CurrentSession(context.Background())
	require.ErrorIs(t, err, common.ErrNetwork)
}

func TestMapError_ValidationAndDefault(t *testing.T) {
	c := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/v1/account", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "password too short"})
		}).Methods(http.MethodPost)
		r.HandleFunc("/v1/account/sessions/email", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}).Methods(http.MethodPost)
	})

	_, err := c.CreateIdentity(context.Background(), "a@x.com", "x", "Alice")
	require.ErrorIs(t, err, common.ErrValidation)
	require.Contains(t, err.Error(), "password too short")

	_, err = c.CreateSession(context.Background(), "a@x.com", "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrValidation)
}
