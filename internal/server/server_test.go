package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/repositories"
	"github.com/desertthunder/lipl/internal/server"
	"github.com/desertthunder/lipl/internal/shared"
	tu "github.com/desertthunder/lipl/internal/testing"
)

const (
	testUser = "lipl"
	testPass = "secret"
)

// newTestServer wires the full middleware chain in front of the API, backed
// by an in-memory store.
func newTestServer(t *testing.T) (*repositories.Connection, *server.BasicRouter) {
	t.Helper()

	conn := tu.NewConnection(t, tu.Drivers[0])

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(shared.NewLogger(io.Discard)),
		server.BasicAuth(conn, shared.AuthConfig{Username: testUser, Password: testPass}),
	)
	server.NewAPI(conn).Register(router)

	return conn, router
}

func request(t *testing.T, router http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", tu.BasicAuth(testUser, testPass))
	for key, values := range header {
		req.Header[key] = values
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestBasicAuth(t *testing.T) {
	_, router := newTestServer(t)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, server.Prefix+"/lyric", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", recorder.Code)
		}
		if recorder.Header().Get("WWW-Authenticate") == "" {
			t.Error("expected a WWW-Authenticate challenge")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, server.Prefix+"/lyric", nil)
		req.Header.Set("Authorization", tu.BasicAuth(testUser, "wrong"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("configured fallback pair", func(t *testing.T) {
		recorder := request(t, router, http.MethodGet, server.Prefix+"/lyric", "", nil)
		if recorder.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", recorder.Code)
		}
	})

	t.Run("stored credentials win over the fallback", func(t *testing.T) {
		conn, router := newTestServer(t)

		if _, err := conn.UpsertUser(context.Background(), "alice", "pw"); err != nil {
			t.Fatalf("failed to upsert user: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, server.Prefix+"/lyric", nil)
		req.Header.Set("Authorization", tu.BasicAuth("alice", "pw"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", recorder.Code)
		}
	})
}

func TestParseBasicAuth(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		credentials, err := server.ParseBasicAuth(tu.BasicAuth("alice", "p:w"))
		if err != nil {
			t.Fatalf("failed to parse header: %v", err)
		}
		if credentials.Username != "alice" || credentials.Password != "p:w" {
			t.Errorf("unexpected credentials: %+v", credentials)
		}
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		if _, err := server.ParseBasicAuth("Bearer token"); err == nil {
			t.Error("expected an error for a bearer header")
		}
	})

	t.Run("rejects bad base64", func(t *testing.T) {
		if _, err := server.ParseBasicAuth("Basic ???"); err == nil {
			t.Error("expected an error for malformed base64")
		}
	})

	t.Run("rejects a pair without a colon", func(t *testing.T) {
		if _, err := server.ParseBasicAuth("Basic YWxpY2U"); err == nil {
			t.Error("expected an error for a missing password")
		}
	})
}

func TestLyricEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	id := models.NewID().String()

	t.Run("create", func(t *testing.T) {
		body := `{"id":"` + id + `","title":"Song","parts":[["line one"],["line two","line three"]]}`
		recorder := request(t, router, http.MethodPost, server.Prefix+"/lyric", body, nil)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("create assigns a missing id", func(t *testing.T) {
		recorder := request(t, router, http.MethodPost, server.Prefix+"/lyric", `{"title":"Other","parts":[["x"]]}`, nil)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}
	})

	t.Run("get", func(t *testing.T) {
		recorder := request(t, router, http.MethodGet, server.Prefix+"/lyric/"+id, "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if recorder.Header().Get("ETag") == "" {
			t.Error("expected an ETag header")
		}
		if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		var lyric models.Lyric
		if err := json.Unmarshal(recorder.Body.Bytes(), &lyric); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if lyric.Title != "Song" || len(lyric.Parts) != 2 {
			t.Errorf("unexpected lyric: %+v", lyric)
		}
	})

	t.Run("not modified", func(t *testing.T) {
		first := request(t, router, http.MethodGet, server.Prefix+"/lyric/"+id, "", nil)
		etag := first.Header().Get("ETag")
		if etag == "" {
			t.Fatal("expected an ETag header")
		}

		second := request(t, router, http.MethodGet, server.Prefix+"/lyric/"+id, "",
			http.Header{"If-None-Match": []string{etag}})
		if second.Code != http.StatusNotModified {
			t.Errorf("expected 304, got %d", second.Code)
		}
		if second.Body.Len() != 0 {
			t.Error("expected an empty 304 body")
		}
	})

	t.Run("list carries an aggregate etag", func(t *testing.T) {
		first := request(t, router, http.MethodGet, server.Prefix+"/lyric", "", nil)
		if first.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", first.Code)
		}
		etag := first.Header().Get("ETag")
		if etag == "" {
			t.Fatal("expected an ETag header on the list")
		}

		second := request(t, router, http.MethodGet, server.Prefix+"/lyric", "",
			http.Header{"If-None-Match": []string{etag}})
		if second.Code != http.StatusNotModified {
			t.Errorf("expected 304, got %d", second.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		recorder := request(t, router, http.MethodPut, server.Prefix+"/lyric/"+id, `{"title":"Renamed","parts":[["new line"]]}`, nil)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}

		after := request(t, router, http.MethodGet, server.Prefix+"/lyric/"+id, "", nil)
		var lyric models.Lyric
		if err := json.Unmarshal(after.Body.Bytes(), &lyric); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if lyric.Title != "Renamed" {
			t.Errorf("expected title 'Renamed', got %q", lyric.Title)
		}
	})

	t.Run("update of a missing lyric", func(t *testing.T) {
		recorder := request(t, router, http.MethodPut, server.Prefix+"/lyric/missing", `{"title":"x","parts":[]}`, nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", recorder.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		recorder := request(t, router, http.MethodPost, server.Prefix+"/lyric", "not json", nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		recorder := request(t, router, http.MethodDelete, server.Prefix+"/lyric/"+id, "", nil)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}

		gone := request(t, router, http.MethodGet, server.Prefix+"/lyric/"+id, "", nil)
		if gone.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", gone.Code)
		}

		again := request(t, router, http.MethodDelete, server.Prefix+"/lyric/"+id, "", nil)
		if again.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", again.Code)
		}
	})
}

func TestPlaylistEndpoints(t *testing.T) {
	conn, router := newTestServer(t)

	a := tu.SeedLyric(t, conn, "A", models.Parts{{"a"}})
	b := tu.SeedLyric(t, conn, "B", models.Parts{{"b"}})

	id := models.NewID().String()

	t.Run("create", func(t *testing.T) {
		body := `{"id":"` + id + `","title":"Mix","members":["` + b.ID + `","` + a.ID + `"]}`
		recorder := request(t, router, http.MethodPost, server.Prefix+"/playlist", body, nil)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
	})

	t.Run("get preserves member order", func(t *testing.T) {
		recorder := request(t, router, http.MethodGet, server.Prefix+"/playlist/"+id, "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		var playlist models.Playlist
		if err := json.Unmarshal(recorder.Body.Bytes(), &playlist); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(playlist.Members) != 2 || playlist.Members[0] != b.ID || playlist.Members[1] != a.ID {
			t.Errorf("expected members [%s %s], got %v", b.ID, a.ID, playlist.Members)
		}
	})

	t.Run("create with an unknown member", func(t *testing.T) {
		recorder := request(t, router, http.MethodPost, server.Prefix+"/playlist",
			`{"title":"Broken","members":["no-such-lyric"]}`, nil)
		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", recorder.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		recorder := request(t, router, http.MethodPut, server.Prefix+"/playlist/"+id,
			`{"title":"Mix 2","members":["`+a.ID+`"]}`, nil)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
	})

	t.Run("update of a missing playlist", func(t *testing.T) {
		recorder := request(t, router, http.MethodPut, server.Prefix+"/playlist/missing",
			`{"title":"x","members":[]}`, nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", recorder.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		recorder := request(t, router, http.MethodDelete, server.Prefix+"/playlist/"+id, "", nil)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}

		gone := request(t, router, http.MethodGet, server.Prefix+"/playlist/"+id, "", nil)
		if gone.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", gone.Code)
		}
	})
}

func TestDbEndpoints(t *testing.T) {
	conn, router := newTestServer(t)

	lyric := tu.SeedLyric(t, conn, "Song", models.Parts{{"line one"}})
	tu.SeedPlaylist(t, conn, "Mix", []string{lyric.ID})

	t.Run("export", func(t *testing.T) {
		recorder := request(t, router, http.MethodGet, server.Prefix+"/db", "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if recorder.Header().Get("ETag") == "" {
			t.Error("expected an ETag header")
		}

		var db models.Db
		if err := json.Unmarshal(recorder.Body.Bytes(), &db); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(db.Lyrics) != 1 || len(db.Playlists) != 1 {
			t.Errorf("unexpected snapshot: %+v", db)
		}
	})

	t.Run("replace", func(t *testing.T) {
		id := models.NewID().String()
		body := `{"lyrics":[{"id":"` + id + `","title":"Only","parts":[["x"]]}],"playlists":[]}`

		recorder := request(t, router, http.MethodPost, server.Prefix+"/db", body, nil)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", recorder.Code, recorder.Body.String())
		}

		after := request(t, router, http.MethodGet, server.Prefix+"/db", "", nil)
		var db models.Db
		if err := json.Unmarshal(after.Body.Bytes(), &db); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(db.Lyrics) != 1 || db.Lyrics[0].Title != "Only" {
			t.Errorf("expected the replaced snapshot, got %+v", db)
		}
		if len(db.Playlists) != 0 {
			t.Errorf("expected no playlists, got %+v", db.Playlists)
		}
	})
}

func TestUuidEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	t.Run("translates canonical uuids", func(t *testing.T) {
		canonical := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
		recorder := request(t, router, http.MethodGet, server.Prefix+"/uuid/"+canonical, "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		var short string
		if err := json.Unmarshal(recorder.Body.Bytes(), &short); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}

		want, err := models.ParseCanonicalID(canonical)
		if err != nil {
			t.Fatalf("failed to parse canonical uuid: %v", err)
		}
		if short != want.String() {
			t.Errorf("expected %q, got %q", want.String(), short)
		}
	})

	t.Run("rejects malformed uuids", func(t *testing.T) {
		recorder := request(t, router, http.MethodGet, server.Prefix+"/uuid/not-a-uuid", "", nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})
}
