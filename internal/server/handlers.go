package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/lipl/internal/models"
	"github.com/desertthunder/lipl/internal/repositories"
	"github.com/desertthunder/lipl/internal/shared"
)

// Prefix is the base path of the JSON API.
const Prefix = "/lipl/api/v1"

// API serves the lyrics storage endpoints over a repository connection.
type API struct {
	repo *repositories.Connection
}

// NewAPI creates the endpoint set for the given connection.
func NewAPI(repo *repositories.Connection) *API {
	return &API{repo: repo}
}

// Register wires all routes into the router.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, Prefix+"/lyric", http.HandlerFunc(a.LyricList))
	r.Handle(http.MethodPost, Prefix+"/lyric", http.HandlerFunc(a.LyricCreate))
	r.Handle(http.MethodGet, Prefix+"/lyric/{id}", http.HandlerFunc(a.LyricGet))
	r.Handle(http.MethodPut, Prefix+"/lyric/{id}", http.HandlerFunc(a.LyricUpdate))
	r.Handle(http.MethodDelete, Prefix+"/lyric/{id}", http.HandlerFunc(a.LyricDelete))

	r.Handle(http.MethodGet, Prefix+"/playlist", http.HandlerFunc(a.PlaylistList))
	r.Handle(http.MethodPost, Prefix+"/playlist", http.HandlerFunc(a.PlaylistCreate))
	r.Handle(http.MethodGet, Prefix+"/playlist/{id}", http.HandlerFunc(a.PlaylistGet))
	r.Handle(http.MethodPut, Prefix+"/playlist/{id}", http.HandlerFunc(a.PlaylistUpdate))
	r.Handle(http.MethodDelete, Prefix+"/playlist/{id}", http.HandlerFunc(a.PlaylistDelete))

	r.Handle(http.MethodGet, Prefix+"/db", http.HandlerFunc(a.DbGet))
	r.Handle(http.MethodPost, Prefix+"/db", http.HandlerFunc(a.DbReplace))

	r.Handle(http.MethodGet, Prefix+"/uuid/{id}", http.HandlerFunc(a.UuidGet))
}

// respondError maps the error taxonomy onto status codes. Error detail is
// logged server-side and never echoed to the client body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	shared.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)

	switch {
	case errors.Is(err, shared.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, shared.ErrAuthFailed), errors.Is(err, shared.ErrAuthHeader):
		w.Header().Set("WWW-Authenticate", `Basic realm="Lipl Api"`)
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, shared.ErrInvalidBody), errors.Is(err, shared.ErrInvalidID):
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// writeJSON writes a 200 response with the entity's etag attached.
func writeJSON(w http.ResponseWriter, r *http.Request, etag string, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// notModified reports whether the caller's previously seen token matches,
// allowing the encode path to be skipped.
func notModified(r *http.Request, etag string) bool {
	return r.Header.Get("If-None-Match") == etag
}

func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidBody, err)
	}
	return nil
}

// LyricList handles GET /lyric.
func (a *API) LyricList(w http.ResponseWriter, r *http.Request) {
	lyrics, err := a.repo.LyricList(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	etag := models.ListToken(lyrics).String()
	if notModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, r, etag, lyrics)
}

// LyricGet handles GET /lyric/{id}.
func (a *API) LyricGet(w http.ResponseWriter, r *http.Request) {
	lyric, err := a.repo.Lyric(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	etag := lyric.Token().String()
	if notModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, r, etag, lyric)
}

// LyricCreate handles POST /lyric. The body carries a full lyric; an absent
// id is assigned server-side.
func (a *API) LyricCreate(w http.ResponseWriter, r *http.Request) {
	var lyric models.Lyric
	if err := decodeBody(r, &lyric); err != nil {
		respondError(w, r, err)
		return
	}
	if lyric.ID == "" {
		lyric.ID = models.NewID().String()
	}

	if _, err := a.repo.InsertLyric(r.Context(), lyric); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// LyricUpdate handles PUT /lyric/{id}.
func (a *API) LyricUpdate(w http.ResponseWriter, r *http.Request) {
	var post models.LyricPost
	if err := decodeBody(r, &post); err != nil {
		respondError(w, r, err)
		return
	}

	lyric := models.NewLyric(r.PathValue("id"), post.Title, post.Parts)
	updated, err := a.repo.UpdateLyric(r.Context(), lyric)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !updated {
		respondError(w, r, fmt.Errorf("%w: lyric %s", shared.ErrNotFound, lyric.ID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LyricDelete handles DELETE /lyric/{id}.
func (a *API) LyricDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := a.repo.DeleteLyric(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !deleted {
		respondError(w, r, fmt.Errorf("%w: lyric %s", shared.ErrNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaylistList handles GET /playlist.
func (a *API) PlaylistList(w http.ResponseWriter, r *http.Request) {
	playlists, err := a.repo.PlaylistList(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	etag := models.ListToken(playlists).String()
	if notModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, r, etag, playlists)
}

// PlaylistGet handles GET /playlist/{id}.
func (a *API) PlaylistGet(w http.ResponseWriter, r *http.Request) {
	playlist, err := a.repo.Playlist(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	etag := playlist.Token().String()
	if notModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, r, etag, playlist)
}

// PlaylistCreate handles POST /playlist.
func (a *API) PlaylistCreate(w http.ResponseWriter, r *http.Request) {
	var playlist models.Playlist
	if err := decodeBody(r, &playlist); err != nil {
		respondError(w, r, err)
		return
	}
	if playlist.ID == "" {
		playlist.ID = models.NewID().String()
	}

	if err := a.repo.InsertPlaylist(r.Context(), playlist, true); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// PlaylistUpdate handles PUT /playlist/{id}.
func (a *API) PlaylistUpdate(w http.ResponseWriter, r *http.Request) {
	var post models.PlaylistPost
	if err := decodeBody(r, &post); err != nil {
		respondError(w, r, err)
		return
	}

	playlist := models.NewPlaylist(r.PathValue("id"), post.Title, post.Members)
	if err := a.repo.UpdatePlaylist(r.Context(), playlist); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlaylistDelete handles DELETE /playlist/{id}.
func (a *API) PlaylistDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := a.repo.DeletePlaylist(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !deleted {
		respondError(w, r, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DbGet handles GET /db, the whole-store export.
func (a *API) DbGet(w http.ResponseWriter, r *http.Request) {
	db, err := a.repo.ExportDb(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	etag := db.Token().String()
	if notModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, r, etag, db)
}

// DbReplace handles POST /db, the whole-store replace.
func (a *API) DbReplace(w http.ResponseWriter, r *http.Request) {
	var db models.Db
	if err := decodeBody(r, &db); err != nil {
		respondError(w, r, err)
		return
	}

	if err := a.repo.ReplaceDb(r.Context(), db); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UuidGet handles GET /uuid/{id}: it translates a canonical hyphenated uuid
// into the base58 form the store uses.
func (a *API) UuidGet(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseCanonicalID(r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, "", id.String())
}
