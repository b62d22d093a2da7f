package ioweb

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gnames/flasky/pkg/schema"
	"github.com/gnames/gnfmt"
	"github.com/gorilla/mux"
)

// Info describes the running application on the index route.
type Info struct {
	App     string `json:"app"`
	Profile string `json:"profile"`
	Version string `json:"version"`
	Build   string `json:"build"`
}

type handlers struct {
	info    Info
	store   Store
	perPage int
}

// NewRouter creates the router of the application with request logging
// installed.
func NewRouter(info Info, store Store, perPage int) *mux.Router {
	h := handlers{info: info, store: store, perPage: perPage}

	r := mux.NewRouter()
	r.Use(RequestLogger)
	r.HandleFunc("/", h.index).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/posts", h.posts).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}", h.user).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/followers", h.followers).
		Methods(http.MethodGet)

	r.NotFoundHandler = RequestLogger(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = RequestLogger(http.HandlerFunc(methodNotAllowed))
	return r
}

func (h handlers) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}

func (h handlers) posts(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.LatestPosts(r.Context(), h.perPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res == nil {
		res = []schema.Post{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (h handlers) user(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	res, err := h.store.User(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h handlers) followers(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	res, err := h.store.Followers(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res == nil {
		res = []schema.User{}
	}
	writeJSON(w, http.StatusOK, res)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed,
		errorBody{Error: "method not allowed"})
}

func userID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid user id"})
		return 0, false
	}
	return uint(id), true
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	slog.Error("Request failed",
		"path", r.URL.Path,
		"request_id", RequestID(r.Context()),
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError,
		errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(v)
	if err != nil {
		slog.Error("Cannot encode response", "error", err)
		status = http.StatusInternalServerError
		bs = []byte(`{"error":"cannot encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(bs)
}
