package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/bgricker/apismoke/internal/logging"
	"github.com/bgricker/apismoke/internal/registry"
)

// Options configure the mock API.
type Options struct {
	// Token is the bearer token accepted by every route. Empty accepts any token.
	Token string
	// PathPrefix is prepended to every descriptor path, e.g. "/api/v1.0".
	PathPrefix string
	// Status overrides the response status for a descriptor, keyed by its label ("POST /path").
	Status map[string]int
	Logger logging.Logger
}

// Handler answers every descriptor route of a registry.
type Handler struct {
	router *mux.Router
	opts   Options

	lock sync.Mutex
	hits map[string]int
}

// NewHandler registers one route per descriptor, skipped ones included.
func NewHandler(endpoints []registry.Endpoint, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logging.NullLogger()
	}
	opts.PathPrefix = strings.TrimRight(opts.PathPrefix, "/")

	h := &Handler{
		router: mux.NewRouter(),
		opts:   opts,
		hits:   make(map[string]int),
	}
	for _, ep := range endpoints {
		ep := ep
		h.router.HandleFunc(opts.PathPrefix+ep.Path, func(w http.ResponseWriter, r *http.Request) {
			h.serveEndpoint(w, r, ep)
		}).Methods(ep.Method)
	}
	h.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		opts.Logger.Printf("unknown route method=%s path=%s", r.Method, r.URL.Path)
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Hits returns how many authorized and unauthorized calls reached the descriptor labelled label.
func (h *Handler) Hits(label string) int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.hits[label]
}

func (h *Handler) serveEndpoint(w http.ResponseWriter, r *http.Request, ep registry.Endpoint) {
	label := ep.Label()
	h.lock.Lock()
	h.hits[label]++
	h.lock.Unlock()

	if !h.authorized(r) {
		h.opts.Logger.Printf("rejected endpoint=%q reason=unauthorized", label)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	status := http.StatusOK
	if s, ok := h.opts.Status[label]; ok {
		status = s
	}
	h.opts.Logger.Printf("served endpoint=%q status=%d", label, status)
	if status >= 400 {
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}
	writeJSON(w, status, map[string]interface{}{"data": []interface{}{}})
}

func (h *Handler) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return h.opts.Token == "" || token == h.opts.Token
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
