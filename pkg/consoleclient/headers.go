package consoleclient

import (
	"net/http"
	"sync"
)

// Header fields the synchronizer manages on every client configuration.
const (
	HeaderAuthorization = "Authorization"
	HeaderAccessToken   = "X-Access-Token"
)

// HeaderSink is one mutable header container. Map-shaped containers are
// adapted with MapSink; containers that already expose setter/getter-style
// mutation implement the interface directly.
type HeaderSink interface {
	SetHeader(key, value string)
	DelHeader(key string)
}

// MapSink adapts an http.Header (or any header map) to the HeaderSink shape.
type MapSink http.Header

func (m MapSink) SetHeader(key, value string) { http.Header(m).Set(key, value) }
func (m MapSink) DelHeader(key string)        { http.Header(m).Del(key) }

// HeaderSync applies or removes the session credential across every
// registered sink. Apply holds one lock across the whole sink list, so a
// caller never observes one configuration updated and another stale.
type HeaderSync struct {
	mu    sync.Mutex
	sinks []HeaderSink
	cred  string
}

func NewHeaderSync() *HeaderSync {
	return &HeaderSync{}
}

// Register adds a sink and immediately brings it in line with the last
// applied credential, so configurations built after sign-in start in sync.
func (h *HeaderSync) Register(sink HeaderSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = append(h.sinks, sink)
	applySink(sink, h.cred)
}

// Apply sets both credential headers on every sink when cred is non-empty,
// and removes both when it is empty. Idempotent.
func (h *HeaderSync) Apply(cred string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cred = cred
	for _, sink := range h.sinks {
		applySink(sink, cred)
	}
}

func applySink(sink HeaderSink, cred string) {
	if cred == "" {
		sink.DelHeader(HeaderAuthorization)
		sink.DelHeader(HeaderAccessToken)
		return
	}
	sink.SetHeader(HeaderAuthorization, "Bearer "+cred)
	sink.SetHeader(HeaderAccessToken, cred)
}
