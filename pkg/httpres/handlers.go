package httpres

import (
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
)

// Handler receives the raw response for a status code it registered for.
type Handler func(*Response)

type typedHandler struct {
	target reflect.Type
	keys   map[string]struct{}
	decode func(raw []byte) (any, bool)
	pred   func(payload any) bool
	fn     func(res *Response, payload any)
}

// handlerTable holds the two per-status registries: untyped handlers that
// receive the raw response, and typed handlers that receive a decoded
// payload once it passes the shape check and the optional predicate.
// Registration accumulates: several independent handlers may share one
// status code, and re-registering adds rather than replaces.
type handlerTable struct {
	mu      sync.RWMutex
	untyped map[int][]Handler
	typed   map[int][]typedHandler
}

func newHandlerTable() *handlerTable {
	return &handlerTable{
		untyped: make(map[int][]Handler),
		typed:   make(map[int][]typedHandler),
	}
}

func (t *handlerTable) addUntyped(code int, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.untyped[code] = append(t.untyped[code], h)
}

func (t *handlerTable) addTyped(code int, h typedHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typed[code] = append(t.typed[code], h)
}

func (t *handlerTable) handlersFor(code int) ([]Handler, []typedHandler) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	u := make([]Handler, len(t.untyped[code]))
	copy(u, t.untyped[code])
	ty := make([]typedHandler, len(t.typed[code]))
	copy(ty, t.typed[code])
	return u, ty
}

var (
	successCodes = []int{
		http.StatusOK,
		http.StatusCreated,
		http.StatusAccepted,
		http.StatusNoContent,
	}
	serverErrorCodes = []int{
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
)

// OnStatus registers an untyped handler for code. Returns the resource for
// chaining.
func (r *Resource) OnStatus(code int, fn Handler) *Resource {
	r.handlers.addUntyped(code, fn)
	return r
}

// OnSuccess registers fn for 200, 201, 202 and 204.
func (r *Resource) OnSuccess(fn Handler) *Resource {
	for _, c := range successCodes {
		r.handlers.addUntyped(c, fn)
	}
	return r
}

// OnBadRequest registers fn for 400.
func (r *Resource) OnBadRequest(fn Handler) *Resource {
	return r.OnStatus(http.StatusBadRequest, fn)
}

// OnUnauthorized registers fn for 401.
func (r *Resource) OnUnauthorized(fn Handler) *Resource {
	return r.OnStatus(http.StatusUnauthorized, fn)
}

// OnNotFound registers fn for 404.
func (r *Resource) OnNotFound(fn Handler) *Resource {
	return r.OnStatus(http.StatusNotFound, fn)
}

// OnServerError registers fn for 500, 502, 503 and 504.
func (r *Resource) OnServerError(fn Handler) *Resource {
	for _, c := range serverErrorCodes {
		r.handlers.addUntyped(c, fn)
	}
	return r
}

// OnStatusAs registers a typed handler for code. On the success path fn
// fires only when T is the call's result type and pred accepts the decoded
// payload. On the error path the raw body is decoded into T, checked by the
// resource's shape matcher and then by pred; handlers whose candidate type
// does not fit the body are skipped silently. A nil pred accepts everything.
// Returns the resource for chaining.
func OnStatusAs[T any](r *Resource, code int, fn func(*Response, T), pred func(T) bool) *Resource {
	target := reflect.TypeOf((*T)(nil)).Elem()
	h := typedHandler{
		target: target,
		keys:   typeWireKeys(target),
		decode: func(raw []byte) (any, bool) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, false
			}
			return v, true
		},
		fn: func(res *Response, payload any) { fn(res, payload.(T)) },
	}
	if pred != nil {
		h.pred = func(payload any) bool { return pred(payload.(T)) }
	}
	r.handlers.addTyped(code, h)
	return r
}

// OnSuccessAs registers a typed handler for 200, 201, 202 and 204.
func OnSuccessAs[T any](r *Resource, fn func(*Response, T), pred func(T) bool) *Resource {
	for _, c := range successCodes {
		OnStatusAs(r, c, fn, pred)
	}
	return r
}

// OnBadRequestAs registers a typed handler for 400.
func OnBadRequestAs[T any](r *Resource, fn func(*Response, T), pred func(T) bool) *Resource {
	return OnStatusAs(r, http.StatusBadRequest, fn, pred)
}

// OnUnauthorizedAs registers a typed handler for 401.
func OnUnauthorizedAs[T any](r *Resource, fn func(*Response, T), pred func(T) bool) *Resource {
	return OnStatusAs(r, http.StatusUnauthorized, fn, pred)
}

// OnNotFoundAs registers a typed handler for 404.
func OnNotFoundAs[T any](r *Resource, fn func(*Response, T), pred func(T) bool) *Resource {
	return OnStatusAs(r, http.StatusNotFound, fn, pred)
}

// OnServerErrorAs registers a typed handler for 500, 502, 503 and 504.
func OnServerErrorAs[T any](r *Resource, fn func(*Response, T), pred func(T) bool) *Resource {
	for _, c := range serverErrorCodes {
		OnStatusAs(r, c, fn, pred)
	}
	return r
}
