package sigtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// NewServer starts an httptest server around a chi router configured by the
// caller. The server is closed automatically when the test finishes.
func NewServer(t *testing.T, configure func(mux chi.Router)) *httptest.Server {
	t.Helper()
	mux := chi.NewRouter()
	configure(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Step is one scripted reply: a status code and an optional JSON body.
type Step struct {
	Code int
	Body any
}

// Sequence replies with a scripted list of steps, one per request, repeating
// the last step once the script is exhausted. Safe for concurrent requests.
type Sequence struct {
	mu    sync.Mutex
	steps []Step
	calls int
}

// NewSequence builds a Sequence from steps. At least one step is required.
func NewSequence(steps ...Step) *Sequence {
	if len(steps) == 0 {
		panic("sigtest: NewSequence needs at least one step")
	}
	return &Sequence{steps: steps}
}

// Calls returns how many requests the sequence has served.
func (s *Sequence) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Sequence) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	step := s.steps[min(s.calls, len(s.steps)-1)]
	s.calls++
	s.mu.Unlock()

	if step.Body == nil {
		w.WriteHeader(step.Code)
		return
	}
	JSON(w, step.Code, step.Body)
}

// Recorded is one request as seen by a Recorder.
type Recorded struct {
	Method string
	Path   string
	Body   string
}

// Recorder remembers every request it serves before delegating to next,
// for replay assertions.
type Recorder struct {
	mu   sync.Mutex
	next http.Handler
	reqs []Recorded
}

// Record wraps next with request recording.
func Record(next http.Handler) *Recorder {
	return &Recorder{next: next}
}

// Requests returns a copy of everything recorded so far.
func (r *Recorder) Requests() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.reqs))
	copy(out, r.reqs)
	return out
}

func (r *Recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(body))
	r.mu.Lock()
	r.reqs = append(r.reqs, Recorded{
		Method: req.Method,
		Path:   req.URL.Path,
		Body:   string(body),
	})
	r.mu.Unlock()
	r.next.ServeHTTP(w, req)
}
