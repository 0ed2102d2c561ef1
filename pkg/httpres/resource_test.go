package httpres

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sigflow-dev/sigflow/pkg/retry"
	"github.com/sigflow-dev/sigflow/pkg/sigtest"
)

type user struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func fastRetry(attempts int) retry.Options {
	return retry.Options{MaxAttempts: attempts, InitialDelay: time.Millisecond}
}

func TestTypedGet(t *testing.T) {
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Get("/users/1", func(w http.ResponseWriter, r *http.Request) {
			sigtest.JSON(w, 200, user{Name: "ada", Email: "ada@example.com"})
		})
	})
	res := New(srv.URL)

	got, err := Get[user](context.Background(), res, "/users/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsSuccess() {
		t.Errorf("expected success for status %d", got.StatusCode)
	}
	if got.Data == nil || got.Data.Name != "ada" {
		t.Fatalf("expected decoded payload, got %+v", got.Data)
	}

	if res.Status().Get() != 200 {
		t.Errorf("status signal: expected 200, got %d", res.Status().Get())
	}
	if res.Value().Get() != got.Response {
		t.Error("value signal must hold the completed response")
	}
	if res.Loading().Get() {
		t.Error("loading must be false after completion")
	}
	if res.Err().Get() != nil {
		t.Errorf("error signal must be nil on success, got %v", res.Err().Get())
	}
}

func TestTypedGetUndecodableBody(t *testing.T) {
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Get("/blob", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte("not json at all"))
		})
	})
	res := New(srv.URL)

	got, err := Get[user](context.Background(), res, "/blob")
	if err != nil {
		t.Fatalf("an undecodable body must not fail the request, got %v", err)
	}
	if got.Data != nil {
		t.Errorf("expected nil payload, got %+v", got.Data)
	}
	if got.Body != "not json at all" {
		t.Errorf("raw body must be preserved, got %q", got.Body)
	}
}

func TestRetryThenSuccess(t *testing.T) {
	seq := sigtest.NewSequence(
		sigtest.Step{Code: 503},
		sigtest.Step{Code: 503},
		sigtest.Step{Code: 200, Body: user{Name: "ada"}},
	)
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Handle("/flaky", seq)
	})

	observed := 0
	res := New(srv.URL, WithRetry(retry.Options{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		OnRetry:      func(int, time.Duration) { observed++ },
	}))

	resp, err := res.Get(context.Background(), "/flaky")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected the final 200, got %d", resp.StatusCode)
	}
	if seq.Calls() != 3 {
		t.Errorf("expected 3 requests to reach the server, got %d", seq.Calls())
	}
	if observed != 2 {
		t.Errorf("expected exactly 2 retry observations, got %d", observed)
	}
}

func TestErrorStatusIsDataNotError(t *testing.T) {
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
			sigtest.JSON(w, 404, map[string]string{"message": "nope"})
		})
	})
	res := New(srv.URL)

	resp, err := res.Get(context.Background(), "/missing")
	if err != nil {
		t.Fatalf("a completed 404 must not be a Go error, got %v", err)
	}
	if resp.IsSuccess() {
		t.Error("404 is not success")
	}
	if res.Err().Get() != nil {
		t.Errorf("error signal is reserved for infrastructure failure, got %v", res.Err().Get())
	}
	if res.Status().Get() != 404 {
		t.Errorf("expected status signal 404, got %d", res.Status().Get())
	}
}

func TestTransportFailure(t *testing.T) {
	srv := sigtest.NewServer(t, func(mux chi.Router) {})
	url := srv.URL
	srv.Close()

	res := New(url, WithRetry(fastRetry(1)))

	_, err := res.Get(context.Background(), "/down")
	if err == nil {
		t.Fatal("expected an error from a dead server")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Tag != TagRequestError {
		t.Errorf("expected tag %s, got %s", TagRequestError, reqErr.Tag)
	}
	if res.Err().Get() == nil {
		t.Error("the error signal must be populated")
	}
	if res.Loading().Get() {
		t.Error("loading must be cleared on failure")
	}
}

func TestCancellationTag(t *testing.T) {
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
	})
	res := New(srv.URL, WithRetry(fastRetry(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := res.Get(ctx, "/slow")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.Tag != TagTimeout {
		t.Errorf("expected tag %s, got %s", TagTimeout, reqErr.Tag)
	}
}

func TestPostSerializesBody(t *testing.T) {
	rec := sigtest.Record(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sigtest.JSON(w, 201, map[string]int{"id": 1})
	}))
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Handle("/users", rec)
	})
	res := New(srv.URL, WithHeader("X-Api-Key", "sekrit"))

	resp, err := res.Post(context.Background(), "/users", user{Name: "ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}

	reqs := rec.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodPost {
		t.Errorf("expected POST, got %s", reqs[0].Method)
	}
	want := `{"name":"ada","email":"ada@example.com"}`
	if reqs[0].Body != want {
		t.Errorf("expected body %s, got %s", want, reqs[0].Body)
	}
}

func TestRefreshReplaysLastRequest(t *testing.T) {
	rec := sigtest.Record(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sigtest.JSON(w, 200, map[string]string{"ok": "yes"})
	}))
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Handle("/things", rec)
	})
	res := New(srv.URL)

	if _, err := res.Refresh(context.Background()); !errors.Is(err, ErrNoRequest) {
		t.Fatalf("expected ErrNoRequest before any call, got %v", err)
	}

	if _, err := res.Post(context.Background(), "/things", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := res.Value().Get()
	if _, err := res.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}
	if res.Value().Get() == first {
		t.Error("refresh must produce a new value")
	}

	reqs := rec.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].Method != reqs[1].Method || reqs[0].Path != reqs[1].Path || reqs[0].Body != reqs[1].Body {
		t.Errorf("refresh must replay verb, URL and body: %+v vs %+v", reqs[0], reqs[1])
	}
}

func TestCustomVerb(t *testing.T) {
	rec := sigtest.Record(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Handle("/resource", rec)
	})
	res := New(srv.URL)

	if _, err := res.Do(context.Background(), "OPTIONS", "/resource", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reqs := rec.Requests()
	if len(reqs) != 1 || reqs[0].Method != "OPTIONS" {
		t.Fatalf("expected one OPTIONS request, got %+v", reqs)
	}
}

func TestValueClearedWhileLoading(t *testing.T) {
	srv := sigtest.NewServer(t, func(mux chi.Router) {
		mux.Get("/a", func(w http.ResponseWriter, r *http.Request) {
			sigtest.JSON(w, 200, map[string]int{"n": 1})
		})
	})
	res := New(srv.URL)

	if _, err := res.Get(context.Background(), "/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value().Get() == nil {
		t.Fatal("expected a value after the first call")
	}

	// The prior value is cleared as the next call begins, so the value
	// signal fires twice: once with nil, once with the fresh response.
	var seen []*Response
	res.Value().Subscribe(func() { seen = append(seen, res.Value().Get()) })
	if _, err := res.Get(context.Background(), "/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 value notifications, got %d", len(seen))
	}
	if seen[0] != nil {
		t.Error("prior value must be cleared at the start of a call")
	}
	if seen[1] == nil {
		t.Error("expected the fresh response as the second value")
	}
}

func TestInternalSignalsIncludeStatus(t *testing.T) {
	res := New("http://example.invalid")

	sigs := res.InternalSignals()
	if len(sigs) != 5 {
		t.Fatalf("expected base set plus status, got %d signals", len(sigs))
	}
}
