package httpres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/sigflow-dev/sigflow/pkg/async"
	"github.com/sigflow-dev/sigflow/pkg/retry"
	"github.com/sigflow-dev/sigflow/pkg/signal"
)

// Resource is an HTTP client bound to the async signal triad. Every verb
// transitions loading/error/value around the exchange, runs the transport
// call under the retry policy, records the last status code and dispatches
// the completed response through the status handler table.
//
// The *http.Client is shared with the caller and never closed by the
// resource. Like async.Resource, concurrent calls on one instance are not
// serialized; the signals see last-write-wins interleaving.
type Resource struct {
	*async.Resource[*Response]

	client    *http.Client
	base      string
	headers   http.Header
	timeout   time.Duration
	policy    *retry.Policy
	handlers  *handlerTable
	status    *signal.Value[int]
	shape     ShapeMatcher
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *Metrics
	retryOpts retry.Options

	mu      sync.Mutex
	lastReq func(context.Context) (*Response, error)
}

// New builds a Resource rooted at baseURL.
func New(baseURL string, opts ...Option) *Resource {
	r := &Resource{
		Resource: async.New[*Response](),
		client:   &http.Client{},
		base:     strings.TrimRight(baseURL, "/"),
		headers:  make(http.Header),
		handlers: newHandlerTable(),
		status:   signal.NewValue(0),
		shape:    OverlapMatcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	// The policy's observer chains logging and metrics in front of the
	// caller's own OnRetry; the caller hook runs last and cannot affect
	// control flow either way.
	ropts := r.retryOpts
	user := ropts.OnRetry
	ropts.OnRetry = func(n int, delay time.Duration) {
		r.logger.Debug("retrying request", "retry", n, "delay", delay)
		if r.metrics != nil {
			r.metrics.retries.Inc()
		}
		if user != nil {
			user(n, delay)
		}
	}
	r.policy = retry.NewPolicy(ropts)
	return r
}

// Status is the signal holding the status code of the last completed
// exchange, 0 before the first one.
func (r *Resource) Status() *signal.Value[int] { return r.status }

// InternalSignals appends the last-status signal to the composite's base
// value/loading/error/self set.
func (r *Resource) InternalSignals() []signal.Notifier {
	return append(r.Resource.InternalSignals(), r.status)
}

// Dispose clears the subscribers of every internal signal.
func (r *Resource) Dispose() {
	for _, s := range r.InternalSignals() {
		s.Dispose()
	}
}

// Get issues a GET.
func (r *Resource) Get(ctx context.Context, path string) (*Response, error) {
	return r.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST with body serialized to JSON. A nil body sends none.
func (r *Resource) Post(ctx context.Context, path string, body any) (*Response, error) {
	return r.do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT with body serialized to JSON.
func (r *Resource) Put(ctx context.Context, path string, body any) (*Response, error) {
	return r.do(ctx, http.MethodPut, path, body)
}

// Patch issues a PATCH with body serialized to JSON.
func (r *Resource) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return r.do(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE.
func (r *Resource) Delete(ctx context.Context, path string) (*Response, error) {
	return r.do(ctx, http.MethodDelete, path, nil)
}

// Do issues a request with an arbitrary verb.
func (r *Resource) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	return r.do(ctx, method, path, body)
}

func (r *Resource) do(ctx context.Context, method, path string, body any) (*Response, error) {
	t, err := run[struct{}](ctx, r, call{method: method, path: path, body: body}, false)
	if t == nil {
		return nil, err
	}
	return t.Response, err
}

// Get issues a typed GET, decoding the body into T.
func Get[T any](ctx context.Context, r *Resource, path string) (*Typed[T], error) {
	return run[T](ctx, r, call{method: http.MethodGet, path: path}, true)
}

// Post issues a typed POST.
func Post[T any](ctx context.Context, r *Resource, path string, body any) (*Typed[T], error) {
	return run[T](ctx, r, call{method: http.MethodPost, path: path, body: body}, true)
}

// Put issues a typed PUT.
func Put[T any](ctx context.Context, r *Resource, path string, body any) (*Typed[T], error) {
	return run[T](ctx, r, call{method: http.MethodPut, path: path, body: body}, true)
}

// Patch issues a typed PATCH.
func Patch[T any](ctx context.Context, r *Resource, path string, body any) (*Typed[T], error) {
	return run[T](ctx, r, call{method: http.MethodPatch, path: path, body: body}, true)
}

// Delete issues a typed DELETE.
func Delete[T any](ctx context.Context, r *Resource, path string) (*Typed[T], error) {
	return run[T](ctx, r, call{method: http.MethodDelete, path: path}, true)
}

// Do issues a typed request with an arbitrary verb.
func Do[T any](ctx context.Context, r *Resource, method, path string, body any) (*Typed[T], error) {
	return run[T](ctx, r, call{method: method, path: path, body: body}, true)
}

// Refresh re-issues the most recently executed request with identical verb,
// URL, body and typed shape, producing a fresh value. Returns ErrNoRequest
// before any request has been issued.
func (r *Resource) Refresh(ctx context.Context) (*Response, error) {
	r.mu.Lock()
	replay := r.lastReq
	r.mu.Unlock()
	if replay == nil {
		return nil, ErrNoRequest
	}
	return replay(ctx)
}

// call is the replayable description of one request.
type call struct {
	method string
	path   string
	body   any
}

func (r *Resource) remember(replay func(context.Context) (*Response, error)) {
	r.mu.Lock()
	r.lastReq = replay
	r.mu.Unlock()
}

// run stores the replay thunk for Refresh, then performs the exchange. The
// thunk re-enters run with the same arguments, so a refreshed call keeps its
// typed shape and handler dispatch behavior.
func run[T any](ctx context.Context, r *Resource, c call, typed bool) (*Typed[T], error) {
	r.remember(func(ctx context.Context) (*Response, error) {
		t, err := run[T](ctx, r, c, typed)
		if t == nil {
			return nil, err
		}
		return t.Response, err
	})
	return perform[T](ctx, r, c, typed)
}

// perform executes one exchange end to end: state transition, request
// build, retry policy, status recording, body decode, value assignment and
// handler dispatch. The loading flag is cleared and the composite notified
// on every exit path.
func perform[T any](ctx context.Context, r *Resource, c call, typed bool) (_ *Typed[T], err error) {
	r.Loading().Set(true)
	r.Err().Set(nil)
	r.Value().Set(nil)
	defer func() {
		r.Loading().Set(false)
		r.Notify()
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()
	statusCode := 0
	ctx, span := r.startSpan(ctx, c)
	defer func() { r.endSpan(span, statusCode, err) }()

	var payload []byte
	if c.body != nil {
		payload, err = json.Marshal(c.body)
		if err != nil {
			return nil, r.fail(c, fmt.Errorf("encode request body: %w", err))
		}
	}

	// Transport requests are single-use, so the policy rebuilds one per
	// attempt from the serialized body bytes and the default headers.
	resp, err := r.policy.Execute(ctx, func(ctx context.Context) (*http.Response, error) {
		req, reqErr := r.buildRequest(ctx, c, payload)
		if reqErr != nil {
			return nil, reqErr
		}
		return r.client.Do(req)
	})
	if err != nil {
		return nil, r.fail(c, err)
	}
	defer resp.Body.Close()

	statusCode = resp.StatusCode
	r.status.Set(resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.fail(c, err)
	}

	res := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       string(raw),
	}

	out := &Typed[T]{Response: res}
	var resultType reflect.Type
	var result any
	if typed {
		resultType = reflect.TypeOf((*T)(nil)).Elem()
		var v T
		// A body that does not decode yields a nil payload, not a failed
		// request: the exchange itself completed.
		if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
			out.Data = &v
			result = v
		}
	}

	r.Value().Set(res)
	r.dispatch(res, resultType, result)

	r.observe(c.method, resp.StatusCode, time.Since(started))
	r.logger.Debug("request completed",
		"method", c.method, "url", r.url(c.path), "status", resp.StatusCode)
	return out, nil
}

// dispatch routes a completed response through the handler table.
// resultType and result describe the call's decoded payload on the typed
// path; resultType is nil for untyped calls.
func (r *Resource) dispatch(res *Response, resultType reflect.Type, result any) {
	untyped, typed := r.handlers.handlersFor(res.StatusCode)
	for _, h := range untyped {
		h(res)
	}

	if res.IsSuccess() {
		// Typed success handlers fire only for the call's own result type,
		// with the payload the call already decoded.
		if resultType == nil || result == nil {
			return
		}
		for _, th := range typed {
			if th.target != resultType {
				continue
			}
			if th.pred != nil && !th.pred(result) {
				continue
			}
			th.fn(res, result)
		}
		return
	}

	// Error path: every typed handler for this status is a candidate,
	// whatever the call shape. Candidates whose decode fails or whose shape
	// does not match the body are skipped; all survivors fire.
	raw := res.Bytes()
	jsonKeys, isObject := jsonTopLevelKeys(raw)
	for _, th := range typed {
		payload, ok := th.decode(raw)
		if !ok {
			continue
		}
		if !isObject || !r.shape(jsonKeys, th.keys) {
			continue
		}
		if th.pred != nil && !th.pred(payload) {
			continue
		}
		th.fn(res, payload)
	}
}

// fail tags err, stores it in the error signal and returns the tagged error.
func (r *Resource) fail(c call, err error) error {
	tagged := &RequestError{
		Tag:    classify(err),
		Method: c.method,
		URL:    r.url(c.path),
		Err:    err,
	}
	r.Err().Set(tagged)
	if r.metrics != nil {
		r.metrics.errors.WithLabelValues(string(tagged.Tag)).Inc()
	}
	r.logger.Debug("request failed",
		"method", c.method, "url", tagged.URL, "tag", string(tagged.Tag), "err", err)
	return tagged
}

// buildRequest constructs a fresh transport request for one attempt, with
// the body replayed from the serialized bytes and the default headers
// applied.
func (r *Resource) buildRequest(ctx context.Context, c call, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, r.url(c.path), body)
	if err != nil {
		return nil, err
	}
	for name, values := range r.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// url resolves path against the base URL. Absolute URLs pass through.
func (r *Resource) url(path string) string {
	if path == "" {
		return r.base
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return r.base + "/" + strings.TrimLeft(path, "/")
}
