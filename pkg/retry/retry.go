package retry

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Defaults applied by NewPolicy when the corresponding Options field is zero.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 200 * time.Millisecond
)

// DefaultRetryableStatus is the transient set used when Options leaves
// RetryableStatus empty.
var DefaultRetryableStatus = []int{
	http.StatusRequestTimeout,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Options configures a Policy.
type Options struct {
	// MaxAttempts caps the total number of attempts, first try included.
	MaxAttempts int

	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration

	// Exponential grows the delay per retry: InitialDelay * 2^n for the
	// 0-based retry index n. When false every wait is InitialDelay.
	Exponential bool

	// RetryableStatus lists the response codes worth retrying.
	// Empty means DefaultRetryableStatus.
	RetryableStatus []int

	// OnRetry is observed before each wait with the 0-based retry index and
	// the delay about to be slept. It never affects control flow.
	OnRetry func(retry int, delay time.Duration)
}

// Policy re-attempts an HTTP operation on transport errors and on transient
// status codes, up to a bounded attempt count.
type Policy struct {
	opts      Options
	retryable map[int]struct{}
}

// NewPolicy builds a Policy from opts, filling in defaults.
func NewPolicy(opts Options) *Policy {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	codes := opts.RetryableStatus
	if len(codes) == 0 {
		codes = DefaultRetryableStatus
	}
	retryable := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		retryable[c] = struct{}{}
	}
	return &Policy{opts: opts, retryable: retryable}
}

// MaxAttempts returns the effective attempt cap.
func (p *Policy) MaxAttempts() int { return p.opts.MaxAttempts }

// Delay returns the wait before the retry with 0-based index n.
func (p *Policy) Delay(n int) time.Duration {
	if !p.opts.Exponential {
		return p.opts.InitialDelay
	}
	return p.opts.InitialDelay << uint(n)
}

// Execute runs op until it yields a non-retryable outcome or the attempt cap
// is reached. The final outcome, success or not, is returned unchanged; no
// synthetic error is fabricated. Bodies of responses that are retried away
// are drained and closed. Cancellation during an inter-attempt wait returns
// ctx.Err().
func (p *Policy) Execute(ctx context.Context, op func(context.Context) (*http.Response, error)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := op(ctx)
		if attempt == p.opts.MaxAttempts-1 || !p.shouldRetry(resp, err) {
			return resp, err
		}
		if resp != nil {
			// This response is never surfaced; release the connection.
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		delay := p.Delay(attempt)
		if p.opts.OnRetry != nil {
			p.opts.OnRetry(attempt, delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Policy) shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	_, ok := p.retryable[resp.StatusCode]
	return ok
}
