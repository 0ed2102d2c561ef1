package httpres

import "net/http"

// Response is the immutable record of one completed HTTP exchange: status
// code, headers and raw body text. It is created once per request and never
// mutated afterwards. Non-2xx responses are still Responses, not errors.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// IsSuccess reports whether the status code is in [200, 300).
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Bytes returns the raw body.
func (r *Response) Bytes() []byte { return []byte(r.Body) }

// Typed pairs a Response with the payload decoded from its body. Data is
// nil when the body was not valid JSON for T; the exchange itself is still
// considered complete.
type Typed[T any] struct {
	*Response

	Data *T
}
