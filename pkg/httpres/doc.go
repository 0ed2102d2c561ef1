// Package httpres provides Resource, an HTTP client surface layered on the
// async/signal core: each verb runs through the loading/error/value state
// machine, executes under a retry policy, records the last status code, and
// dispatches the completed response to status-code-keyed handlers.
//
//	res := httpres.New("https://api.example.com",
//		httpres.WithRetry(retry.Options{MaxAttempts: 3, Exponential: true}),
//	)
//	httpres.OnNotFoundAs(res, func(_ *httpres.Response, e APIError) {
//		log.Println("missing:", e.Message)
//	}, nil)
//
//	user, err := httpres.Get[User](ctx, res, "/users/1")
//
// HTTP-level errors (4xx/5xx) are data: they flow through the value signal
// and the handler table, never through Go errors. The error signal and the
// returned error are reserved for infrastructure failure, tagged as
// HTTP_REQUEST_ERROR, TIMEOUT or UNKNOWN_ERROR.
//
// Go methods cannot introduce type parameters, so typed verbs are the
// package-level generic functions Get, Post, Put, Patch, Delete and Do;
// the untyped verbs are methods on Resource.
//
// JSON decoding uses encoding/json, whose field matching is
// case-insensitive by default.
package httpres
