package api

import "fmt"

// RateLimitError is returned when an endpoint kept answering HTTP 429
// until the retry budget ran out.
type RateLimitError struct {
	Endpoint string
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("endpoint %s returned HTTP 429 after %d retries; increase retry wait or request delay",
		e.Endpoint, e.Attempts)
}

// RequestError is returned for any other failed request: transport errors,
// timeouts, or non-success HTTP responses. These are never retried.
type RequestError struct {
	Endpoint string
	Status   int    // 0 when the request never got a response
	Body     string // response body for HTTP errors, truncated
	Err      error  // underlying transport error, if any
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("endpoint %s returned HTTP %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
