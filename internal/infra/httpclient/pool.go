package httpclient

import (
	"net/http"
	"time"
)

// All Ollama-bound clients share one transport so the embedder, the intent
// classifier, and the generator draw from a single connection pool.
var sharedTransport = newTransport()

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 2 * time.Minute
	return t
}

// NewPooledClient returns a client over the shared transport. The timeout
// must cover a full model invocation, not a single round trip.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}
