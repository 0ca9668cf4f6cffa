package download

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds every request, including reading the body.
	DefaultTimeout = 5 * time.Minute
	maxRedirects   = 10
)

// ErrInsecureScheme is returned for any request that is not HTTPS.
var ErrInsecureScheme = errors.New("refusing non-HTTPS request")

type httpsOnly struct {
	base http.RoundTripper
}

func (t httpsOnly) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrInsecureScheme, req.URL.Redacted())
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient returns a client that only speaks HTTPS, redirects
// included, and gives up after timeout. A nil base uses
// http.DefaultTransport; a non-positive timeout uses DefaultTimeout.
func NewHTTPClient(base http.RoundTripper, timeout time.Duration) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Transport: httpsOnly{base: base},
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}
