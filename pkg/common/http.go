package common

import (
	_ "embed"
	"net/http"
	"strings"
	"time"
)

//go:embed VERSION
var version string

type userAgentTransport struct {
	transport http.RoundTripper
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.transport.RoundTrip(req)
}

// Version returns the release of the binary.
func Version() string {
	return strings.TrimSpace(version)
}

// UserAgent is sent with every outbound request so upstream APIs like the
// URDB can identify us.
func UserAgent() string {
	return "RateExplorer/" + Version() + " (+https://github.com/raterudder/rateexplorer)"
}

// HTTPClient returns an http client that sends UserAgent and gives up after
// timeout.
func HTTPClient(timeout time.Duration) *http.Client {
	userAgent := UserAgent()

	return &http.Client{
		Transport: &userAgentTransport{
			transport: http.DefaultTransport,
			userAgent: userAgent,
		},
		Timeout: timeout,
	}
}
