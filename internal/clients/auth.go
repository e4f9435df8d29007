package clients

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// NewBearerClient returns an http.Client that sends "Authorization: Bearer <token>"
// on every request. base may be nil to use http.DefaultTransport.
func NewBearerClient(token string, timeout time.Duration, base http.RoundTripper) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		},
	}
}

func getPreview(body []byte) string {
	raw := string(body)
	if len(raw) > LOG_PREVIEW_LENGTH {
		raw = raw[:LOG_PREVIEW_LENGTH]
	}
	return raw
}
