package manager

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPProbe checks a health URL with a short GET.
type HTTPProbe struct {
	URL    string
	Client *http.Client
	Log    zerolog.Logger
}

// NewHTTPProbe returns a probe for url whose requests give up after timeout.
func NewHTTPProbe(url string, timeout time.Duration, log zerolog.Logger) *HTTPProbe {
	return &HTTPProbe{URL: url, Client: &http.Client{Timeout: timeout}, Log: log}
}

// IsReady reports whether url answers with a 2xx status.
func (p *HTTPProbe) IsReady(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		p.Log.Debug().Err(err).Str("url", p.URL).Msg("event=probe_failed")
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		p.Log.Debug().Err(err).Str("url", p.URL).Msg("event=probe_failed")
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.Log.Debug().Int("status", resp.StatusCode).Str("url", p.URL).Msg("event=probe_failed")
		return false
	}
	return true
}
