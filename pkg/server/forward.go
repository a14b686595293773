package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"tessera-hq/tessera/pkg/config"
)

// newForwarder builds the reverse proxy for the dashboard's session and
// message routes. It passes request and response bytes through to the
// upstream analysis API unchanged; nothing here interprets payloads.
func newForwarder(cfg config.UpstreamConfig, logger *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream base_url %q: %w", cfg.BaseURL, err)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("upstream forward failed",
				"path", r.URL.Path,
				"error", err,
			)
			writeError(w, http.StatusBadGateway, "upstream unavailable")
		},
		Transport: &http.Transport{
			ResponseHeaderTimeout: cfg.Timeout,
		},
	}

	return proxy, nil
}
