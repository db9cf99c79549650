// Package http constructs the HTTP client shared by all gateway calls.
// Transport policy (proxy, TLS, HTTP/2, pooling) lives here and nowhere
// else; the gateway itself never retries.
package http

import (
	"crypto/tls"
	"fmt"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http2"

	"github.com/gridstash/gridstash/internal/config"
)

// ConfigureHTTPClient builds an *http.Client honoring the configured
// proxy mode ("no-proxy", "system", "manual").
func ConfigureHTTPClient(cfg *config.Config) (*nethttp.Client, error) {
	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	switch strings.ToLower(cfg.ProxyMode) {
	case "no-proxy":
		transport.Proxy = nil

	case "system", "":
		transport.Proxy = nethttp.ProxyFromEnvironment

	case "manual":
		if cfg.ProxyURL == "" {
			return nil, fmt.Errorf("proxy mode is manual but proxy URL is empty")
		}
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.ProxyURL, err)
		}
		transport.Proxy = nethttp.ProxyURL(proxyURL)

	default:
		return nil, fmt.Errorf("unknown proxy mode %q", cfg.ProxyMode)
	}

	transport.ForceAttemptHTTP2 = true
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("failed to configure HTTP/2: %w", err)
	}

	return &nethttp.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}
