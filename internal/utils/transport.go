package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"
)

// NewCookieJar returns an empty cookie jar that scopes cookies by registrable
// domain using the public suffix list.
func NewCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("error creating cookie jar: %w", err)
	}
	return jar, nil
}

// NewScopedClient derives a per-call HTTP client from base. When proxyURL is
// set the client gets its own transport routed through the proxy (http, https,
// socks5 and socks5h schemes); when jar is non-nil it replaces the base jar.
//
// The returned release function must be called once the call is over. It
// closes the idle connections of a transport created here and is a no-op
// otherwise, so shared transports are never torn down.
func NewScopedClient(base *http.Client, proxyURL string, jar http.CookieJar) (*http.Client, func(), error) {
	scoped := &http.Client{}
	if base != nil {
		*scoped = *base
	}
	if jar != nil {
		scoped.Jar = jar
	}

	if proxyURL == "" {
		return scoped, func() {}, nil
	}

	transport, err := proxyTransport(scoped.Transport, proxyURL)
	if err != nil {
		return nil, nil, err
	}
	scoped.Transport = transport
	return scoped, transport.CloseIdleConnections, nil
}

// proxyTransport clones the base transport (or the default one) and routes it
// through the proxy described by rawURL.
func proxyTransport(base http.RoundTripper, rawURL string) (*http.Transport, error) {
	proxyURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", rawURL, err)
	}

	var transport *http.Transport
	if baseTransport, ok := base.(*http.Transport); ok && baseTransport != nil {
		transport = baseTransport.Clone()
	} else {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}

	switch proxyURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("error creating socks proxy dialer: %w", err)
		}
		transport.Proxy = nil
		if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = contextDialer.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
				return dialer.Dial(network, address)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}

	return transport, nil
}
