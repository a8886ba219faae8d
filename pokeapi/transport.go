package pokeapi

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewTransport returns the pooled HTTP/2-capable transport used for
// upstream requests.
func NewTransport() *http.Transport {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}
	// Only fails when h2 is already registered on tr, which cannot happen
	// for a transport built here.
	_ = http2.ConfigureTransport(tr)
	return tr
}
