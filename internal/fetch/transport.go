package fetch

import (
	"net"
	"net/http"
	"time"
)

// NewTransport returns the pooled transport shared by every outbound fetch.
// Idle connections are reused across requests; nothing request-specific lives here.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// NewClient builds a Client over a fresh pooled transport.
func NewClient(userAgent string, timeout time.Duration, header http.Header) *Client {
	return &Client{
		HTTPClient:        &http.Client{Transport: NewTransport()},
		Header:            header,
		UserAgent:         userAgent,
		PerRequestTimeout: timeout,
	}
}

// BrowserHeaders is the header set a desktop browser sends for page loads.
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

// ImageHeaders is the header set a browser sends for image loads.
func ImageHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	h.Set("Connection", "keep-alive")
	return h
}
