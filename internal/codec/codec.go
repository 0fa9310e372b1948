// Package codec turns absolute image URLs into opaque path-safe tokens and
// back.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrDecode is wrapped by every Decode failure.
var ErrDecode = errors.New("invalid image token")

// Escape percent-encodes every byte outside A-Za-z0-9-_.~, spaces as %20.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Encode returns the token for rawURL.
func Encode(rawURL string) string {
	return base64.URLEncoding.EncodeToString([]byte(Escape(rawURL)))
}

var alphabets = []*base64.Encoding{
	base64.URLEncoding,
	base64.RawURLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// Decode reverses Encode. Tokens in the standard base64 alphabet and
// unpadded tokens are accepted too. The result is always an absolute
// http(s) URL.
func Decode(token string) (string, error) {
	token = strings.TrimPrefix(strings.TrimSpace(token), "/")
	if token == "" {
		return "", fmt.Errorf("%w: empty", ErrDecode)
	}

	var raw []byte
	var err error
	for _, enc := range alphabets {
		if raw, err = enc.DecodeString(token); err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	decoded, err := url.PathUnescape(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	u, err := url.Parse(decoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: not an absolute http(s) url: %q", ErrDecode, decoded)
	}
	return decoded, nil
}

// ProxyURL builds the public proxy link for imageURL under base.
func ProxyURL(base, imageURL string) string {
	return strings.TrimRight(base, "/") + "/image/" + Encode(imageURL)
}
