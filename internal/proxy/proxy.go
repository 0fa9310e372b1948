// Package proxy fetches images on behalf of clients that cannot load them
// directly because of referrer or hotlink checks.
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreader/internal/codec"
	"github.com/hyperifyio/goreader/internal/fetch"
)

// DirectProvider names the non-relay path in ProxyImage.Provider.
const DirectProvider = "direct"

const defaultContentType = "image/jpeg"

// Relay is a third-party image mirror. Template holds a {url} placeholder
// that receives the percent-encoded image URL.
type Relay struct {
	Name     string
	Template string
}

// URL expands the template for imageURL.
func (r Relay) URL(imageURL string) string {
	return strings.ReplaceAll(r.Template, "{url}", codec.Escape(imageURL))
}

// DefaultRelays returns the relay chain used for messaging-platform images.
func DefaultRelays() []Relay {
	return []Relay{
		{Name: "weserv", Template: "https://images.weserv.nl/?url={url}"},
		{Name: "xuehuaimg", Template: "https://pic1.xuehuaimg.com/proxy/{url}"},
		{Name: "nga", Template: "https://img.nga.178.com/attachments/mon_202409/29/{url}"},
	}
}

// ParseRelays reads a comma separated list of templates. Each entry may be
// "name=template"; unnamed entries are called relay1, relay2 and so on.
func ParseRelays(s string) ([]Relay, error) {
	var out []Relay
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := "relay" + strconv.Itoa(len(out)+1)
		tmpl := part
		if i := strings.Index(part, "="); i > 0 && !strings.Contains(part[:i], "/") {
			name, tmpl = strings.TrimSpace(part[:i]), strings.TrimSpace(part[i+1:])
		}
		if !strings.Contains(tmpl, "{url}") {
			return nil, fmt.Errorf("relay %q: template lacks {url}", part)
		}
		out = append(out, Relay{Name: name, Template: tmpl})
	}
	return out, nil
}

// Options configures a Resolver.
type Options struct {
	CacheDays int
	// Relays replaces DefaultRelays when non-nil.
	Relays []Relay
	// Now is the clock used for Expires. Defaults to time.Now.
	Now func() time.Time
}

// ProxyImage is a fetched image plus the cache policy to serve it with.
type ProxyImage struct {
	Body        []byte
	ContentType string
	CacheMaxAge int
	ExpiresAt   time.Time
	Provider    string
}

// CacheHeaders returns the Cache-Control and Expires headers for the image.
func (p *ProxyImage) CacheHeaders() http.Header {
	h := http.Header{}
	h.Set("Cache-Control", "public, max-age="+strconv.Itoa(p.CacheMaxAge))
	h.Set("Expires", p.ExpiresAt.UTC().Format(http.TimeFormat))
	return h
}

// Resolver picks between the relay chain and a direct fetch.
type Resolver struct {
	client *fetch.Client
	relays []Relay
	days   int
	now    func() time.Time
}

// NewResolver wraps client, which carries the user agent, timeout, image
// header set and body limit.
func NewResolver(client *fetch.Client, opts Options) *Resolver {
	r := &Resolver{client: client, relays: opts.Relays, days: opts.CacheDays, now: opts.Now}
	if r.relays == nil {
		r.relays = DefaultRelays()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Resolve fetches imageURL. Errors are always *Error.
func (r *Resolver) Resolve(ctx context.Context, imageURL string) (img *ProxyImage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("url", imageURL).Msg("image proxy panic")
			img, err = nil, &Error{Kind: KindServer, URL: imageURL, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	log.Info().Str("url", imageURL).Msg("proxy image")

	var resp *fetch.Response
	provider := DirectProvider
	if usesRelay(imageURL) {
		resp, provider, err = r.viaRelays(ctx, imageURL)
	} else {
		resp, err = r.client.Get(ctx, imageURL, http.Header{"Referer": {RefererFor(imageURL)}})
	}
	if err != nil {
		perr := classify(imageURL, err)
		log.Error().Err(err).Str("url", imageURL).Str("kind", perr.Kind.String()).Msg("image proxy failed")
		return nil, perr
	}

	ct := resp.ContentType
	if ct == "" {
		ct = defaultContentType
	}
	return &ProxyImage{
		Body:        resp.Body,
		ContentType: ct,
		CacheMaxAge: r.days * 86400,
		ExpiresAt:   r.now().UTC().AddDate(0, 0, r.days),
		Provider:    provider,
	}, nil
}

func (r *Resolver) viaRelays(ctx context.Context, imageURL string) (*fetch.Response, string, error) {
	var last error
	for _, relay := range r.relays {
		target := relay.URL(imageURL)
		log.Debug().Str("relay", relay.Name).Str("target", target).Msg("trying relay")
		resp, err := r.client.Get(ctx, target, nil)
		if err == nil {
			log.Info().Str("relay", relay.Name).Str("url", imageURL).Msg("relay succeeded")
			return resp, relay.Name, nil
		}
		log.Warn().Err(err).Str("relay", relay.Name).Msg("relay failed")
		last = err
		if ctx.Err() != nil {
			break
		}
	}
	if last == nil {
		return nil, "", ErrNoProvider
	}
	return nil, "", fmt.Errorf("%w: last error: %v", ErrNoProvider, last)
}

func classify(imageURL string, err error) *Error {
	kind := KindBadGateway
	if fetch.IsTimeout(err) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, URL: imageURL, Err: err}
}

func usesRelay(imageURL string) bool {
	return strings.Contains(imageURL, "mmbiz.qpic.cn") || strings.Contains(imageURL, "mmecoa.qpic.cn")
}

// RefererFor picks the Referer a direct fetch presents.
func RefererFor(imageURL string) string {
	switch {
	case strings.Contains(imageURL, "csdn.net"):
		return "https://blog.csdn.net/"
	case strings.Contains(imageURL, "weixin.qq.com"):
		return "https://mp.weixin.qq.com/"
	default:
		return "https://www.google.com/"
	}
}
