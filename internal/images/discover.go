package images

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

var reBackgroundURL = regexp.MustCompile(`background-image\s*:\s*url\(\s*["']?([^"')]+?)["']?\s*\)`)

// pass is one discovery strategy: which elements to visit and how to read
// their image source.
type pass struct {
	kind     Kind
	selector string
	source   func(*goquery.Selection) string
}

var passes = []pass{
	{KindImgTag, "img", func(s *goquery.Selection) string {
		return firstAttr(s, "src", "data-src", "data-original")
	}},
	{KindDataSrc, "[data-src]", func(s *goquery.Selection) string {
		return firstAttr(s, "data-src", "data-original")
	}},
	{KindBackground, `[style*="background-image"]`, backgroundURL},
}

// Engine runs the discovery passes and the content filter.
type Engine struct {
	Filter Filter
}

// Discover returns the content images of doc in discovery order, resolved
// against pageURL and deduplicated by absolute URL. doc is not modified.
func (e Engine) Discover(doc *goquery.Document, pageURL string) []Image {
	base, err := url.Parse(pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("unparseable page url; skipping images")
		return []Image{}
	}

	var candidates []Image
	for _, p := range passes {
		doc.Find(p.selector).Each(func(_ int, s *goquery.Selection) {
			src := strings.TrimSpace(p.source(s))
			if src == "" {
				return
			}
			abs := resolve(base, src)
			if abs == "" {
				return
			}
			img := Image{
				SourceRef:   src,
				AbsoluteURL: abs,
				Alt:         s.AttrOr("alt", ""),
				Title:       s.AttrOr("title", ""),
				Width:       ParseDimension(s.AttrOr("width", "")),
				Height:      ParseDimension(s.AttrOr("height", "")),
				Kind:        p.kind,
			}
			if e.Filter.Accept(img) {
				candidates = append(candidates, img)
			}
		})
	}

	out := Dedupe(candidates)
	log.Debug().Str("url", pageURL).Int("candidates", len(candidates)).Int("images", len(out)).Msg("images discovered")
	return out
}

// Dedupe keeps the first image for each absolute URL, preserving order.
func Dedupe(in []Image) []Image {
	seen := make(map[string]bool, len(in))
	out := make([]Image, 0, len(in))
	for _, img := range in {
		if seen[img.AbsoluteURL] {
			continue
		}
		seen[img.AbsoluteURL] = true
		out = append(out, img)
	}
	return out
}

func firstAttr(s *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(s.AttrOr(n, "")); v != "" {
			return v
		}
	}
	return ""
}

func backgroundURL(s *goquery.Selection) string {
	m := reBackgroundURL.FindStringSubmatch(s.AttrOr("style", ""))
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// resolve makes src absolute. Only http(s) results are kept; data: and
// javascript: references resolve to "".
func resolve(base *url.URL, src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	switch strings.ToLower(abs.Scheme) {
	case "http", "https":
	default:
		return ""
	}
	if abs.Host == "" {
		return ""
	}
	return abs.String()
}
