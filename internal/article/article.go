// Package article turns a page URL into an Article: fetch, classify, extract
// fields, discover images.
package article

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreader/internal/extract"
	"github.com/hyperifyio/goreader/internal/fetch"
	"github.com/hyperifyio/goreader/internal/images"
	"github.com/hyperifyio/goreader/internal/platform"
)

// Article is the result of one extraction. It is not modified after Scrape
// returns it.
type Article struct {
	URL         string            `json:"url"`
	Platform    platform.Platform `json:"platform"`
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	PublishTime string            `json:"publish_time"`
	Summary     string            `json:"summary"`
	Content     string            `json:"content"`
	Images      []images.Image    `json:"images"`
	Tags        []string          `json:"tags"`
	WordCount   int               `json:"word_count"`
	ImageCount  int               `json:"image_count"`
}

// ScrapeError reports why url could not be turned into an Article.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string { return fmt.Sprintf("scrape %s: %v", e.URL, e.Err) }

func (e *ScrapeError) Unwrap() error { return e.Err }

// Fetcher loads a page. *fetch.Client satisfies it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, header http.Header) (*fetch.Response, error)
}

// Assembler runs the extraction pipeline for one URL at a time. It holds no
// per-request state and may be shared.
type Assembler struct {
	Fetcher   Fetcher
	Extractor extract.Extractor
	Images    images.Engine
}

// NewAssembler uses the selector extractor and an image engine at tier.
func NewAssembler(f Fetcher, tier images.Tier) *Assembler {
	return &Assembler{
		Fetcher:   f,
		Extractor: extract.SelectorExtractor{},
		Images:    images.Engine{Filter: images.Filter{Tier: tier}},
	}
}

// Scrape fetches pageURL and builds its Article. Any failure, including a
// non-2xx response, yields a *ScrapeError and no Article.
func (a *Assembler) Scrape(ctx context.Context, pageURL string) (*Article, error) {
	log.Info().Str("url", pageURL).Msg("scraping article")

	resp, err := a.Fetcher.Get(ctx, pageURL, nil)
	if err != nil {
		log.Error().Err(err).Str("url", pageURL).Msg("page fetch failed")
		return nil, &ScrapeError{URL: pageURL, Err: err}
	}
	return a.Build(pageURL, resp.Body, resp.ContentType)
}

// Build runs the pipeline on an already fetched page.
func (a *Assembler) Build(pageURL string, body []byte, contentType string) (art *Article, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("url", pageURL).Msg("extraction panic")
			art, err = nil, &ScrapeError{URL: pageURL, Err: fmt.Errorf("extraction panic: %v", rec)}
		}
	}()

	doc, err := extract.Parse(body, contentType)
	if err != nil {
		return nil, &ScrapeError{URL: pageURL, Err: err}
	}

	p := platform.Classify(pageURL)
	fields := a.Extractor.Extract(doc, p)
	imgs := a.Images.Discover(doc, pageURL)
	if fields.Tags == nil {
		fields.Tags = []string{}
	}

	art = &Article{
		URL:         pageURL,
		Platform:    p,
		Title:       fields.Title,
		Author:      fields.Author,
		PublishTime: fields.PublishTime,
		Summary:     fields.Summary,
		Content:     fields.Content,
		Images:      imgs,
		Tags:        fields.Tags,
		WordCount:   utf8.RuneCountInString(fields.Content),
		ImageCount:  len(imgs),
	}
	log.Info().
		Str("url", pageURL).
		Str("platform", p.String()).
		Str("title", art.Title).
		Int("words", art.WordCount).
		Int("images", art.ImageCount).
		Msg("article extracted")
	return art, nil
}
