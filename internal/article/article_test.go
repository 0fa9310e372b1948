package article

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/goreader/internal/codec"
	"github.com/hyperifyio/goreader/internal/extract"
	"github.com/hyperifyio/goreader/internal/fetch"
	"github.com/hyperifyio/goreader/internal/images"
	"github.com/hyperifyio/goreader/internal/platform"
)

var samplePage = `<html><head><title>Go Proxies - Example Blog</title>
<meta name="author" content="Wang Fang">
<meta name="description" content="How image proxies work">
<meta name="keywords" content="go, proxy, go">
</head><body>
<nav>Home | About</nav>
<article>
  <p>` + strings.Repeat("图片代理可以绕过防盗链。", 15) + `</p>
  <img src="/media/diagram.png" alt="diagram" width="640" height="480">
  <img src="/static/logo.png" width="640" height="480">
  <img src="/media/tiny.png" width="20" height="20">
</article>
</body></html>`

func newFetcher(timeout time.Duration) *fetch.Client {
	return &fetch.Client{HTTPClient: &http.Client{}, UserAgent: "goreader-test", PerRequestTimeout: timeout}
}

func TestScrape_BuildsArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	a := NewAssembler(newFetcher(2*time.Second), images.TierStandard)
	art, err := a.Scrape(context.Background(), srv.URL+"/posts/1")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if art.Title != "Go Proxies" || art.Author != "Wang Fang" || art.Summary != "How image proxies work" {
		t.Fatalf("unexpected fields: %+v", art)
	}
	if art.Platform != platform.Other {
		t.Fatalf("expected other platform, got %s", art.Platform)
	}
	if len(art.Tags) != 2 || art.Tags[0] != "go" || art.Tags[1] != "proxy" {
		t.Fatalf("unexpected tags %v", art.Tags)
	}
	if strings.Contains(art.Content, "Home") {
		t.Fatalf("navigation leaked into content: %q", art.Content)
	}
	if art.WordCount != len([]rune(art.Content)) || art.WordCount == 0 {
		t.Fatalf("word count %d does not match content", art.WordCount)
	}
	if art.ImageCount != 1 || len(art.Images) != 1 || art.Images[0].AbsoluteURL != srv.URL+"/media/diagram.png" {
		t.Fatalf("unexpected images: %+v", art.Images)
	}
}

func TestScrape_TimeoutIsScrapeError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	a := NewAssembler(newFetcher(50*time.Millisecond), images.TierStandard)
	art, err := a.Scrape(context.Background(), srv.URL)
	if art != nil {
		t.Fatalf("expected no article on failure")
	}
	var se *ScrapeError
	if !errors.As(err, &se) || se.URL != srv.URL {
		t.Fatalf("expected ScrapeError for %s, got %v", srv.URL, err)
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("error should mention timeout: %v", err)
	}
	if !fetch.IsTimeout(err) {
		t.Fatalf("timeout should be detectable through the chain")
	}
}

func TestScrape_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := NewAssembler(newFetcher(time.Second), images.TierStandard).Scrape(context.Background(), srv.URL)
	var se *fetch.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusGone {
		t.Fatalf("expected wrapped StatusError, got %v", err)
	}
}

type panicExtractor struct{}

func (panicExtractor) Extract(*goquery.Document, platform.Platform) extract.Fields {
	panic("boom")
}

func TestBuild_RecoversPanics(t *testing.T) {
	a := &Assembler{Extractor: panicExtractor{}}
	art, err := a.Build("https://example.com/", []byte("<html></html>"), "text/html")
	var se *ScrapeError
	if art != nil || !errors.As(err, &se) || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected recovered ScrapeError, got %v, %v", art, err)
	}
}

func TestBuild_EmptyPage(t *testing.T) {
	a := NewAssembler(nil, images.TierStandard)
	art, err := a.Build("https://www.zhihu.com/question/1", []byte("<html><body></body></html>"), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if art.Platform != platform.Zhihu || art.Title != "" || art.WordCount != 0 {
		t.Fatalf("unexpected article: %+v", art)
	}
	if art.Tags == nil || art.Images == nil {
		t.Fatalf("slices should be empty, not nil")
	}
}

func TestLinkBuilder(t *testing.T) {
	art := &Article{Images: []images.Image{
		{AbsoluteURL: "https://example.com/a.jpg", Alt: "chart"},
		{AbsoluteURL: "https://example.com/b.jpg"},
	}}
	links := LinkBuilder{BaseURL: "https://proxy.example"}.Links(art)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Index != 1 || links[0].Description != "image 1 - chart" || links[1].Description != "image 2" {
		t.Fatalf("unexpected links: %+v", links)
	}
	if links[1].ProxyURL != "https://proxy.example/image/"+codec.Encode("https://example.com/b.jpg") {
		t.Fatalf("unexpected proxy url %q", links[1].ProxyURL)
	}
}
