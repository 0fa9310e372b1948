package images

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const pageURL = "https://example.com/post/1"

func mustDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestDiscover_PassesResolveAndDedupe(t *testing.T) {
	page := `<html><body>
	  <img src="/photos/one.jpg" alt="first">
	  <img data-src="photos/two.jpg">
	  <div data-src="//cdn.example.com/three.jpg"></div>
	  <div style="background-image: url('/bg/four.jpg')"></div>
	  <img src="/photos/one.jpg">
	  <img src="data:image/png;base64,AAAA">
	  <img src="/static/logo.png">
	  <img src="">
	</body></html>`
	got := Engine{}.Discover(mustDoc(t, page), pageURL)

	want := []struct {
		abs  string
		kind Kind
	}{
		{"https://example.com/photos/one.jpg", KindImgTag},
		{"https://example.com/post/photos/two.jpg", KindImgTag},
		{"https://cdn.example.com/three.jpg", KindDataSrc},
		{"https://example.com/bg/four.jpg", KindBackground},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d images, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].AbsoluteURL != w.abs || got[i].Kind != w.kind {
			t.Fatalf("image %d: got %s (%s), want %s (%s)", i, got[i].AbsoluteURL, got[i].Kind, w.abs, w.kind)
		}
	}
	if got[0].Alt != "first" {
		t.Fatalf("first occurrence should be kept, got alt %q", got[0].Alt)
	}
	if got[3].SourceRef != "/bg/four.jpg" {
		t.Fatalf("background source should be the bare url, got %q", got[3].SourceRef)
	}
}

func TestDiscover_Idempotent(t *testing.T) {
	page := `<html><body>
	  <img src="/a.jpg" width="300" height="200">
	  <section style="background-image:url(&quot;/b.jpg&quot;)"></section>
	  <img data-original="/c.jpg">
	</body></html>`
	doc := mustDoc(t, page)
	before, _ := doc.Html()
	e := Engine{Filter: Filter{Tier: TierStandard}}
	first := e.Discover(doc, pageURL)
	second := e.Discover(doc, pageURL)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("discovery not idempotent:\n%+v\n%+v", first, second)
	}
	if after, _ := doc.Html(); after != before {
		t.Fatalf("document was modified by discovery")
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 images, got %+v", first)
	}
}

func TestDiscover_UniqueAbsoluteURLs(t *testing.T) {
	page := `<html><body>` + strings.Repeat(`<img src="/same.jpg"><div data-src="/same.jpg"></div><p style="background-image:url(/same.jpg)"></p>`, 5) + `</body></html>`
	got := Engine{}.Discover(mustDoc(t, page), pageURL)
	if len(got) != 1 {
		t.Fatalf("expected a single image, got %d", len(got))
	}
}

func TestDiscover_BadPageURL(t *testing.T) {
	got := Engine{}.Discover(mustDoc(t, `<img src="/a.jpg">`), "http://[::1")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseDimension(t *testing.T) {
	cases := []struct {
		in    string
		px    int
		known bool
	}{
		{"100", 100, true},
		{" 42 ", 42, true},
		{"0", 0, true},
		{"", 0, false},
		{"100px", 0, false},
		{"50%", 0, false},
		{"-1", 0, false},
		{"auto", 0, false},
	}
	for _, tc := range cases {
		px, known := ParseDimension(tc.in).Get()
		if px != tc.px || known != tc.known {
			t.Fatalf("ParseDimension(%q) = (%d, %v), want (%d, %v)", tc.in, px, known, tc.px, tc.known)
		}
	}
}

func TestImage_JSON(t *testing.T) {
	img := Image{SourceRef: "/a.jpg", AbsoluteURL: "https://example.com/a.jpg", Width: Px(640), Kind: KindBackground}
	b, err := json.Marshal(img)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, part := range []string{`"width":640`, `"height":null`, `"type":"background_image"`} {
		if !strings.Contains(s, part) {
			t.Fatalf("expected %s in %s", part, s)
		}
	}
}
