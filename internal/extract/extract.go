package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hyperifyio/goreader/internal/platform"
)

// MinContentChars is the length a body candidate must exceed to be accepted.
const MinContentChars = 100

// Fields holds the text attributes of an article. Absent values are empty.
type Fields struct {
	Title       string
	Author      string
	PublishTime string
	Summary     string
	Content     string
	Tags        []string
}

// Title returns the first non-empty title in the chain, cut before the first
// " - " to drop a trailing site name.
func Title(doc *goquery.Document, p platform.Platform) string {
	title := first(doc.Selection, Chain(p, FieldTitle))
	if i := strings.Index(title, " - "); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title
}

// Author returns the first non-empty author in the chain.
func Author(doc *goquery.Document, p platform.Platform) string {
	return first(doc.Selection, Chain(p, FieldAuthor))
}

// PublishTime returns the first non-empty publish time in the chain, as written on the page.
func PublishTime(doc *goquery.Document, p platform.Platform) string {
	return first(doc.Selection, Chain(p, FieldPublishTime))
}

// Summary returns the first non-empty summary in the chain.
func Summary(doc *goquery.Document, p platform.Platform) string {
	return first(doc.Selection, Chain(p, FieldSummary))
}

// Tags collects tag text from every selector in the chain. Attribute-backed
// selectors are read as comma-separated lists. The result is deduplicated
// and keeps first-seen order.
func Tags(doc *goquery.Document, p platform.Platform) []string {
	seen := map[string]bool{}
	tags := []string{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		tags = append(tags, s)
	}
	for _, s := range Chain(p, FieldTags) {
		if s.Attr != "" {
			for _, part := range strings.Split(s.firstValue(doc.Selection), ",") {
				add(part)
			}
			continue
		}
		doc.Find(s.CSS).Each(func(_ int, sel *goquery.Selection) {
			add(s.value(sel))
		})
	}
	return tags
}

// Content returns cleaned body text. Boilerplate elements are removed from a
// copy of the document first; the caller's document is not modified. A
// candidate must exceed MinContentChars after cleaning, otherwise the next
// selector is tried. Without any qualifying candidate the whole <body> is used.
func Content(doc *goquery.Document, p platform.Platform) string {
	root := stripped(doc)
	for _, s := range Chain(p, FieldContent) {
		sel := root.Find(s.CSS).First()
		if sel.Length() == 0 {
			continue
		}
		content := CleanText(blockText(sel))
		if utf8.RuneCountInString(content) > MinContentChars {
			return content
		}
	}
	body := root.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return CleanText(blockText(body))
}

// All runs every field extractor.
func All(doc *goquery.Document, p platform.Platform) Fields {
	return Fields{
		Title:       Title(doc, p),
		Author:      Author(doc, p),
		PublishTime: PublishTime(doc, p),
		Summary:     Summary(doc, p),
		Content:     Content(doc, p),
		Tags:        Tags(doc, p),
	}
}

func first(root *goquery.Selection, chain []Selector) string {
	for _, s := range chain {
		if v := s.firstValue(root); v != "" {
			return v
		}
	}
	return ""
}

func stripped(doc *goquery.Document) *goquery.Selection {
	clone := doc.Selection.Clone()
	clone.Find(boilerplate).Remove()
	return clone
}

// blockText concatenates text under the selection, separating block-level
// elements with newlines so adjacent paragraphs do not run together.
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		collectText(&b, n)
	}
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	block := n.Type == html.ElementNode && isBlock(n.Data)
	if block {
		b.WriteString("\n")
	}
	if n.Type == html.ElementNode && (n.Data == "br" || n.Data == "hr") {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}

func isBlock(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "section", "article", "main", "li", "ul", "ol", "blockquote", "pre",
		"h1", "h2", "h3", "h4", "h5", "h6", "table", "tr", "td", "th", "figure", "figcaption":
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
