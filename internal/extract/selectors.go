package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/goreader/internal/platform"
)

// Field names a single extracted article attribute.
type Field int

const (
	FieldTitle Field = iota
	FieldContent
	FieldAuthor
	FieldPublishTime
	FieldSummary
	FieldTags
)

// Selector is one step of a fallback chain: a CSS selector plus the attribute
// to read. An empty Attr reads the element's text.
type Selector struct {
	CSS  string
	Attr string
}

func text(css string) Selector { return Selector{CSS: css} }

func meta(css string) Selector { return Selector{CSS: css, Attr: "content"} }

// firstValue reads the first element matched by the selector. It reports
// an empty string when nothing matches or the match is blank.
func (s Selector) firstValue(root *goquery.Selection) string {
	sel := root.Find(s.CSS).First()
	if sel.Length() == 0 {
		return ""
	}
	return s.value(sel)
}

func (s Selector) value(sel *goquery.Selection) string {
	if s.Attr != "" {
		return strings.TrimSpace(sel.AttrOr(s.Attr, ""))
	}
	return collapse(sel.Text())
}

// platformSelectors are tried before the generic chains.
var platformSelectors = map[platform.Platform]map[Field][]Selector{
	platform.WeChat: {
		FieldTitle:       {text("h1"), text(".rich_media_title"), text("#activity-name")},
		FieldContent:     {text("#js_content"), text(".rich_media_content")},
		FieldAuthor:      {text(".rich_media_meta_text"), text(".profile_nickname")},
		FieldPublishTime: {text(".rich_media_meta_text"), text("#publish_time")},
	},
	platform.Zhihu: {
		FieldTitle:       {text("h1"), text(".QuestionHeader-title")},
		FieldContent:     {text(".RichContent"), text(".AnswerItem")},
		FieldAuthor:      {text(".AuthorInfo-name"), text(".UserLink-link")},
		FieldPublishTime: {text(".ContentItem-time")},
	},
	platform.Weibo: {
		FieldTitle:       {text("h1"), text(".WB_text")},
		FieldContent:     {text(".WB_text"), text(".WB_detail")},
		FieldAuthor:      {text(".WB_info"), text(".WB_name")},
		FieldPublishTime: {text(".WB_from"), text(".WB_time")},
	},
	platform.Xiaohongshu: {
		FieldTitle:       {text(".title"), text(".note-title")},
		FieldContent:     {text(".content"), text(".note-content")},
		FieldAuthor:      {text(".author"), text(".user-name")},
		FieldPublishTime: {text(".time"), text(".publish-time")},
	},
	platform.Toutiao: {
		FieldTitle:       {text(".article-content h1")},
		FieldContent:     {text(".article-content")},
		FieldAuthor:      {text(".article-meta .name")},
		FieldPublishTime: {text(".article-meta span")},
	},
}

var genericSelectors = map[Field][]Selector{
	FieldTitle: {
		text("h1"),
		text(".article-title"),
		text(".post-title"),
		text(".entry-title"),
		text("title"),
		text(`[class*="title"]`),
		text(`[id*="title"]`),
	},
	FieldContent: {
		text(".article-content"),
		text(".post-content"),
		text(".entry-content"),
		text(".content"),
		text("article"),
		text(".article-body"),
		text(".post-body"),
		text(`[class*="content"]`),
		text(`[id*="content"]`),
	},
	FieldAuthor: {
		text(".author"),
		text(".byline"),
		text(".writer"),
		text(`[class*="author"]`),
		text(`[class*="byline"]`),
		meta(`meta[name="author"]`),
	},
	FieldPublishTime: {
		text(".publish-time"),
		text(".post-time"),
		text(".date"),
		text("time"),
		text(`[class*="time"]`),
		text(`[class*="date"]`),
		meta(`meta[property="article:published_time"]`),
		meta(`meta[name="publishdate"]`),
	},
	FieldSummary: {
		text(".summary"),
		text(".excerpt"),
		text(".description"),
		meta(`meta[name="description"]`),
		meta(`meta[property="og:description"]`),
	},
	FieldTags: {
		text(".tags a"),
		text(".tag"),
		text(".category"),
		text(".keywords"),
		meta(`meta[name="keywords"]`),
	},
}

// Chain returns the ordered selectors for a field: platform-specific first,
// then generic.
func Chain(p platform.Platform, f Field) []Selector {
	specific := platformSelectors[p][f]
	generic := genericSelectors[f]
	out := make([]Selector, 0, len(specific)+len(generic))
	out = append(out, specific...)
	return append(out, generic...)
}

// boilerplate is stripped from a copy of the document before body extraction.
const boilerplate = "script, style, noscript, nav, header, footer, aside, advertisement, ad"
