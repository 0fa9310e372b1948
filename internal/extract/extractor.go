package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/goreader/internal/platform"
)

// Extractor turns a parsed page into article fields.
// Implementations must not modify doc; the image engine reads it afterwards.
type Extractor interface {
	Extract(doc *goquery.Document, p platform.Platform) Fields
}

// SelectorExtractor walks the ordered selector chains in selectors.go.
type SelectorExtractor struct{}

func (SelectorExtractor) Extract(doc *goquery.Document, p platform.Platform) Fields {
	return All(doc, p)
}
