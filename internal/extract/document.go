package extract

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Parse decodes page bytes to UTF-8 and parses them into a goquery document.
// The charset comes from the Content-Type header, a BOM, or a <meta charset>
// declaration, in that order.
func Parse(body []byte, contentType string) (*goquery.Document, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	log.Debug().Str("charset", name).Int("bytes", len(body)).Msg("decoding page")

	r := transform.NewReader(bytes.NewReader(body), enc.NewDecoder())
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(node), nil
}
