package article

import (
	"fmt"

	"github.com/hyperifyio/goreader/internal/codec"
)

// ImageLink is an image as handed to API clients, with its proxy URL.
type ImageLink struct {
	OriginalURL string `json:"original_url"`
	ProxyURL    string `json:"proxy_url"`
	Alt         string `json:"alt"`
	Title       string `json:"title"`
	Index       int    `json:"index"`
	Description string `json:"description"`
}

// LinkBuilder rewrites image URLs to go through the proxy at BaseURL.
type LinkBuilder struct {
	BaseURL string
}

// Links returns one ImageLink per image of a, indexed from 1.
func (b LinkBuilder) Links(a *Article) []ImageLink {
	out := make([]ImageLink, 0, len(a.Images))
	for i, img := range a.Images {
		desc := fmt.Sprintf("image %d", i+1)
		if img.Alt != "" {
			desc += " - " + img.Alt
		}
		out = append(out, ImageLink{
			OriginalURL: img.AbsoluteURL,
			ProxyURL:    codec.ProxyURL(b.BaseURL, img.AbsoluteURL),
			Alt:         img.Alt,
			Title:       img.Title,
			Index:       i + 1,
			Description: desc,
		})
	}
	return out
}
