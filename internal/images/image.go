// Package images discovers content images in a parsed page and filters out
// decorative, navigational and avatar imagery.
package images

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind records which discovery pass found an image.
type Kind int

const (
	KindImgTag Kind = iota
	KindDataSrc
	KindBackground
)

func (k Kind) String() string {
	switch k {
	case KindImgTag:
		return "img_tag"
	case KindDataSrc:
		return "data_src"
	case KindBackground:
		return "background_image"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind name for JSON.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Dimension is an optional pixel size. The zero value is unknown.
type Dimension struct {
	px    int
	known bool
}

// Px returns a known dimension.
func Px(n int) Dimension { return Dimension{px: n, known: n >= 0} }

// ParseDimension reads a width/height attribute. Anything that is not a
// non-negative integer is unknown.
func ParseDimension(s string) Dimension {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return Dimension{}
	}
	return Dimension{px: n, known: true}
}

// Get returns the size and whether it is known.
func (d Dimension) Get() (int, bool) { return d.px, d.known }

// Known reports whether the size was parsed.
func (d Dimension) Known() bool { return d.known }

func (d Dimension) MarshalJSON() ([]byte, error) {
	if !d.known {
		return []byte("null"), nil
	}
	return json.Marshal(d.px)
}

// Image is one discovered, filtered, deduplicated content image.
type Image struct {
	SourceRef   string    `json:"src"`
	AbsoluteURL string    `json:"absolute_url"`
	Alt         string    `json:"alt"`
	Title       string    `json:"title"`
	Width       Dimension `json:"width"`
	Height      Dimension `json:"height"`
	Kind        Kind      `json:"type"`
}
