package images

import (
	"fmt"
	"strings"
)

// Tier selects the minimum content-image size.
type Tier int

const (
	TierStandard Tier = iota
	TierLoose
	TierStrict
)

func (t Tier) String() string {
	switch t {
	case TierLoose:
		return "loose"
	case TierStrict:
		return "strict"
	default:
		return "standard"
	}
}

// MinSize is the smallest width or height accepted when both are known.
func (t Tier) MinSize() int {
	switch t {
	case TierLoose:
		return 50
	case TierStrict:
		return 150
	default:
		return 100
	}
}

// ParseTier maps a configuration value to a Tier. Empty means standard.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return TierStandard, nil
	case "loose":
		return TierLoose, nil
	case "strict":
		return TierStrict, nil
	}
	return TierStandard, fmt.Errorf("unknown image filter tier %q", s)
}

// Matched as plain substrings, so "ad" also hits "uploads" or "shadow".
var excludeKeywords = []string{
	"logo", "icon", "button", "banner", "ad", "advertisement", "sponsor", "sponsored",
	"sidebar", "header", "footer", "nav", "social", "share", "comment", "like",
	"follow", "loading", "placeholder", "blank", "transparent", "qrcode", "qr-code",
	"wechat", "weixin", "subscribe", "decorative", "divider", "avatar", "head", "profile",
}

var messagingHosts = []string{"mp.weixin.qq.com", "mmbiz.qpic.cn", "mmecoa.qpic.cn"}

const (
	coverMarker       = "cover"
	messagingMinSize  = 200
	avatarSquareSlack = 20
)

// Filter decides whether a candidate is a content image.
type Filter struct {
	Tier Tier
}

// Accept applies, in order: cover override, exclude keywords, tier size
// minimum, then the messaging-host small/avatar rules.
func (f Filter) Accept(img Image) bool {
	alt := strings.ToLower(img.Alt)
	title := strings.ToLower(img.Title)

	if strings.Contains(alt, coverMarker) || strings.Contains(title, coverMarker) {
		return true
	}

	src := strings.ToLower(img.SourceRef)
	for _, kw := range excludeKeywords {
		if strings.Contains(src, kw) || strings.Contains(alt, kw) || strings.Contains(title, kw) {
			return false
		}
	}

	w, wok := img.Width.Get()
	h, hok := img.Height.Get()
	if !wok || !hok {
		return true
	}
	if minSize := f.Tier.MinSize(); w < minSize || h < minSize {
		return false
	}

	if isMessagingHost(img.AbsoluteURL) {
		if img.Alt == "" && img.Title == "" && (w < messagingMinSize || h < messagingMinSize) {
			return false
		}
		if abs(w-h) < avatarSquareSlack && w < messagingMinSize && h < messagingMinSize {
			return false
		}
	}
	return true
}

func isMessagingHost(u string) bool {
	u = strings.ToLower(u)
	for _, h := range messagingHosts {
		if strings.Contains(u, h) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
