// Package platform classifies article URLs by publishing platform.
package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform is a closed set of publishing platforms that drive selector choice.
type Platform int

const (
	Other Platform = iota
	WeChat
	Zhihu
	Weibo
	Xiaohongshu
	Toutiao
)

var names = [...]string{
	Other:       "other",
	WeChat:      "wechat",
	Zhihu:       "zhihu",
	Weibo:       "weibo",
	Xiaohongshu: "xiaohongshu",
	Toutiao:     "toutiao",
}

// String returns the lower-case tag name.
func (p Platform) String() string {
	if p < 0 || int(p) >= len(names) {
		return fmt.Sprintf("platform(%d)", int(p))
	}
	return names[p]
}

// MarshalText encodes the tag name for JSON and YAML.
func (p Platform) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(names) {
		return nil, fmt.Errorf("unknown platform %d", int(p))
	}
	return []byte(names[p]), nil
}

// UnmarshalText accepts only known tag names.
func (p *Platform) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Parse maps a tag name back to a Platform. Unknown names are an error rather
// than Other.
func Parse(s string) (Platform, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == key {
			return Platform(i), nil
		}
	}
	return Other, fmt.Errorf("unknown platform %q", s)
}

// hostRules is checked in order; the first substring hit wins.
var hostRules = []struct {
	needle   string
	platform Platform
}{
	{"mp.weixin.qq.com", WeChat},
	{"zhihu.com", Zhihu},
	{"weibo.com", Weibo},
	{"xiaohongshu.com", Xiaohongshu},
	{"toutiao.com", Toutiao},
}

// Classify maps a URL's host to a Platform. Unparseable URLs are Other.
func Classify(rawURL string) Platform {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Other
	}
	host := strings.ToLower(u.Host)
	for _, r := range hostRules {
		if strings.Contains(host, r.needle) {
			return r.platform
		}
	}
	return Other
}
