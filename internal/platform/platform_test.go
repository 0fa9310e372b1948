package platform

import (
	"encoding/json"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want Platform
	}{
		{"https://mp.weixin.qq.com/s/abc", WeChat},
		{"https://MP.WEIXIN.QQ.COM/s/abc", WeChat},
		{"https://www.zhihu.com/question/1", Zhihu},
		{"https://zhuanlan.zhihu.com/p/2", Zhihu},
		{"https://weibo.com/123/abc", Weibo},
		{"https://www.xiaohongshu.com/explore/1", Xiaohongshu},
		{"https://www.toutiao.com/article/1/", Toutiao},
		{"https://blog.csdn.net/x/article/details/1", Other},
		{"https://example.com/?ref=zhihu.com", Other},
		{"::not a url", Other},
		{"", Other},
	}
	for _, tc := range cases {
		if got := Classify(tc.url); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestParse_RejectsUnknown(t *testing.T) {
	for _, n := range []string{"wechat", "zhihu", "weibo", "xiaohongshu", "toutiao", "other"} {
		p, err := Parse(n)
		if err != nil {
			t.Fatalf("Parse(%q): %v", n, err)
		}
		if p.String() != n {
			t.Fatalf("round trip %q -> %q", n, p.String())
		}
	}
	if _, err := Parse("unknown"); err == nil {
		t.Fatalf("expected error for unknown platform")
	}
	if _, err := Parse("medium"); err == nil {
		t.Fatalf("expected error for unregistered platform")
	}
}

func TestPlatform_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		P Platform `json:"platform"`
	}{Zhihu})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"platform":"zhihu"}` {
		t.Fatalf("got %s", b)
	}
	var v struct {
		P Platform `json:"platform"`
	}
	if err := json.Unmarshal([]byte(`{"platform":"bogus"}`), &v); err == nil {
		t.Fatalf("expected unmarshal error for unknown platform")
	}
}
