package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goreader/internal/codec"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeDecode(t *testing.T) {
	u := "https://example.com/图片 1.png?a=b"
	out, err := execute(t, "encode", u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	token := strings.TrimSpace(out)
	if token != codec.Encode(u) {
		t.Fatalf("unexpected token %q", token)
	}
	out, err = execute(t, "decode", token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.TrimSpace(out) != u {
		t.Fatalf("decode returned %q", out)
	}

	out, err = execute(t, "encode", "--proxy-base-url", "https://p.example", u)
	if err != nil || strings.TrimSpace(out) != codec.ProxyURL("https://p.example", u) {
		t.Fatalf("encode with base: %q, %v", out, err)
	}
}

func TestDecode_InvalidToken(t *testing.T) {
	if _, err := execute(t, "decode", "%%%"); err == nil {
		t.Fatalf("expected error for invalid token")
	}
}

func TestExtract_PrintsJSON(t *testing.T) {
	for _, k := range []string{"USER_AGENT", "TIMEOUT", "LOG_LEVEL", "IMAGE_FILTER_TIER", "PROXY_BASE_URL", "RELAYS", "PORT", "IMAGE_CACHE_DAYS", "MAX_IMAGE_SIZE", "HOST"} {
		t.Setenv(k, "")
	}
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>CLI Page - Site</title></head><body><img src="/one.jpg" alt="chart"></body></html>`))
	}))
	defer srv.Close()

	noEnv := filepath.Join(t.TempDir(), "none.env")
	out, err := execute(t, "extract", "--env-file", noEnv, "--user-agent", "cli-agent", "--timeout", "2s", "--links", "--proxy-base-url", "https://p.example", srv.URL+"/page")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ua != "cli-agent" {
		t.Fatalf("flag user agent not used: %q", ua)
	}
	var got struct {
		Article struct {
			Title      string `json:"title"`
			ImageCount int    `json:"image_count"`
		} `json:"article"`
		Images []struct {
			ProxyURL string `json:"proxy_url"`
		} `json:"proxied_images"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if got.Article.Title != "CLI Page" || got.Article.ImageCount != 1 || len(got.Images) != 1 {
		t.Fatalf("unexpected output: %+v", got)
	}
	if !strings.HasPrefix(got.Images[0].ProxyURL, "https://p.example/image/") {
		t.Fatalf("unexpected proxy url %q", got.Images[0].ProxyURL)
	}
}

func TestExtract_BadTierFails(t *testing.T) {
	noEnv := filepath.Join(t.TempDir(), "none.env")
	if _, err := execute(t, "extract", "--env-file", noEnv, "--tier", "huge", "https://example.com"); err == nil {
		t.Fatalf("expected validation error")
	}
}
