package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

func TestNewProxyFunc(t *testing.T) {
	fn := NewProxyFunc("http://proxy:3128", "", "internal.example")

	tests := []struct {
		desc string
		url  string
		want string
	}{
		{"http uses http proxy", "http://news.example/a", "http://proxy:3128"},
		{"https falls back to http proxy", "https://news.example/a", "http://proxy:3128"},
		{"no_proxy bypasses", "https://internal.example/a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			got, err := fn(req)
			if err != nil {
				t.Fatal(err)
			}
			gotStr := ""
			if got != nil {
				gotStr = got.String()
			}
			if gotStr != tt.want {
				t.Errorf("proxy = %q, want %q", gotStr, tt.want)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(model.HTTPConfig{Timeout: 5 * time.Second, InsecureTLS: true}, 0)
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
	tr := c.Transport.(*http.Transport)
	if tr.TLSClientConfig == nil || !tr.TLSClientConfig.InsecureSkipVerify {
		t.Error("InsecureTLS not applied")
	}
}
