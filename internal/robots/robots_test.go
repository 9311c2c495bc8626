package robots

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	got := Build("https://www.example.com", "sitemap.xml")
	assert.Equal(t, "User-agent: *\nAllow: /\nSitemap: https://www.example.com/sitemap.xml", got)
}

func TestSitemapURL(t *testing.T) {
	tests := []struct {
		base, file, want string
	}{
		{"https://example.com", "sitemap.xml", "https://example.com/sitemap.xml"},
		{"https://example.com/", "sitemap.xml", "https://example.com/sitemap.xml"},
		{"https://example.com/docs", "map.xml", "https://example.com/docs/map.xml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SitemapURL(tt.base, tt.file))
	}
}
