// Package robots renders the robots.txt that accompanies a generated sitemap.
package robots

import "strings"

// Build returns robots.txt content allowing every crawler and pointing at the
// sitemap published under baseURL.
func Build(baseURL, sitemapFilename string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + SitemapURL(baseURL, sitemapFilename)
}

// SitemapURL is the absolute URL of the sitemap file.
func SitemapURL(baseURL, sitemapFilename string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(sitemapFilename, "/")
}
