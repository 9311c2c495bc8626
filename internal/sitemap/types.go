package sitemap

import (
	"slices"
	"strings"
)

// ChangeFreq is the <changefreq> value of a URL entry.
type ChangeFreq string

const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

var changeFreqs = []ChangeFreq{
	ChangeFreqAlways,
	ChangeFreqHourly,
	ChangeFreqDaily,
	ChangeFreqWeekly,
	ChangeFreqMonthly,
	ChangeFreqYearly,
	ChangeFreqNever,
}

// Valid reports whether c is one of the protocol values. Matching is exact.
func (c ChangeFreq) Valid() bool {
	return slices.Contains(changeFreqs, c)
}

// ChangeFreqValues lists the accepted values in protocol order.
func ChangeFreqValues() string {
	names := make([]string, len(changeFreqs))
	for i, c := range changeFreqs {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// PageTag overrides changefreq and priority for the entry whose route equals Path.
type PageTag struct {
	Path       string     `yaml:"path"`
	ChangeFreq ChangeFreq `yaml:"changefreq,omitempty"`
	Priority   *float64   `yaml:"priority,omitempty"`
}

// AlternateBaseURL produces an hreflang alternate link for every entry.
type AlternateBaseURL struct {
	Lang string `yaml:"lang"`
	URL  string `yaml:"url"`
}

// AlternateLink is a localized variant of an entry.
type AlternateLink struct {
	Rel      string
	HrefLang string
	Href     string
}

// URLEntry is one <url> of the sitemap. Location identifies the entry.
type URLEntry struct {
	Location   string
	LastMod    string
	Alternates []AlternateLink
	ChangeFreq ChangeFreq
	Priority   *float64
}

// Float64 returns a pointer to v, for priority literals.
func Float64(v float64) *float64 { return &v }
