package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/tdewolff/minify"
	minxml "github.com/tdewolff/minify/xml"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// Protocol namespaces written on every <urlset>.
const (
	Namespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
	SchemaLocation = Namespace + " http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"
)

// Format selects how the document is laid out.
type Format string

const (
	FormatPretty   Format = "pretty"
	FormatMinified Format = "minified"
)

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == FormatPretty || f == FormatMinified
}

// Document is the <urlset> envelope.
type Document struct {
	XMLName        xml.Name     `xml:"urlset"`
	XMLNS          string       `xml:"xmlns,attr"`
	XSI            string       `xml:"xmlns:xsi,attr"`
	XHTML          string       `xml:"xmlns:xhtml,attr"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	URLs           []urlElement `xml:"url"`
}

type urlElement struct {
	Loc        string        `xml:"loc"`
	LastMod    string        `xml:"lastmod"`
	ChangeFreq string        `xml:"changefreq,omitempty"`
	Priority   string        `xml:"priority,omitempty"`
	Links      []linkElement `xml:"xhtml:link"`
}

type linkElement struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// NewDocument wraps entries in the protocol envelope, keeping their order.
func NewDocument(entries []URLEntry) *Document {
	doc := &Document{
		XMLNS:          Namespace,
		XSI:            XSINamespace,
		XHTML:          XHTMLNamespace,
		SchemaLocation: SchemaLocation,
		URLs:           make([]urlElement, 0, len(entries)),
	}
	for _, e := range entries {
		u := urlElement{
			Loc:        e.Location,
			LastMod:    e.LastMod,
			ChangeFreq: string(e.ChangeFreq),
		}
		if e.Priority != nil {
			u.Priority = strconv.FormatFloat(*e.Priority, 'f', -1, 64)
		}
		for _, alt := range e.Alternates {
			u.Links = append(u.Links, linkElement{Rel: alt.Rel, HrefLang: alt.HrefLang, Href: alt.Href})
		}
		doc.URLs = append(doc.URLs, u)
	}
	return doc
}

// Encode serializes entries to a UTF-8 XML document starting with the XML
// declaration. Alternate links are written as self-closing elements.
func Encode(entries []URLEntry, format Format) ([]byte, error) {
	body, err := xml.MarshalIndent(NewDocument(entries), "", "  ")
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode sitemap").Build()
	}
	// encoding/xml never self-closes; link elements are always empty.
	body = bytes.ReplaceAll(body, []byte("></xhtml:link>"), []byte("/>"))

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')

	switch format {
	case FormatPretty, "":
		return buf.Bytes(), nil
	case FormatMinified:
		m := minify.New()
		m.AddFunc("text/xml", minxml.Minify)
		out, err := m.Bytes("text/xml", buf.Bytes())
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to minify sitemap").Build()
		}
		return out, nil
	default:
		return nil, ferrors.ConfigError(fmt.Sprintf("unsupported sitemap format %q", format)).
			WithContext("field", "format").
			Build()
	}
}
