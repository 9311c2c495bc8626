package pages

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	perrors "git.home.luguber.info/inful/sitemapper/internal/pages/errors"
)

// indexName is the basename that collapses into its parent directory route.
const indexName = "index"

// PageFile is a recognized page file and the route it maps to.
type PageFile struct {
	RelativePath string // slash-separated, relative to the pages root
	Extension    string // the configured extension that matched, without leading dot
	Route        string
}

// Discovery enumerates page files under a pages root and derives their routes.
type Discovery struct {
	root          string
	extensions    []string
	trailingSlash bool
}

// NewDiscovery creates a discovery for root. Extensions are matched case-sensitively
// against the end of the file name; a leading dot is optional.
func NewDiscovery(root string, extensions []string, trailingSlash bool) *Discovery {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" && !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	return &Discovery{root: root, extensions: exts, trailingSlash: trailingSlash}
}

// Discover returns the page files found under the root, in lexical file order,
// with one entry per distinct route. Files whose route would collide with an
// earlier file are skipped with a warning.
func (d *Discovery) Discover() ([]PageFile, error) {
	if len(d.extensions) == 0 {
		return nil, ferrors.WrapError(perrors.ErrNoExtensions, ferrors.CategoryConfig, "page_extensions must not be empty").
			Fatal().
			WithContext("field", "page_extensions").
			Build()
	}
	if err := checkRoot(d.root); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(d.root), d.pattern(),
		doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, ferrors.DiscoveryError("failed to enumerate page files").
			WithCause(fmt.Errorf("%w: %w", perrors.ErrGlobFailed, err)).
			WithContext("path", d.root).
			Build()
	}
	slices.Sort(matches)

	files := make([]PageFile, 0, len(matches))
	seen := make(map[string]string, len(matches))
	for _, rel := range matches {
		if isHidden(rel) {
			continue
		}
		ext := d.matchExtension(rel)
		if ext == "" {
			continue
		}
		route, ok := RoutePath(rel, ext, d.trailingSlash)
		if !ok {
			slog.Debug("Skipping non-routable page file", logfields.File(rel))
			continue
		}
		if first, dup := seen[route]; dup {
			slog.Warn("Skipping page file with duplicate route",
				logfields.File(rel),
				logfields.Route(route),
				slog.String("kept", first),
				logfields.Error(perrors.ErrRouteCollision))
			continue
		}
		seen[route] = rel
		files = append(files, PageFile{RelativePath: rel, Extension: ext, Route: route})
		slog.Debug("Discovered page", logfields.File(rel), logfields.Route(route))
	}

	slog.Info("Page discovery completed", logfields.Path(d.root), logfields.Count(len(files)))
	return files, nil
}

// Routes is Discover reduced to the ordered route list.
func (d *Discovery) Routes() ([]string, error) {
	files, err := d.Discover()
	if err != nil {
		return nil, err
	}
	routes := make([]string, len(files))
	for i, f := range files {
		routes[i] = f.Route
	}
	return routes, nil
}

// RoutePath derives the canonical route for a slash-separated file path relative
// to the pages root whose name ends in "."+ext. The second return value is false
// when the file is not routable (its final route segment starts with "_").
func RoutePath(rel, ext string, trailingSlash bool) (string, bool) {
	stem := strings.TrimSuffix(rel, "."+ext)
	dir, base := path.Split(stem)
	if base == indexName {
		stem = strings.TrimSuffix(dir, "/")
	}

	if stem != "" && strings.HasPrefix(path.Base(stem), "_") {
		return "", false
	}
	if stem == "" {
		return "/", true
	}

	route := "/" + stem
	if trailingSlash {
		route += "/"
	}
	return route, true
}

// matchExtension returns the longest configured extension rel ends with.
func (d *Discovery) matchExtension(rel string) string {
	best := ""
	for _, ext := range d.extensions {
		if strings.HasSuffix(rel, "."+ext) && len(ext) > len(best) && len(rel) > len(ext)+1 {
			best = ext
		}
	}
	return best
}

func (d *Discovery) pattern() string {
	escaped := make([]string, len(d.extensions))
	for i, ext := range d.extensions {
		escaped[i] = escapeMeta(ext)
	}
	if len(escaped) == 1 {
		return "**/*." + escaped[0]
	}
	return "**/*.{" + strings.Join(escaped, ",") + "}"
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", root)
	}
	if err == nil {
		_, err = os.ReadDir(root)
	}
	if err != nil {
		return ferrors.DiscoveryError("pages root unreadable").
			WithCause(fmt.Errorf("%w: %w", perrors.ErrPagesRootUnreadable, err)).
			WithContext("path", root).
			Build()
	}
	return nil
}

func isHidden(rel string) bool {
	for _, segment := range strings.Split(rel, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', ',', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
