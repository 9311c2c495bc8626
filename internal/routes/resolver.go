package routes

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// BuildContext describes the build a path map override runs for.
type BuildContext struct {
	Dev     bool   `json:"dev"`
	Dir     string `json:"dir"`
	OutDir  string `json:"outDir,omitempty"`
	DistDir string `json:"distDir,omitempty"`
	BuildID string `json:"buildId"`
}

// PathMapFunc replaces the discovered mapping. It receives a copy of the
// discovered mapping and returns the mapping to use instead; the result is not
// merged with its input. Returned errors are handed back to the caller of
// Resolve unchanged.
type PathMapFunc func(ctx context.Context, discovered *PathMap, bc BuildContext) (*PathMap, error)

// Overrides are the declarative adjustments applied on top of discovery.
type Overrides struct {
	PathMap  PathMapFunc
	Excluded []string
	Extra    []string
}

// Resolve produces the final mapping from the discovered routes. The steps run
// in a fixed order: path map (replaces the mapping), then exclusions, then extra
// routes. Extras are applied last so exclusions can never remove them.
func Resolve(ctx context.Context, discovered []string, ov Overrides, bc BuildContext) (*PathMap, error) {
	pm := PathMapFromRoutes(discovered)

	if ov.PathMap != nil {
		slog.Debug("Running path map override", logfields.Count(pm.Len()), logfields.BuildID(bc.BuildID))
		mapped, err := ov.PathMap(ctx, pm.Clone(), bc)
		if err != nil {
			return nil, err
		}
		if mapped == nil {
			slog.Warn("Path map override returned no mapping; continuing with an empty route set")
			mapped = NewPathMap()
		}
		pm = canonical(mapped)
		slog.Info("Path map override applied", logfields.Count(pm.Len()))
	}

	for _, route := range ov.Excluded {
		if pm.Delete(route) {
			slog.Debug("Excluded route", logfields.Route(route))
		}
	}

	for _, route := range ov.Extra {
		pm.Set(route, Descriptor{Page: route})
		slog.Debug("Added extra route", logfields.Route(route))
	}

	return pm, nil
}

// canonical rebuilds an override result so every key is a normalized route.
// Keys that collide after normalizing keep the first descriptor and position.
func canonical(pm *PathMap) *PathMap {
	out := NewPathMap()
	for _, route := range pm.Paths() {
		norm := NormalizeRoute(route)
		if out.Has(norm) {
			slog.Warn("Dropping duplicate route from path map override", logfields.Route(route))
			continue
		}
		d, _ := pm.Get(route)
		out.Set(norm, d)
	}
	return out
}

// NormalizeRoute ensures a user-supplied route starts with "/". An empty
// route is the root, "/".
func NormalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}
