// Package generator runs a sitemap generation: it discovers page routes,
// applies the configured overrides, builds the URL entries and writes the
// sitemap and robots artifacts to every configured store.
//
// Run is the build hook. It validates the configuration before touching any
// file, removes stale artifacts, generates everything in memory, writes, and
// finally notifies downstream consumers. Generate and Routes are the pure
// halves used by dry runs and the routes command.
package generator
