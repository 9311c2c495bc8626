// Package errors provides the classified error primitives used across sitemapper.
//
// Every failure the generator raises itself is a ClassifiedError carrying a
// category (config, discovery, filesystem, storage, ...), a severity and a
// context map naming the offending field or path. Errors returned by a
// user-supplied path map are deliberately left untouched and pass through
// unclassified.
//
// Example usage:
//
//	err := errors.ConfigError("priority must be within [0,1]").
//		WithContext("field", "page_tags[0].priority").
//		WithContext("path", "/about").
//		Build()
package errors
