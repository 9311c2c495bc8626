// Package storage writes generated artifacts (sitemap, robots file, compressed
// sitemap) to their destinations.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ArtifactStore holds artifacts by bare file name.
type ArtifactStore interface {
	// Put writes an object, replacing any previous object of the same name,
	// and returns the content hash.
	Put(ctx context.Context, obj *Object) (hash string, err error)

	// Get retrieves an object by name.
	// Returns ErrNotFound if the object doesn't exist.
	Get(ctx context.Context, name string) (*Object, error)

	// Exists checks if an object with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored objects, sorted.
	List(ctx context.Context) ([]string, error)

	// Location describes where objects go, for logs and events.
	Location() string

	// Close releases any resources held by the store.
	Close() error
}

// Object is a generated artifact.
type Object struct {
	// Name is the bare file name, e.g. "sitemap.xml".
	Name string

	// ContentType is sent along to stores that keep it (S3).
	ContentType string

	Data []byte

	// Hash is the hex SHA256 of Data; stores fill it in on Put.
	Hash string

	Metadata Metadata
}

// Metadata stores object metadata.
type Metadata struct {
	ModifiedAt time.Time

	// Custom allows storage-specific metadata.
	Custom map[string]string
}

// Content types of the generated artifacts.
const (
	ContentTypeXML  = "application/xml"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeGzip = "application/gzip"
)

// ErrNotFound is returned when an object doesn't exist.
type ErrNotFound struct {
	Name string
}

func (e ErrNotFound) Error() string {
	return "object not found: " + e.Name
}

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ContentHash returns the hex SHA256 of data.
func ContentHash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
