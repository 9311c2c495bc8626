package storage

import (
	"bytes"

	"github.com/klauspost/compress/gzip"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// Gzip compresses data at the best compression level. The header carries the
// artifact name and no timestamp, so identical input yields identical output.
func Gzip(name string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, ferrors.InternalError("failed to create gzip writer").WithCause(err).Build()
	}
	zw.Name = name
	if _, err := zw.Write(data); err != nil {
		return nil, ferrors.InternalError("failed to compress artifact").WithCause(err).WithContext("name", name).Build()
	}
	if err := zw.Close(); err != nil {
		return nil, ferrors.InternalError("failed to compress artifact").WithCause(err).WithContext("name", name).Build()
	}
	return buf.Bytes(), nil
}
