package storage

import (
	"strings"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// checkName rejects anything but a bare file name so no store can write
// outside its root.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ferrors.ValidationError("artifact name must be a bare file name").
			WithContext("name", name).
			Build()
	}
	return nil
}
