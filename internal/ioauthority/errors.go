package ioauthority

import (
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/errcode"
	"github.com/gnames/gn"
)

// CacheError creates an error for a response cache that cannot be opened
// or prepared. The cache is an optimization; callers usually log this and
// continue without caching.
func CacheError(path string, err error) error {
	msg := `Cannot use the response cache at <em>%s</em>

Conversion still works without it, every authority query just goes
over the network.`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ResolveCacheError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot open cache %s: %w", path, err),
	}
}
