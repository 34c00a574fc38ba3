// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"errors"
	"time"
)

// ErrNoResource is the error returned when a resource is not in the cache.
var ErrNoResource = errors.New("no such resource in cache")

// Store is an interface satisfied by the storage service.
type Store interface {
	// Load returns the content of a resource file, from the cache if the
	// file has not changed since it was cached. It implements the resource
	// loader of the compiler.
	Load(path string) ([]byte, error)

	Resource(path string) (Resource, error)
	Resources() ([]Resource, error)
	DelResource(path string) error
	Purge() (int, error)
}

// Resource is an entry in the resource cache.
type Resource struct {
	Path    string
	ModTime time.Time
	Size    int64
}
