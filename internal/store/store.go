// Package store persists the books document between CLI runs.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoData is returned by Load when nothing has been saved yet.
var ErrNoData = errors.New("no saved books")

// Store saves and loads the encoded books document.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the store for a driver name.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFile(path), nil
	case DriverSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
