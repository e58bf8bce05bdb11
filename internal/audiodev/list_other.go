//go:build !linux

package audiodev

import "context"

// List returns no devices; the platform player always uses the default output.
func List(ctx context.Context) ([]Device, error) {
	return nil, nil
}
