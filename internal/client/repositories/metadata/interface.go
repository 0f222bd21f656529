// Package metadata is the client's durable key/value storage. It backs
// everything that must survive a restart: the credential token and the
// last username used to sign in.
package metadata

import (
	"context"
)

// Repository is a string key/value store.
//
// Get reports found == false (and no error) for a missing key. Delete of a
// missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
