// Package storage provides the key-value collaborator the history service
// persists through: a flat namespace of string keys to string blobs.
package storage

import "context"

// KVStore is the key-value storage collaborator. Get reports whether the
// key was present; an absent key is not an error. Set fully overwrites the
// previous value. Delete is idempotent.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
