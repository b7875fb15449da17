// Package store persists serialized emoji caches.
//
// Blobs are opaque to the store; they are addressed by [Key], which binds
// an entity to the frame size the blob was rendered at. A store never
// validates content: callers that fail to deserialize a blob delete it.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
)

// ErrNotFound is returned by Get when no blob is stored under the key.
var ErrNotFound = errors.New("store: not found")

// Store is a key/blob store. Implementations are safe for concurrent use.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, blob []byte) error
	Delete(key string) error
}

// Key returns the storage key for entityData rendered at size pixels.
func Key(entityData string, size int) string {
	sum := sha256.Sum256([]byte(entityData))
	return hex.EncodeToString(sum[:]) + "-" + strconv.Itoa(size)
}

// Layered reads through Front to Back, filling Front on a Back hit.
// Writes and deletes go to both.
type Layered struct {
	Front Store
	Back  Store
}

var _ Store = (*Layered)(nil)

func (l *Layered) Get(key string) ([]byte, error) {
	blob, err := l.Front.Get(key)
	if err == nil {
		return blob, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	blob, err = l.Back.Get(key)
	if err != nil {
		return nil, err
	}
	// A failed fill only costs a later re-read from Back.
	_ = l.Front.Put(key, blob)
	return blob, nil
}

func (l *Layered) Put(key string, blob []byte) error {
	if err := l.Back.Put(key, blob); err != nil {
		return err
	}
	return l.Front.Put(key, blob)
}

func (l *Layered) Delete(key string) error {
	return errors.Join(l.Front.Delete(key), l.Back.Delete(key))
}
