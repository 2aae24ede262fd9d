package storage

import "context"

// StoredImage describes an image accepted by the store.
type StoredImage struct {
	Name string
	URL  string
	Size int64
}

// ImageStore is the object-storage collaborator: it accepts an image buffer
// and returns a publicly addressable URL.
type ImageStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (StoredImage, error)
}
