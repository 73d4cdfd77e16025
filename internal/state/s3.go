package state

import (
	"context"
	"fmt"
)

// ObjectAPI is the slice of an object storage client the S3 store needs.
// Implemented by the platform s3 client; bucket selection happens there.
type ObjectAPI interface {
	GetObject(ctx context.Context, key string) ([]byte, bool, error)
	PutObject(ctx context.Context, key string, body []byte) error
	DeleteObject(ctx context.Context, key string) error
}

// S3Store keeps the record as a single JSON object in a bucket. It lets
// several operators share one stack's state without copying files around.
type S3Store struct {
	api ObjectAPI
	key string
}

// NewS3Store returns a store writing to the given object key.
func NewS3Store(api ObjectAPI, key string) *S3Store {
	return &S3Store{api: api, key: key}
}

// Key returns the object key the store writes to.
func (s *S3Store) Key() string {
	return s.key
}

func (s *S3Store) Load(ctx context.Context) (*Record, error) {
	data, found, err := s.api.GetObject(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch state object %s: %w", s.key, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return decode(data, "s3:"+s.key)
}

func (s *S3Store) Save(ctx context.Context, r *Record) error {
	data, err := encode(r)
	if err != nil {
		return err
	}
	if err := s.api.PutObject(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to store state object %s: %w", s.key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context) error {
	if err := s.api.DeleteObject(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete state object %s: %w", s.key, err)
	}
	return nil
}
