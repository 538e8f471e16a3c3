package repository

import (
	"context"

	"epicrm/internal/crypto"
)

// Crypto decorates a Repo with the field codec: registered fields are
// encrypted and re-indexed before every write and decrypted after every
// read. The composition is explicit function wrapping, not a hidden ORM
// hook, so ordering and idempotence stay auditable.
type Crypto[T any] struct {
	inner *Repo[T]
	codec *crypto.Codec
}

// NewCrypto wraps a repository with the codec.
func NewCrypto[T any](inner *Repo[T], codec *crypto.Codec) *Crypto[T] {
	return &Crypto[T]{inner: inner, codec: codec}
}

// ByID loads and decrypts one entity.
func (r *Crypto[T]) ByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	e, err := r.inner.ByID(ctx, id, preloads...)
	if err != nil {
		return nil, err
	}
	r.codec.DecryptEntity(e)
	return e, nil
}

// ByIndexedField looks an entity up through the blind index of a protected
// column: the plaintext is digested and compared against the stored index,
// so no row needs decrypting to search.
func (r *Crypto[T]) ByIndexedField(ctx context.Context, indexColumn, plaintext string) (*T, error) {
	e, err := r.inner.ByField(ctx, indexColumn, r.codec.BlindIndex(plaintext))
	if err != nil {
		return nil, err
	}
	r.codec.DecryptEntity(e)
	return e, nil
}

// List returns all matching entities, decrypted.
func (r *Crypto[T]) List(ctx context.Context, conds ...any) ([]T, error) {
	es, err := r.inner.List(ctx, conds...)
	if err != nil {
		return nil, err
	}
	for i := range es {
		r.codec.DecryptEntity(&es[i])
	}
	return es, nil
}

// Create encrypts the entity, inserts it, and hands it back decrypted so
// the caller keeps working with plaintext.
func (r *Crypto[T]) Create(ctx context.Context, e *T) error {
	if err := r.codec.EncryptEntity(e); err != nil {
		return err
	}
	if err := r.inner.Create(ctx, e); err != nil {
		return err
	}
	r.codec.DecryptEntity(e)
	return nil
}

// Save encrypts and persists an already-loaded entity, handing it back
// decrypted.
func (r *Crypto[T]) Save(ctx context.Context, e *T) error {
	if err := r.codec.EncryptEntity(e); err != nil {
		return err
	}
	if err := r.inner.Save(ctx, e); err != nil {
		return err
	}
	r.codec.DecryptEntity(e)
	return nil
}

// Delete removes the entity.
func (r *Crypto[T]) Delete(ctx context.Context, e *T) error {
	return r.inner.Delete(ctx, e)
}
