// Package repository wraps gorm access behind a small generic API and layers
// field encryption on top as an explicit decorator, so encrypt-on-write and
// decrypt-on-read happen in exactly one place.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repo is a plain gorm-backed store for one entity type. Bind it to a
// transaction handle inside db.Transaction to keep an operation atomic.
type Repo[T any] struct {
	db *gorm.DB
}

// New binds a repository to a database or transaction handle.
func New[T any](db *gorm.DB) *Repo[T] {
	return &Repo[T]{db: db}
}

// ByID loads one entity by primary key, preloading the named associations.
func (r *Repo[T]) ByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	var e T
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ByField loads one entity by equality on a column.
func (r *Repo[T]) ByField(ctx context.Context, column string, value any) (*T, error) {
	var e T
	if err := r.db.WithContext(ctx).First(&e, column+" = ?", value).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all entities matching the optional gorm conditions.
func (r *Repo[T]) List(ctx context.Context, conds ...any) ([]T, error) {
	var es []T
	if err := r.db.WithContext(ctx).Find(&es, conds...).Error; err != nil {
		return nil, err
	}
	return es, nil
}

// Create inserts the entity.
func (r *Repo[T]) Create(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// Save persists all fields of an already-loaded entity.
func (r *Repo[T]) Save(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete removes the entity.
func (r *Repo[T]) Delete(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Delete(e).Error
}

// Count returns the number of rows matching the query and args.
func (r *Repo[T]) Count(ctx context.Context, query string, args ...any) (int64, error) {
	var e T
	var n int64
	err := r.db.WithContext(ctx).Model(&e).Where(query, args...).Count(&n).Error
	return n, err
}
