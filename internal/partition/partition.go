// Package partition stores one value per user under a single named key.
//
// The whole partition is persisted as a JSON object mapping user id to that
// user's value. Every write is a read-modify-write of the whole object.
// Reads never fail because of missing or undecodable data: they fall back
// to a freshly built default. A decoded value is layered over the default,
// so nil pointers, nil slices and absent map keys take the default's
// contents. Only failures of the storage medium itself are returned.
package partition

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"recipe-planner/internal/logger"
	"recipe-planner/internal/storage"

	opts "github.com/goliatone/go-options/layering"
)

// Partition is a user-keyed slice of persisted state.
type Partition[T any] struct {
	name       string
	store      storage.Store
	newDefault func() T
	fill       func(T) T
	log        *logger.Logger
}

// Option customizes a Partition.
type Option[T any] func(*Partition[T])

// WithFill sets a normalization applied to every stored value on read,
// after it has been layered over the default.
func WithFill[T any](fill func(T) T) Option[T] {
	return func(p *Partition[T]) {
		p.fill = fill
	}
}

// WithLogger sets the logger used to report undecodable content.
func WithLogger[T any](log *logger.Logger) Option[T] {
	return func(p *Partition[T]) {
		p.log = log
	}
}

// New creates a partition persisted at key name. newDefault must return a
// new value on every call.
func New[T any](store storage.Store, name string, newDefault func() T, opts ...Option[T]) *Partition[T] {
	p := &Partition[T]{
		name:       name,
		store:      store,
		newDefault: newDefault,
		fill:       func(v T) T { return v },
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the storage key of the partition.
func (p *Partition[T]) Name() string {
	return p.name
}

// Read returns the value stored for userID, or the default when there is none.
func (p *Partition[T]) Read(ctx context.Context, userID string) (T, error) {
	entries, err := p.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	raw, ok := entries[userID]
	if !ok {
		return p.newDefault(), nil
	}
	value, ok := p.decode(userID, raw)
	if !ok {
		return p.newDefault(), nil
	}
	return value, nil
}

// Write replaces the whole value stored for userID.
func (p *Partition[T]) Write(ctx context.Context, userID string, value T) error {
	entries, err := p.load(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s entry for user %s: %w", p.name, userID, err)
	}
	entries[userID] = data
	return p.save(ctx, entries)
}

// Users returns the ids of every user with a stored entry, sorted.
func (p *Partition[T]) Users(ctx context.Context) ([]string, error) {
	entries, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(entries))
	for id := range entries {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

// Sweep passes every stored user value to fn in user id order. fn returns
// the possibly modified value and whether it changed. The partition is
// written once, and only if something changed. Entries that cannot be
// decoded are left untouched. Sweep returns the number of changed users.
func (p *Partition[T]) Sweep(ctx context.Context, fn func(userID string, value T) (T, bool)) (int, error) {
	entries, err := p.load(ctx)
	if err != nil {
		return 0, err
	}

	users := make([]string, 0, len(entries))
	for id := range entries {
		users = append(users, id)
	}
	sort.Strings(users)

	changed := 0
	for _, userID := range users {
		value, ok := p.decode(userID, entries[userID])
		if !ok {
			continue
		}
		updated, dirty := fn(userID, value)
		if !dirty {
			continue
		}
		data, err := json.Marshal(updated)
		if err != nil {
			return changed, fmt.Errorf("failed to marshal %s entry for user %s: %w", p.name, userID, err)
		}
		entries[userID] = data
		changed++
	}

	if changed == 0 {
		return 0, nil
	}
	if err := p.save(ctx, entries); err != nil {
		return 0, err
	}
	return changed, nil
}

func (p *Partition[T]) load(ctx context.Context) (map[string]json.RawMessage, error) {
	var entries map[string]json.RawMessage
	_, err := storage.LoadJSON(ctx, p.store, p.name, &entries)
	if err != nil {
		if !storage.IsCorrupt(err) {
			return nil, err
		}
		p.log.Warn("discarding undecodable partition", "partition", p.name, "error", err)
		entries = nil
	}
	if entries == nil {
		entries = map[string]json.RawMessage{}
	}
	return entries, nil
}

func (p *Partition[T]) save(ctx context.Context, entries map[string]json.RawMessage) error {
	if err := storage.SaveJSON(ctx, p.store, p.name, entries); err != nil {
		return fmt.Errorf("failed to persist partition %s: %w", p.name, err)
	}
	return nil
}

func (p *Partition[T]) decode(userID string, raw json.RawMessage) (T, bool) {
	var value T
	if len(raw) == 0 || string(raw) == "null" {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		p.log.Warn("discarding undecodable partition entry", "partition", p.name, "user_id", userID, "error", err)
		var zero T
		return zero, false
	}
	return p.fill(opts.MergeLayers(value, p.newDefault())), true
}
