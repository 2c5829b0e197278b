// Package prefs is the persisted preference set: the selected copy style and
// the two URL-cleaning toggles.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"github.com/hpungsan/urlcopy/internal/errors"
	"github.com/hpungsan/urlcopy/internal/transform"
)

const (
	KeyCopyStyle    = "copy-style-id"
	KeyRemoveParams = "remove-params"
	KeyURLDecoding  = "url-decoding"
)

// Store is a key-value preference store. Get reports ok=false for keys that
// were never set. Watch callbacks receive the new value after a change.
type Store interface {
	Get(ctx context.Context, key string) (value any, ok bool, err error)
	Set(ctx context.Context, key string, value any) error
	Watch(key string, fn func(value any)) (unwatch func())
}

// Pair is one key and its value.
type Pair struct {
	Key   string
	Value any
}

// Defaults returns the initial preference set in the order it is persisted.
func Defaults() []Pair {
	return []Pair{
		{Key: KeyCopyStyle, Value: string(transform.DefaultStyle)},
		{Key: KeyRemoveParams, Value: true},
		{Key: KeyURLDecoding, Value: true},
	}
}

// Values is a typed view of the preference set.
type Values struct {
	Style        transform.Style `json:"copy_style_id"`
	RemoveParams bool            `json:"remove_params"`
	URLDecoding  bool            `json:"url_decoding"`
}

// Snapshot reads every preference, substituting defaults for unset keys.
func Snapshot(ctx context.Context, s Store) (Values, error) {
	v := Values{Style: transform.DefaultStyle, RemoveParams: true, URLDecoding: true}

	style, ok, err := GetString(ctx, s, KeyCopyStyle)
	if err != nil {
		return v, err
	}
	if ok && style != "" {
		v.Style = transform.Style(style)
	}

	if b, ok, err := GetBool(ctx, s, KeyRemoveParams); err != nil {
		return v, err
	} else if ok {
		v.RemoveParams = b
	}

	if b, ok, err := GetBool(ctx, s, KeyURLDecoding); err != nil {
		return v, err
	} else if ok {
		v.URLDecoding = b
	}
	return v, nil
}

// GetString reads a string preference. A stored value of another type is an error.
func GetString(ctx context.Context, s Store, key string) (string, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	str, isStr := raw.(string)
	if !isStr {
		return "", false, errors.NewInternal(fmt.Errorf("preference %s: want string, got %T", key, raw))
	}
	return str, true, nil
}

// GetBool reads a bool preference. A stored value of another type is an error.
func GetBool(ctx context.Context, s Store, key string) (bool, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, false, err
	}
	b, isBool := raw.(bool)
	if !isBool {
		return false, false, errors.NewInternal(fmt.Errorf("preference %s: want bool, got %T", key, raw))
	}
	return b, true, nil
}

// watchers is the callback registry shared by the store backends.
type watchers struct {
	mu     sync.Mutex
	nextID int
	byKey  map[string]map[int]func(any)
}

func (w *watchers) add(key string, fn func(any)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.byKey == nil {
		w.byKey = make(map[string]map[int]func(any))
	}
	if w.byKey[key] == nil {
		w.byKey[key] = make(map[int]func(any))
	}
	w.nextID++
	id := w.nextID
	w.byKey[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.byKey[key], id)
		})
	}
}

// fire calls the callbacks for key outside the lock.
func (w *watchers) fire(key string, value any) {
	w.mu.Lock()
	fns := make([]func(any), 0, len(w.byKey[key]))
	for _, fn := range w.byKey[key] {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}
