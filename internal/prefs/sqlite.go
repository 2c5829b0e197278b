package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/hpungsan/urlcopy/internal/db"
	"github.com/hpungsan/urlcopy/internal/errors"
)

// SQLStore persists preferences as JSON values in the preferences table.
type SQLStore struct {
	db *sql.DB
	watchers

	// last holds the values most recently seen by this process so that
	// external writes can be diffed against it.
	mu   sync.Mutex
	last map[string]any
}

func NewSQLStore(conn *sql.DB) *SQLStore {
	return &SQLStore{db: conn, last: make(map[string]any)}
}

func (s *SQLStore) Get(ctx context.Context, key string) (any, bool, error) {
	raw, ok, err := db.GetPreference(ctx, s.db, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, errors.NewInternal(fmt.Errorf("decode preference %s: %w", key, err))
	}
	return v, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("encode preference %s: %v", key, err))
	}
	if err := db.SetPreference(ctx, s.db, key, string(data)); err != nil {
		return err
	}

	// Round-trip so watchers see the same types Get returns.
	var stored any
	_ = json.Unmarshal(data, &stored)

	s.mu.Lock()
	s.last[key] = stored
	s.mu.Unlock()

	s.fire(key, stored)
	return nil
}

func (s *SQLStore) Watch(key string, fn func(value any)) func() {
	return s.add(key, fn)
}

// Clear deletes every stored preference, including keys this version no
// longer uses. Watchers are not called; the keys read as unset afterwards.
func (s *SQLStore) Clear(ctx context.Context) ([]string, error) {
	rows, err := db.ListPreferences(ctx, s.db)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		if err := db.DeletePreference(ctx, s.db, row.Key); err != nil {
			return keys, err
		}
		keys = append(keys, row.Key)
	}

	s.mu.Lock()
	s.last = make(map[string]any)
	s.mu.Unlock()
	return keys, nil
}

// Refresh reloads every preference and fires callbacks for keys whose value
// differs from what this process last saw.
func (s *SQLStore) Refresh(ctx context.Context) error {
	rows, err := db.ListPreferences(ctx, s.db)
	if err != nil {
		return err
	}

	var changed []Pair
	s.mu.Lock()
	for _, row := range rows {
		var v any
		if err := json.Unmarshal([]byte(row.ValueJSON), &v); err != nil {
			continue
		}
		if prev, seen := s.last[row.Key]; seen && reflect.DeepEqual(prev, v) {
			continue
		}
		s.last[row.Key] = v
		changed = append(changed, Pair{Key: row.Key, Value: v})
	}
	s.mu.Unlock()

	for _, p := range changed {
		s.fire(p.Key, p.Value)
	}
	return nil
}

// WatchFiles watches the database directory and calls Refresh whenever the
// database or its WAL is written. It blocks until ctx is cancelled.
func (s *SQLStore) WatchFiles(ctx context.Context, dir string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("prefs watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("prefs watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isDatabaseFile(ev.Name) || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			if err := s.Refresh(ctx); err != nil {
				logger.Warn("prefs refresh failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("prefs watcher error", "error", err)
		}
	}
}

func isDatabaseFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), db.FileName)
}
